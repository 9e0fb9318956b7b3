/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"github.com/samber/lo"
)

// Directives is the cross-cutting directive set attached to a relationship:
// link specifications, metadata, namespace, the final inclusion decision,
// and an optional serializer override.
//
// A declaration holds a directive template and hands association building a
// working copy; serializer lookups receive a further Clone so a custom lookup
// cannot alias the builder's directive set.
type Directives struct {
	// Namespace scopes the relationship in the output document. When empty it
	// is inherited from the parent's RenderOptions during building.
	Namespace string

	// Links maps link names to either literal values or Compute functions.
	Links map[string]any

	// Meta is a literal value, a Compute function, or nil.
	Meta any

	// IncludeData is the final, render-visible inclusion decision. It is
	// recomputed when the association is built; the declaration-side policy
	// lives on the Reflection, not here.
	IncludeData bool

	// Serializer, when non-nil, bypasses type-based lookup entirely.
	Serializer Factory
}

// Clone returns a copy of d whose Links map does not alias d's.
// Meta and Serializer are copied as-is (they are treated as immutable).
func (d Directives) Clone() Directives {
	out := d
	if d.Links != nil {
		out.Links = lo.Assign(map[string]any{}, d.Links)
	}
	return out
}
