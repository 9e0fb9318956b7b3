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

package association

import (
	"dirpx.dev/arx/apis"
)

// Kind tags the resolution of an Association as exactly one of a nested
// serializer, a virtual value, or absent.
type Kind int

const (
	// Absent means the relationship resolved to no value, either because the
	// inclusion policy excluded it or because nothing renderable was found.
	Absent Kind = iota
	// Nested means the relationship resolved to a nested serializer instance.
	Nested
	// Virtual means the relationship carries a raw value with no serializer,
	// already in output-ready shape.
	Virtual
)

// String returns the kind's canonical name.
func (k Kind) String() string {
	switch k {
	case Nested:
		return "nested"
	case Virtual:
		return "virtual"
	default:
		return "absent"
	}
}

// Association is a fully resolved, render-ready relationship: the externally
// visible name, the final directive snapshot, and the tagged resolution.
// It is constructed fresh per render pass per parent instance and never
// mutated afterwards.
type Association struct {
	name       string
	directives apis.Directives
	kind       Kind
	serializer apis.Serializer
	virtual    any
}

// Name returns the externally visible relationship name.
func (a Association) Name() string {
	return a.name
}

// Directives returns the merged directive snapshot, reflecting the final
// state after value resolution (namespace inherited, links and metadata
// materialized, IncludeData recomputed). It returns a Clone so callers cannot
// mutate the association through the shared link map.
func (a Association) Directives() apis.Directives {
	return a.directives.Clone()
}

// Kind returns the resolution tag.
func (a Association) Kind() Kind {
	return a.kind
}

// Serializer returns the nested serializer instance when Kind is Nested.
func (a Association) Serializer() (apis.Serializer, bool) {
	return a.serializer, a.kind == Nested
}

// Virtual returns the raw value when Kind is Virtual.
func (a Association) Virtual() (any, bool) {
	return a.virtual, a.kind == Virtual
}

// Absent reports whether the relationship resolved to nothing.
func (a Association) Absent() bool {
	return a.kind == Absent
}
