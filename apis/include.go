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

// IncludeSetting is the tri-state inclusion policy of a relationship
// declaration. IncludeDefault (the zero value) defers to the process-wide
// Config.DefaultInclude. Any value outside the declared constants is a
// configuration error and is rejected at evaluation time, never coerced.
type IncludeSetting int

const (
	// IncludeDefault defers to Config.DefaultInclude.
	IncludeDefault IncludeSetting = iota
	// IncludeAlways includes the relationship value in every render.
	IncludeAlways
	// IncludeNever excludes the relationship value from every render.
	IncludeNever
	// IncludeIfRequested includes the value only when the relationship name
	// is present in the render's IncludeSlice.
	IncludeIfRequested
)

// String returns the setting's canonical name, or "invalid" for
// out-of-range values.
func (s IncludeSetting) String() string {
	switch s {
	case IncludeDefault:
		return "default"
	case IncludeAlways:
		return "always"
	case IncludeNever:
		return "never"
	case IncludeIfRequested:
		return "if_requested"
	default:
		return "invalid"
	}
}

// IncludeSlice is the per-render set of relationship names explicitly
// requested by the caller. It maps names to arbitrary request-scoped values;
// only key presence matters for inclusion decisions.
type IncludeSlice map[string]any

// Contains reports whether name was explicitly requested.
func (s IncludeSlice) Contains(name string) bool {
	return lo.HasKey(s, name)
}

// Names returns the requested relationship names (order unspecified).
func (s IncludeSlice) Names() []string {
	return lo.Keys(s)
}
