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

package reflection

import (
	"dirpx.dev/arx/apis"
)

// Context is the explicit execution context handed to deferred computations.
// It replaces transient object/scope bindings on the declaration itself:
// every invocation receives its own Context value, so one declaration can be
// resolved concurrently for different parent instances without locking.
type Context struct {
	// Object is the resource currently being serialized.
	Object any
	// Scope is the ambient render scope of the owning serializer.
	Scope any
	// Serializer is the owning serializer itself.
	Serializer apis.Serializer
}

// ValueFunc is a deferred relationship value computation. Returning Unset()
// defers to the default attribute lookup on the owning serializer.
type ValueFunc func(Context) Result

// Compute is a deferred link or metadata computation.
type Compute func(Context) any

// Materialize resolves v to its literal form: Compute values are invoked
// with ctx, everything else is returned unchanged.
func Materialize(v any, ctx Context) any {
	if c, ok := v.(Compute); ok {
		return c(ctx)
	}
	return v
}
