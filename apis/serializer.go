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
	"reflect"
)

// Serializer is the owning-serializer contract consumed during association
// resolution. Implementations wrap one resource object for one render pass.
type Serializer interface {
	// Object returns the resource currently being serialized.
	Object() any
	// Scope returns the ambient render scope (e.g., the current viewer).
	Scope() any
	// ReadAttribute returns the serialized form of the named attribute of
	// Object, or nil when the attribute does not exist.
	ReadAttribute(name string) any
	// SerializerFor resolves a candidate Factory for a related value,
	// honoring any override carried in d. It returns (nil, false) when no
	// serializer applies, which downgrades the value to a virtual value
	// or an absent resolution.
	SerializerFor(v any, d Directives) (Factory, bool)
	// ContextType identifies the serializer's resource type. It is attached
	// to nested RenderOptions so child serializers can resolve behavior
	// relative to their parent.
	ContextType() reflect.Type
}

// Factory constructs a Serializer for a related value.
//
// The (ok=false, err=nil) return is the graceful decline signal: the factory
// inspected the value and decided no serialization applies (e.g., a nil or
// empty case), deferring to the virtual-value path. A non-nil err is a
// genuine construction fault and propagates to the caller unchanged.
type Factory func(v any, opts RenderOptions) (s Serializer, ok bool, err error)

// RenderOptions is the ambient per-render option record. Nested serializers
// receive a derived copy; mutation by a child never leaks to the parent.
type RenderOptions struct {
	// Namespace scopes the output document (e.g., "v2").
	Namespace string
	// Serializer, when non-nil, overrides type-based lookup for the value
	// these options accompany.
	Serializer Factory
	// SerializerContext is the resource type of the parent serializer that
	// derived these options, or nil at the render root.
	SerializerContext reflect.Type
}

// Derive returns a copy of o carrying the given override Factory and parent
// context type. The receiver is unchanged.
func (o RenderOptions) Derive(override Factory, parent reflect.Type) RenderOptions {
	out := o
	out.Serializer = override
	out.SerializerContext = parent
	return out
}
