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

// Strategy is a pluggable lookup step. A Resolver can chain multiple
// strategies in order (e.g., Override -> Provider -> Registry).
type Strategy interface {
	// TrySerializer attempts to resolve a Factory for value v according to
	// cfg and the directive set d.
	// It returns (f, true) if handled; otherwise (nil, false) to fall through.
	TrySerializer(v any, d Directives, cfg Config) (f Factory, handled bool)

	// TrySerializerType attempts to resolve a Factory for the reflect.Type t.
	TrySerializerType(t reflect.Type, d Directives, cfg Config) (f Factory, handled bool)
}

// Provider is the fast-path contract for values that carry their own
// serializer factory. Implement it on a resource type to bypass registry
// lookup entirely.
type Provider interface {
	// SerializerFactory returns the factory to use for this value.
	SerializerFactory() Factory
}
