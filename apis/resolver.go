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

// Resolver coordinates strategies to resolve serializer factories for values
// and types. Typical chain: OverrideStrategy -> ProviderStrategy -> RegistryStrategy.
type Resolver interface {
	// SerializerFor returns a Factory for v, or (nil, false) if none can be
	// determined. Directives may carry an explicit override that short-circuits
	// type-based lookup.
	SerializerFor(v any, d Directives, cfg Config) (Factory, bool)

	// SerializerForType returns a Factory for t, or (nil, false) if none can
	// be determined.
	SerializerForType(t reflect.Type, d Directives, cfg Config) (Factory, bool)
}
