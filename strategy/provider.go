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

package strategy

import (
	"reflect"

	"dirpx.dev/arx/apis"
)

// NewProviderStrategy creates an apis.Strategy that uses apis.Provider.
func NewProviderStrategy() apis.Strategy {
	return &providerStrategy{}
}

// providerStrategy is a zero-cost fast path: if v implements apis.Provider,
// return its SerializerFactory() and stop the chain.
type providerStrategy struct{}

// Ensure providerStrategy implements apis.Strategy.
var _ apis.Strategy = (*providerStrategy)(nil)

// TrySerializer checks if v implements apis.Provider and returns its factory.
func (*providerStrategy) TrySerializer(v any, _ apis.Directives, _ apis.Config) (apis.Factory, bool) {
	if v == nil {
		return nil, false
	}
	if p, ok := v.(apis.Provider); ok {
		if f := p.SerializerFactory(); f != nil {
			return f, true
		}
	}
	return nil, false
}

// TrySerializerType always returns false: Provider requires an instance.
func (*providerStrategy) TrySerializerType(_ reflect.Type, _ apis.Directives, _ apis.Config) (apis.Factory, bool) {
	// No instance -> cannot use Provider.
	return nil, false
}
