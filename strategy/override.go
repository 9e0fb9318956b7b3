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

// NewOverrideStrategy creates an apis.Strategy honoring the Serializer
// directive. A declaration that names an explicit serializer bypasses all
// type-based lookup, so this strategy must sit first in the chain.
func NewOverrideStrategy() apis.Strategy {
	return overrideStrategy{}
}

// overrideStrategy returns the directive-carried factory, if any.
type overrideStrategy struct{}

// Ensure overrideStrategy implements apis.Strategy.
var _ apis.Strategy = overrideStrategy{}

// TrySerializer returns the override factory from d when present.
func (overrideStrategy) TrySerializer(_ any, d apis.Directives, _ apis.Config) (apis.Factory, bool) {
	if d.Serializer != nil {
		return d.Serializer, true
	}
	return nil, false
}

// TrySerializerType returns the override factory from d when present.
func (overrideStrategy) TrySerializerType(_ reflect.Type, d apis.Directives, _ apis.Config) (apis.Factory, bool) {
	if d.Serializer != nil {
		return d.Serializer, true
	}
	return nil, false
}
