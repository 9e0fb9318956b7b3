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

// Result is the tagged outcome of a value function: either a concrete value
// (which may legitimately be nil) or unset. An unset result signals that the
// function ran only for side effects, such as link registration, and that
// value resolution should fall through to the default attribute lookup.
//
// Result deliberately replaces a sentinel constant: Value(nil) and Unset()
// are distinct, so nil relationship values never collide with "no value".
type Result struct {
	set   bool
	value any
}

// Value returns a Result holding v.
func Value(v any) Result {
	return Result{set: true, value: v}
}

// Unset returns the unset Result.
func Unset() Result {
	return Result{}
}

// IsSet reports whether the Result holds a value.
func (r Result) IsSet() bool {
	return r.set
}

// Get returns the held value, or nil when unset.
func (r Result) Get() any {
	return r.value
}
