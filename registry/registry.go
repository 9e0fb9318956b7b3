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

package registry

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"dirpx.dev/arx/apis"
	"dirpx.dev/arx/config"
	uref "dirpx.dev/arx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("arx(registry): nil reflect.Type provided")
	// ErrNilFactory is returned when a nil factory is provided.
	ErrNilFactory = errors.New("arx(registry): nil factory provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different factory.
	ErrConflictingRegistration = errors.New("arx(registry): conflicting type registration")
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here (DefaultInclude is irrelevant).
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to the registered factory.
	m sync.Map // map[reflect.Type]apis.Factory
	// count tracks the number of registered entries.
	count int
}

// Register associates the nearest named type of t with the given factory.
// It is idempotent for the same (type, factory) pair; factories are compared
// by function identity since Go funcs have no value equality.
func (r *registry) Register(t reflect.Type, f apis.Factory) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if f == nil {
		return ErrNilFactory
	}

	// Normalize to the nearest named type according to r.cfg.
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err // ErrReflectTypeNotNamed (or ErrReflectNilType if somehow nil sneaks in)
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		if sameFactory(old.(apis.Factory), f) {
			return nil // idempotent re-registration
		}
		return errors.Wrapf(ErrConflictingRegistration, "type %v", b)
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		if sameFactory(old.(apis.Factory), f) {
			return nil
		}
		return errors.Wrapf(ErrConflictingRegistration, "type %v", b)
	}

	r.m.Store(b, f)
	r.count++
	return nil
}

// Lookup returns a factory for a type if present.
func (r *registry) Lookup(t reflect.Type) (apis.Factory, bool) {
	if t == nil {
		return nil, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(apis.Factory), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type:    key.(reflect.Type),
			Factory: value.(apis.Factory),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = sync.Map{}
	r.count = 0
}

// Types returns the registered types (order is unspecified).
func Types(reg apis.Registry) []reflect.Type {
	return lo.Map(reg.Entries(), func(e apis.Entry, _ int) reflect.Type {
		return e.Type
	})
}

// sameFactory reports whether two factories are the same function.
func sameFactory(a, b apis.Factory) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
