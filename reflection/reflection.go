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
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"dirpx.dev/arx/apis"
)

var (
	// ErrEmptyName is returned when a declaration is constructed without a name.
	ErrEmptyName = errors.New("arx(reflection): empty relationship name")
	// ErrInvalidIncludeSetting indicates an inclusion setting outside the
	// declared constants. It is a configuration error and always surfaces;
	// it is never coerced to included or excluded.
	ErrInvalidIncludeSetting = errors.New("arx(reflection): invalid include_data setting")
)

// Reflection is the declaration of one named relationship on a resource type:
// its name, an optional deferred value computation, and the cross-cutting
// directives (links, metadata, namespace, inclusion policy, serializer
// override) applied when the relationship is resolved.
//
// A Reflection is configured once per resource type and then shared across
// render passes. The directive template is guarded internally so value
// functions that register links or metadata as a side effect remain safe
// under concurrent resolution.
type Reflection struct {
	name  string
	key   string
	value ValueFunc

	// mu guards links, meta, and include, which the declaration surface may
	// mutate after construction (including from inside a value function).
	mu      sync.Mutex
	links   map[string]any
	meta    any
	include apis.IncludeSetting

	namespace  string
	serializer apis.Factory
}

// New constructs a relationship declaration for name.
func New(name string, opts ...Option) (*Reflection, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	r := &Reflection{name: name, links: map[string]any{}}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNew is New for declaration sets assembled at package init time.
// It panics on error.
func MustNew(name string, opts ...Option) *Reflection {
	r, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Option configures a Reflection during construction.
type Option func(*Reflection)

// WithKey overrides the externally visible relationship name.
func WithKey(key string) Option {
	return func(r *Reflection) { r.key = key }
}

// WithValue installs the deferred value computation. Without one, resolution
// reads the attribute named after the declaration from the owning serializer.
func WithValue(fn ValueFunc) Option {
	return func(r *Reflection) { r.value = fn }
}

// WithIncludeData sets the inclusion policy.
func WithIncludeData(s apis.IncludeSetting) Option {
	return func(r *Reflection) { r.include = s }
}

// WithNamespace sets an explicit namespace. When empty, the namespace is
// inherited from the parent's render options at build time.
func WithNamespace(ns string) Option {
	return func(r *Reflection) { r.namespace = ns }
}

// WithSerializer installs an explicit serializer factory, bypassing
// type-based lookup for this relationship.
func WithSerializer(f apis.Factory) Option {
	return func(r *Reflection) { r.serializer = f }
}

// WithLink registers a link at construction time. v may be a literal or a
// Compute function.
func WithLink(name string, v any) Option {
	return func(r *Reflection) { r.links[name] = v }
}

// WithMeta sets the metadata at construction time. v may be a literal or a
// Compute function.
func WithMeta(v any) Option {
	return func(r *Reflection) { r.meta = v }
}

// Name returns the declared relationship name.
func (r *Reflection) Name() string {
	return r.name
}

// Key returns the externally visible relationship name: the key override
// when set, otherwise the declared name.
func (r *Reflection) Key() string {
	if r.key != "" {
		return r.key
	}
	return r.name
}

// Serializer returns the explicit serializer override, or nil.
func (r *Reflection) Serializer() apis.Factory {
	return r.serializer
}

// RegisterLink adds or replaces a link specification. v may be a literal
// value or a Compute function. It returns Unset() so a value function whose
// body ends with a registration resolves to the default attribute rather
// than to the registration's return value.
func (r *Reflection) RegisterLink(name string, v any) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[name] = v
	return Unset()
}

// SetMeta sets the metadata specification. v may be a literal value or a
// Compute function. It returns Unset(); see RegisterLink.
func (r *Reflection) SetMeta(v any) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta = v
	return Unset()
}

// SetIncludeData sets the inclusion policy. It returns Unset(); see
// RegisterLink. Validation happens at evaluation time so that an invalid
// setting surfaces as ErrInvalidIncludeSetting, not silently here.
func (r *Reflection) SetIncludeData(s apis.IncludeSetting) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.include = s
	return Unset()
}

// Links returns a snapshot of the link specifications.
func (r *Reflection) Links() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Assign(map[string]any{}, r.links)
}

// Meta returns the metadata specification, or nil.
func (r *Reflection) Meta() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meta
}

// Directives returns the declaration's directive template as a working copy.
// IncludeData is left false; the final decision is recomputed at build time.
func (r *Reflection) Directives() apis.Directives {
	r.mu.Lock()
	defer r.mu.Unlock()
	return apis.Directives{
		Namespace:  r.namespace,
		Links:      lo.Assign(map[string]any{}, r.links),
		Meta:       r.meta,
		Serializer: r.serializer,
	}
}

// Included evaluates the inclusion policy against the requested includes.
// The decision is pure: the same includes and config always yield the same
// answer. An out-of-range setting (either on the declaration or, after
// deferral, in cfg.DefaultInclude) returns ErrInvalidIncludeSetting.
func (r *Reflection) Included(includes apis.IncludeSlice, cfg apis.Config) (bool, error) {
	r.mu.Lock()
	setting := r.include
	r.mu.Unlock()

	if setting == apis.IncludeDefault {
		setting = cfg.DefaultInclude
	}
	switch setting {
	case apis.IncludeAlways:
		return true, nil
	case apis.IncludeNever:
		return false, nil
	case apis.IncludeIfRequested:
		return includes.Contains(r.name), nil
	default:
		return false, errors.Wrapf(ErrInvalidIncludeSetting, "relationship %q: setting %d", r.name, int(setting))
	}
}

// Resolve computes the relationship value against the owning serializer.
//
// The value function, when present, runs first and unconditionally: side
// effects such as link registration fire even when the inclusion policy
// later discards the value. An Unset result falls through to
// owner.ReadAttribute(name). When the policy excludes the relationship,
// Resolve returns (nil, false, nil) and any computed value is discarded.
func (r *Reflection) Resolve(owner apis.Serializer, includes apis.IncludeSlice, cfg apis.Config) (value any, included bool, err error) {
	ctx := Context{Object: owner.Object(), Scope: owner.Scope(), Serializer: owner}

	res := Unset()
	if r.value != nil {
		res = r.value(ctx)
	}

	// Inclusion is checked after the value function so that a function which
	// mutates its own policy via SetIncludeData is honored for this pass.
	included, err = r.Included(includes, cfg)
	if err != nil {
		return nil, false, err
	}
	if !included {
		return nil, false, nil
	}

	if res.IsSet() {
		return res.Get(), true, nil
	}
	return owner.ReadAttribute(r.name), true, nil
}
