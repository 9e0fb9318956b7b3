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

package association

import (
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/arx/apis"
	"dirpx.dev/arx/reflection"
)

// Build resolves the declaration ref against parent and returns the
// render-ready Association.
//
// The directive snapshot is assembled in a fixed order: the declaration's
// template is copied, an unset namespace inherits the parent's, the value is
// resolved, IncludeData is recomputed (the value function may have changed
// the policy mid-resolution), and the declaration's links and metadata are
// re-propagated over anything the value function side-effected, then
// materialized to literal values.
//
// Serializer instantiation degrades gracefully: a factory decline downgrades
// the value to a virtual value; a lookup miss does the same for renderable
// non-nil values and yields an absent resolution otherwise. A factory error
// is a genuine fault and propagates unchanged.
func Build(ref *reflection.Reflection, parent apis.Serializer, parentOpts apis.RenderOptions, includes apis.IncludeSlice, cfg apis.Config) (Association, error) {
	d := ref.Directives()
	if d.Namespace == "" {
		d.Namespace = parentOpts.Namespace
	}

	value, _, err := ref.Resolve(parent, includes, cfg)
	if err != nil {
		return Association{}, err
	}

	// The lookup receives its own Clone; a custom SerializerFor that mutates
	// what it is handed cannot alias the association's directive set.
	factory, found := parent.SerializerFor(value, d.Clone())

	// Recomputed rather than reused from Resolve: the value function may have
	// called SetIncludeData, and the renderer needs the final decision.
	included, err := ref.Included(includes, cfg)
	if err != nil {
		return Association{}, err
	}
	d.IncludeData = included

	// Declaration links and metadata always win over directive state the
	// value function may have mutated, and are materialized here so the
	// association carries literals, not pending computations.
	ctx := reflection.Context{Object: parent.Object(), Scope: parent.Scope(), Serializer: parent}
	d.Links = materializeLinks(ref.Links(), ctx)
	d.Meta = reflection.Materialize(ref.Meta(), ctx)

	a := Association{name: ref.Key(), directives: d}

	switch {
	case found:
		nestedOpts := parentOpts.Derive(ref.Serializer(), parent.ContextType())
		s, ok, err := factory(value, nestedOpts)
		if err != nil {
			return Association{}, err
		}
		if ok {
			a.kind = Nested
			a.serializer = s
		} else {
			// Decline signal: attach the value directly.
			a.kind = Virtual
			a.virtual = value
		}
	case renderable(value):
		a.kind = Virtual
		a.virtual = value
	default:
		a.kind = Absent
	}

	trace(cfg, a, includes)
	return a, nil
}

// materializeLinks resolves deferred link computations to literal values.
func materializeLinks(links map[string]any, ctx reflection.Context) map[string]any {
	if len(links) == 0 {
		return links
	}
	out := make(map[string]any, len(links))
	for name, v := range links {
		out[name] = reflection.Materialize(v, ctx)
	}
	return out
}

// renderable reports whether v can stand on its own as a virtual value.
// Nil interfaces, typed nils, and values with no data representation
// (funcs, channels) cannot.
func renderable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return !rv.IsNil()
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	default:
		return true
	}
}

// trace emits a debug-level resolution trace when a logger is configured.
func trace(cfg apis.Config, a Association, includes apis.IncludeSlice) {
	if cfg.Logger == nil {
		return
	}
	cfg.Logger.Debug("association resolved",
		zap.String("name", a.name),
		zap.Stringer("resolution", a.kind),
		zap.Bool("include_data", a.directives.IncludeData),
		zap.String("namespace", a.directives.Namespace),
		zap.Int("links", len(a.directives.Links)),
		zap.Strings("includes", includes.Names()),
	)
}
