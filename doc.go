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

// Package arx resolves associations (relationships) between a resource
// object and its related objects during serialization.
//
// Given a relationship declaration ("posts have comments, include them when
// requested, link to /posts/:id/comments") and a concrete parent instance,
// arx executes the declaration's deferred value computation, applies the
// tri-state inclusion policy, looks up a serializer for the related value,
// and emits a render-ready association: a name, a resolution (nested
// serializer, raw virtual value, or absent), and the merged directive set
// (namespace, links, metadata, inclusion decision). Rendering the resolved
// graph into a wire format is the adapter layer's job, not arx's.
//
// # Design
//
// The building blocks live in dedicated packages:
//
//   - reflection: the Relationship Declaration. Immutable after
//     configuration; holds the name, an optional deferred value function,
//     link/meta specifications, the inclusion policy, and an optional
//     serializer override. Deferred computations receive an explicit
//     Context (object, scope, owning serializer) instead of reading
//     ambient state, so one declaration can be resolved concurrently.
//
//   - association: Build, the resolution algorithm. It copies the
//     declaration's directives, inherits the namespace from the parent's
//     render options, resolves the value, recomputes the inclusion
//     decision, materializes links and metadata, and attaches either a
//     nested serializer, a virtual value, or nothing. A serializer factory
//     may decline construction; Build degrades that to a virtual value
//     rather than failing.
//
//   - registry, resolver, strategy: the serializer_for machinery. A
//     Registry maps (nearest named) value types to serializer factories;
//     a Resolver chains strategies in priority order:
//     1. If the declaration carries an explicit serializer, use it.
//     2. If the value implements apis.Provider, use its factory.
//     3. Otherwise, look the value's type up in the Registry.
//
//   - apis: the contracts shared by all of the above and by collaborators
//     (Serializer, Factory, RenderOptions, Directives, IncludeSlice).
//
// The root package holds a read-mostly global snapshot (state) with the
// process-wide Config, Registry, Resolver, and Builder, published via an
// atomic pointer. Readers load the pointer and never mutate it; writers
// build a brand-new state under a short build mutex and swap it in. This
// makes the hot path lock-free:
//
//	factory, ok := arx.SerializerFor(value, directives)
//
// # Global API
//
// Read helpers (wait-free, always the latest snapshot):
//
//	SerializerFor(v any, d apis.Directives) (apis.Factory, bool)
//	SerializerForType(t reflect.Type, d apis.Directives) (apis.Factory, bool)
//	Registry() apis.Registry
//	Resolver() apis.Resolver
//	Config() apis.Config
//
// Mutation helpers (build lock, derive, publish atomically):
//
//	SetConfig(cfg apis.Config)   // incl. the process-wide default include setting
//	SetBuilder(b apis.Builder)
//	SetExt(ext T)
//	SetRegistry(reg apis.Registry)
//	SetResolver(res apis.Resolver)
//	SetAll(...)                  // hard reset, mainly for tests
//
// SetRegistry and SetResolver pin their layer: SetConfig stops rebuilding a
// pinned layer until UnpinRegistry/UnpinResolver is called. Ext is an opaque
// payload passed to the Builder on each rebuild so out-of-tree builders can
// carry custom lookup policy.
//
// # Usage pattern
//
// A typical serialization layer does:
//
//  1. Let arx init with the default builder/config.
//
//  2. Register serializer factories for its resource types up front:
//
//     arx.RegisterSerializer(reflect.TypeOf(Comment{}), NewCommentSerializer)
//
//     Registration normalizes container types, so the Comment factory also
//     serves []Comment, *Comment, and map[string]Comment values.
//
//  3. Declare relationships per resource type with reflection.New and
//     resolve them per instance with association.Build, delegating the
//     Serializer.SerializerFor collaborator method to arx.SerializerFor.
//
//  4. In tests, call arx.SetAll(...) for deterministic snapshots.
//
// # Scope
//
// arx is intentionally small. It resolves relationship declarations into
// render-ready associations; it performs no I/O, persists nothing, defines
// no wire format, and does not deduplicate object identity across an output
// document. Those belong to the renderer and higher layers.
package arx
