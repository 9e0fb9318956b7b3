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

package arx

import (
	"reflect"
	"sync"
	"testing"

	"dirpx.dev/arx/apis"
	"dirpx.dev/arx/association"
	"dirpx.dev/arx/builder"
	"dirpx.dev/arx/config"
	"dirpx.dev/arx/reflection"
)

// Reset to a clean snapshot using the given builder.
// This fully replaces builder, config, ext and rebuilds registry/resolver.
// Pins are reset (preg=false, pres=false) because we pass nil reg/res.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	SetAll(&cfg, ext, nil, nil, b)
	tb.Cleanup(func() {
		def := config.DefaultConfig()
		SetAll(&def, nil, nil, nil, builder.New())
	})
}

// ---------------------- Test doubles (mocks) ----------------------

func mockFactory(any, apis.RenderOptions) (apis.Serializer, bool, error) { return nil, false, nil }

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]apis.Factory
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[reflect.Type]apis.Factory)}
}

func (m *mockRegistry) Register(t reflect.Type, f apis.Factory) error {
	m.mu.Lock()
	m.data[t] = f
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(t reflect.Type) (apis.Factory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.data[t]
	return f, ok
}
func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, f := range m.data {
		out = append(out, apis.Entry{Type: t, Factory: f})
	}
	return out
}
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset()     { m.mu.Lock(); m.data = make(map[reflect.Type]apis.Factory); m.mu.Unlock() }

type mockResolver struct {
	id string
}

func (r *mockResolver) SerializerFor(any, apis.Directives, apis.Config) (apis.Factory, bool) {
	return mockFactory, true
}

func (r *mockResolver) SerializerForType(reflect.Type, apis.Directives, apis.Config) (apis.Factory, bool) {
	return mockFactory, true
}

type mockBuilder struct {
	mu         sync.Mutex
	lastCfg    apis.Config
	lastExt    any
	regCounter int
	resCounter int
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, _ apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	b.regCounter++
	return newMockRegistry("reg")
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, _ apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	b.resCounter++
	return &mockResolver{id: "res"}
}

// ---------------------- Tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	// snapshot 1
	s1Reg := Registry()
	s1Res := Resolver()

	// change cfg -> both should rebuild (not pinned)
	SetConfig(config.NewConfig(config.WithDefaultInclude(apis.IncludeAlways)))

	if Registry() == s1Reg {
		t.Fatal("registry was not rebuilt after SetConfig")
	}
	if Resolver() == s1Res {
		t.Fatal("resolver was not rebuilt after SetConfig")
	}
	if Config().DefaultInclude != apis.IncludeAlways {
		t.Fatalf("Config().DefaultInclude = %v, want always", Config().DefaultInclude)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastCfg.DefaultInclude != apis.IncludeAlways {
		t.Fatal("builder did not receive the new config")
	}
}

func TestSetRegistry_PinsLayer(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	pinned := newMockRegistry("pinned")
	SetRegistry(pinned)

	if !IsRegistryPinned() {
		t.Fatal("registry not pinned after SetRegistry")
	}
	if Registry() != apis.Registry(pinned) {
		t.Fatal("pinned registry not installed")
	}

	// SetConfig must not rebuild the pinned registry.
	SetConfig(config.DefaultConfig())
	if Registry() != apis.Registry(pinned) {
		t.Fatal("pinned registry was rebuilt by SetConfig")
	}

	UnpinRegistry()
	if IsRegistryPinned() {
		t.Fatal("registry still pinned after UnpinRegistry")
	}
	SetConfig(config.DefaultConfig())
	if Registry() == apis.Registry(pinned) {
		t.Fatal("unpinned registry was not rebuilt by SetConfig")
	}
}

func TestSetResolver_PinsLayer(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	pinned := &mockResolver{id: "pinned"}
	SetResolver(pinned)

	if !IsResolverPinned() {
		t.Fatal("resolver not pinned after SetResolver")
	}
	SetConfig(config.DefaultConfig())
	if Resolver() != apis.Resolver(pinned) {
		t.Fatal("pinned resolver was rebuilt by SetConfig")
	}

	UnpinResolver()
	SetConfig(config.DefaultConfig())
	if Resolver() == apis.Resolver(pinned) {
		t.Fatal("unpinned resolver was not rebuilt by SetConfig")
	}
}

func TestSetExt_RoundTrip(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	type policy struct{ Name string }
	SetExt(policy{Name: "custom"})

	got, ok := ExtAs[policy]()
	if !ok || got.Name != "custom" {
		t.Fatalf("ExtAs = (%+v,%v), want custom policy", got, ok)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.lastExt.(policy); !ok || p.Name != "custom" {
		t.Fatal("builder did not receive ext on rebuild")
	}
}

type globalComment struct{}

func TestGlobalSerializerFor_DefaultStack(t *testing.T) {
	def := config.DefaultConfig()
	resetWithBuilder(t, builder.New(), def, nil)

	if _, ok := SerializerFor(globalComment{}, apis.Directives{}); ok {
		t.Fatal("unregistered type: want ok=false")
	}

	if err := RegisterSerializer(reflect.TypeOf(globalComment{}), mockFactory); err != nil {
		t.Fatalf("RegisterSerializer: %v", err)
	}

	if _, ok := SerializerFor([]globalComment{{}}, apis.Directives{}); !ok {
		t.Fatal("registered type not resolved via container normalization")
	}
	if _, ok := SerializerForType(reflect.TypeOf(&globalComment{}), apis.Directives{}); !ok {
		t.Fatal("registered type not resolved by type")
	}

	// Directive override wins without any registration.
	type unseen struct{}
	if _, ok := SerializerFor(unseen{}, apis.Directives{Serializer: mockFactory}); !ok {
		t.Fatal("directive override not honored by global resolver")
	}
}

// ---------------------- Global-stack integration ----------------------

type globalAuthor struct{ Name string }

type globalPost struct{ Author globalAuthor }

// globalAuthorSerializer is the nested serializer produced by the registered
// factory.
type globalAuthorSerializer struct{ value any }

func (s *globalAuthorSerializer) Object() any { return s.value }
func (s *globalAuthorSerializer) Scope() any { return nil }
func (s *globalAuthorSerializer) ReadAttribute(string) any { return nil }
func (s *globalAuthorSerializer) SerializerFor(v any, d apis.Directives) (apis.Factory, bool) {
	return SerializerFor(v, d)
}
func (s *globalAuthorSerializer) ContextType() reflect.Type { return reflect.TypeOf(globalAuthor{}) }

func globalAuthorFactory(v any, _ apis.RenderOptions) (apis.Serializer, bool, error) {
	return &globalAuthorSerializer{value: v}, true, nil
}

// globalPostSerializer delegates its SerializerFor collaborator method to
// the global resolver, the composition the package documentation prescribes.
type globalPostSerializer struct{ object globalPost }

func (s *globalPostSerializer) Object() any { return s.object }
func (s *globalPostSerializer) Scope() any { return nil }
func (s *globalPostSerializer) ReadAttribute(name string) any {
	if name == "author" {
		return s.object.Author
	}
	return nil
}
func (s *globalPostSerializer) SerializerFor(v any, d apis.Directives) (apis.Factory, bool) {
	return SerializerFor(v, d)
}
func (s *globalPostSerializer) ContextType() reflect.Type { return reflect.TypeOf(globalPost{}) }

func TestBuild_ThroughGlobalStack(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	if err := RegisterSerializer(reflect.TypeOf(globalAuthor{}), globalAuthorFactory); err != nil {
		t.Fatalf("RegisterSerializer: %v", err)
	}

	parent := &globalPostSerializer{object: globalPost{Author: globalAuthor{Name: "ada"}}}
	ref := reflection.MustNew("author", reflection.WithIncludeData(apis.IncludeAlways))

	a, err := association.Build(ref, parent, apis.RenderOptions{}, nil, Config())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Kind() != association.Nested {
		t.Fatalf("Kind = %v, want nested", a.Kind())
	}
	s, ok := a.Serializer()
	if !ok {
		t.Fatal("Serializer() not ok for nested resolution")
	}
	nested := s.(*globalAuthorSerializer)
	if got := nested.value.(globalAuthor); got.Name != "ada" {
		t.Fatalf("nested serializer got %+v, want the author value", got)
	}

	// A pointer to the registered type resolves through container
	// normalization on the same stack.
	author := parent.object.Author
	refPtr := reflection.MustNew("author",
		reflection.WithIncludeData(apis.IncludeAlways),
		reflection.WithValue(func(reflection.Context) reflection.Result {
			return reflection.Value(&author)
		}),
	)
	a2, err := association.Build(refPtr, parent, apis.RenderOptions{}, nil, Config())
	if err != nil {
		t.Fatalf("Build(*globalAuthor): %v", err)
	}
	if a2.Kind() != association.Nested {
		t.Fatalf("Kind(*globalAuthor) = %v, want nested", a2.Kind())
	}
}
