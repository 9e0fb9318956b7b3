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

package reflection_test

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/arx/apis"
	"dirpx.dev/arx/config"
	"dirpx.dev/arx/reflection"
)

// post is the parent resource used throughout these tests.
type post struct {
	ID       int
	Comments []string
}

// fakeSerializer is a minimal owning-serializer double.
type fakeSerializer struct {
	object any
	scope  any
	attrs  map[string]any
}

func (f *fakeSerializer) Object() any { return f.object }
func (f *fakeSerializer) Scope() any { return f.scope }
func (f *fakeSerializer) ReadAttribute(name string) any { return f.attrs[name] }
func (f *fakeSerializer) SerializerFor(any, apis.Directives) (apis.Factory, bool) {
	return nil, false
}
func (f *fakeSerializer) ContextType() reflect.Type { return reflect.TypeOf(post{}) }

var _ apis.Serializer = (*fakeSerializer)(nil)

func owner() *fakeSerializer {
	return &fakeSerializer{
		object: post{ID: 7, Comments: []string{"c1", "c2"}},
		scope:  "viewer",
		attrs:  map[string]any{"comments": []string{"c1", "c2"}},
	}
}

func TestNew_EmptyName(t *testing.T) {
	_, err := reflection.New("")
	require.ErrorIs(t, err, reflection.ErrEmptyName)
}

func TestKey_DefaultsToName(t *testing.T) {
	r := reflection.MustNew("comments")
	assert.Equal(t, "comments", r.Key())

	r2 := reflection.MustNew("comments", reflection.WithKey("replies"))
	assert.Equal(t, "replies", r2.Key())
	assert.Equal(t, "comments", r2.Name())
}

func TestIncluded_StateMachine(t *testing.T) {
	cfg := config.DefaultConfig()

	cases := []struct {
		name     string
		setting  apis.IncludeSetting
		includes apis.IncludeSlice
		want     bool
	}{
		{"always empty slice", apis.IncludeAlways, apis.IncludeSlice{}, true},
		{"always nil slice", apis.IncludeAlways, nil, true},
		{"never even when requested", apis.IncludeNever, apis.IncludeSlice{"comments": nil}, false},
		{"if_requested present", apis.IncludeIfRequested, apis.IncludeSlice{"comments": nil}, true},
		{"if_requested absent", apis.IncludeIfRequested, apis.IncludeSlice{}, false},
		{"if_requested unrelated key", apis.IncludeIfRequested, apis.IncludeSlice{"author": nil}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reflection.MustNew("comments", reflection.WithIncludeData(tc.setting))
			got, err := r.Included(tc.includes, cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIncluded_DefaultDefersToConfig(t *testing.T) {
	r := reflection.MustNew("comments") // IncludeDefault

	alwaysCfg := config.NewConfig(config.WithDefaultInclude(apis.IncludeAlways))
	got, err := r.Included(nil, alwaysCfg)
	require.NoError(t, err)
	assert.True(t, got)

	// The shipped default is if_requested.
	got, err = r.Included(apis.IncludeSlice{"comments": nil}, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, got)

	got, err = r.Included(apis.IncludeSlice{}, config.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIncluded_InvalidSettingFailsFast(t *testing.T) {
	r := reflection.MustNew("comments", reflection.WithIncludeData(apis.IncludeSetting(42)))
	_, err := r.Included(nil, config.DefaultConfig())
	require.ErrorIs(t, err, reflection.ErrInvalidIncludeSetting)

	// A zero apis.Config has DefaultInclude == IncludeDefault, which is
	// self-referential and equally invalid. No silent fallback either way.
	r2 := reflection.MustNew("comments")
	_, err = r2.Included(nil, apis.Config{})
	require.ErrorIs(t, err, reflection.ErrInvalidIncludeSetting)
}

func TestResolve_AttributeFallback(t *testing.T) {
	r := reflection.MustNew("comments", reflection.WithIncludeData(apis.IncludeAlways))

	value, included, err := r.Resolve(owner(), nil, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, included)
	assert.Equal(t, []string{"c1", "c2"}, value)
}

func TestResolve_ValueFunc(t *testing.T) {
	r := reflection.MustNew("comments",
		reflection.WithIncludeData(apis.IncludeAlways),
		reflection.WithValue(func(ctx reflection.Context) reflection.Result {
			p := ctx.Object.(post)
			return reflection.Value(p.Comments[:1])
		}),
	)

	value, included, err := r.Resolve(owner(), nil, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, included)
	assert.Equal(t, []string{"c1"}, value)
}

func TestResolve_ContextCarriesObjectAndScope(t *testing.T) {
	var seen reflection.Context
	r := reflection.MustNew("comments",
		reflection.WithIncludeData(apis.IncludeAlways),
		reflection.WithValue(func(ctx reflection.Context) reflection.Result {
			seen = ctx
			return reflection.Unset()
		}),
	)

	o := owner()
	_, _, err := r.Resolve(o, nil, config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, o.object, seen.Object)
	assert.Equal(t, "viewer", seen.Scope)
	assert.Same(t, o, seen.Serializer)
}

func TestResolve_UnsetFallsThroughToAttribute(t *testing.T) {
	var r *reflection.Reflection
	r = reflection.MustNew("comments",
		reflection.WithIncludeData(apis.IncludeAlways),
		reflection.WithValue(func(reflection.Context) reflection.Result {
			// Side-effect-only body: register a link, produce no value.
			return r.RegisterLink("self", "/posts/7/comments")
		}),
	)

	value, included, err := r.Resolve(owner(), nil, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, included)
	assert.Equal(t, []string{"c1", "c2"}, value, "unset result must fall through to the attribute")
	assert.Equal(t, "/posts/7/comments", r.Links()["self"])
}

func TestResolve_ValueNilIsDistinctFromUnset(t *testing.T) {
	r := reflection.MustNew("comments",
		reflection.WithIncludeData(apis.IncludeAlways),
		reflection.WithValue(func(reflection.Context) reflection.Result {
			return reflection.Value(nil)
		}),
	)

	value, included, err := r.Resolve(owner(), nil, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, included)
	assert.Nil(t, value, "Value(nil) is a resolved nil, not an attribute fallback")
}

func TestResolve_ExcludedDiscardsComputedValue(t *testing.T) {
	ran := false
	r := reflection.MustNew("comments",
		reflection.WithIncludeData(apis.IncludeNever),
		reflection.WithValue(func(reflection.Context) reflection.Result {
			ran = true
			return reflection.Value([]string{"computed"})
		}),
	)

	value, included, err := r.Resolve(owner(), apis.IncludeSlice{"comments": nil}, config.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, included)
	assert.Nil(t, value, "excluded relationships yield no value even when one was computed")
	assert.True(t, ran, "the value function still runs for its side effects")
}

func TestResolve_InvalidSettingPropagates(t *testing.T) {
	r := reflection.MustNew("comments", reflection.WithIncludeData(apis.IncludeSetting(-3)))
	_, _, err := r.Resolve(owner(), nil, config.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, reflection.ErrInvalidIncludeSetting))
}

func TestDeclarationSurface_ReturnsUnset(t *testing.T) {
	r := reflection.MustNew("comments")

	assert.False(t, r.RegisterLink("self", "/x").IsSet())
	assert.False(t, r.SetMeta(map[string]any{"count": 2}).IsSet())
	assert.False(t, r.SetIncludeData(apis.IncludeAlways).IsSet())

	// And the registrations took effect.
	assert.Equal(t, "/x", r.Links()["self"])
	assert.Equal(t, map[string]any{"count": 2}, r.Meta())
	inc, err := r.Included(nil, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, inc)
}

func TestDirectives_TemplateCopyDoesNotAlias(t *testing.T) {
	r := reflection.MustNew("comments", reflection.WithLink("self", "/x"))

	d := r.Directives()
	d.Links["self"] = "/mutated"
	d.Links["extra"] = "/y"

	assert.Equal(t, "/x", r.Links()["self"], "mutating a working copy must not touch the template")
	assert.NotContains(t, r.Links(), "extra")
}

func TestResult_Tagging(t *testing.T) {
	assert.False(t, reflection.Unset().IsSet())
	assert.Nil(t, reflection.Unset().Get())
	assert.True(t, reflection.Value(nil).IsSet())
	assert.True(t, reflection.Value(0).IsSet())
	assert.Equal(t, 0, reflection.Value(0).Get())
}
