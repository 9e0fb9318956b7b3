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

package config

import (
	"go.uber.org/zap"

	"dirpx.dev/arx/apis"
)

const (
	// DefaultInclude represents the default for DefaultInclude.
	// Relationships are included only when the render explicitly requests them.
	DefaultInclude = apis.IncludeIfRequested
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMapPreferElem represents the default for MapPreferElem.
	// When true, map value types are preferred when searching for named inner types.
	DefaultMapPreferElem = true
)

// nopLogger is shared so default configs compare equal.
var nopLogger = zap.NewNop()

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	// Ensure DefaultInclude is one of the three concrete settings.
	// IncludeDefault would make the process-wide fallback self-referential.
	switch cfg.DefaultInclude {
	case apis.IncludeAlways, apis.IncludeNever, apis.IncludeIfRequested:
	default:
		cfg.DefaultInclude = DefaultInclude
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		DefaultInclude: DefaultInclude,
		MaxUnwrap:      DefaultMaxUnwrap,
		MapPreferElem:  DefaultMapPreferElem,
		Logger:         nopLogger,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithDefaultInclude sets the process-wide default inclusion setting.
// Values other than IncludeAlways, IncludeNever, and IncludeIfRequested
// reset to the default.
func WithDefaultInclude(s apis.IncludeSetting) Option {
	return func(c *apis.Config) {
		c.DefaultInclude = s
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMapPreferElem sets the MapPreferElem option.
func WithMapPreferElem(prefer bool) Option {
	return func(c *apis.Config) {
		c.MapPreferElem = prefer
	}
}

// WithLogger installs a logger for debug-level resolution traces.
// A nil logger resets to the nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *apis.Config) {
		if l == nil {
			l = nopLogger
		}
		c.Logger = l
	}
}
