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
	"slices"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/info"
)

const (
	// DefaultCapacity represents the default for Capacity.
	// It is the full identifier range of info.ID.
	DefaultCapacity = int(info.MaxID)
	// DefaultNoneName represents the default for NoneName.
	DefaultNoneName = "None"
	// DefaultQualify represents the default for Qualify.
	// Names look like "pkg.Type".
	DefaultQualify = apis.QualifyPackage
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultStrict represents the default for Strict.
	DefaultStrict = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Sanitize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Capacity:  DefaultCapacity,
		NoneName:  DefaultNoneName,
		Qualify:   DefaultQualify,
		MaxUnwrap: DefaultMaxUnwrap,
		Strict:    DefaultStrict,
	}
}

// Sanitize replaces out-of-range values in cfg with defaults.
func Sanitize(cfg apis.Config) apis.Config {
	if cfg.Capacity <= 0 || cfg.Capacity > DefaultCapacity {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.NoneName == "" {
		cfg.NoneName = DefaultNoneName
	}
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	switch cfg.Qualify {
	case apis.QualifyPackage, apis.QualifyName, apis.QualifyPath:
	default:
		cfg.Qualify = DefaultQualify
	}
	cfg.TrimPrefixes = slices.Clone(cfg.TrimPrefixes)
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithCapacity sets the Capacity option.
// Values outside (0, DefaultCapacity] reset to the default.
func WithCapacity(n int) Option {
	return func(c *apis.Config) {
		if n <= 0 || n > DefaultCapacity {
			c.Capacity = DefaultCapacity
			return
		}
		c.Capacity = n
	}
}

// WithNoneName sets the NoneName option. An empty name resets to the default.
func WithNoneName(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			name = DefaultNoneName
		}
		c.NoneName = name
	}
}

// WithQualify sets the Qualify option.
func WithQualify(q apis.Qualify) Option {
	return func(c *apis.Config) {
		c.Qualify = q
	}
}

// WithTrimPrefixes appends import-path prefixes to strip before qualifying.
func WithTrimPrefixes(prefixes ...string) Option {
	return func(c *apis.Config) {
		c.TrimPrefixes = append(slices.Clone(c.TrimPrefixes), prefixes...)
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A non-positive value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithStrict sets the Strict option.
func WithStrict(strict bool) Option {
	return func(c *apis.Config) {
		c.Strict = strict
	}
}

// ParseQualify maps a configuration spelling to an apis.Qualify.
func ParseQualify(s string) (apis.Qualify, bool) {
	switch s {
	case "package":
		return apis.QualifyPackage, true
	case "name":
		return apis.QualifyName, true
	case "path":
		return apis.QualifyPath, true
	default:
		return DefaultQualify, false
	}
}
