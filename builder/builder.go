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

package builder

import (
	"go.uber.org/zap"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/registry"
	"dirpx.dev/rtti/resolver"
	"dirpx.dev/rtti/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildDescriber builds the default naming chain: a type's own apis.Namer
// first, reflection second.
func (b *builder) BuildDescriber(_ apis.Config) apis.Describer {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration. If a previous registry is provided, its declarations are
// replayed in registration order, which reproduces the same identifiers.
// Records of an unfinalized previous registry are reused, so records already
// handed out keep working; a finalized previous registry yields fresh records
// and the new registry is finalized too.
func (b *builder) BuildRegistry(cfg apis.Config, d apis.Describer, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg, d)
	if prev == nil {
		return nreg
	}
	reuse := !prev.Finalized()
	for _, decl := range prev.Declarations() {
		if reuse {
			decl.Record, _ = prev.Lookup(decl.Type)
		}
		if _, err := nreg.Declare(decl); err != nil {
			registry.Logger().Warn("dropping declaration during rebuild",
				zap.Stringer("type", decl.Type),
				zap.Error(err),
			)
		}
	}
	if prev.Finalized() {
		if err := nreg.Finalize(); err != nil {
			registry.Logger().Warn("rebuilt registry failed to finalize", zap.Error(err))
		}
	}
	return nreg
}
