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

package resolver

import (
	"reflect"

	"dirpx.dev/rtti/apis"
)

// New constructs an apis.Describer that tries the given strategies in order.
// Nil strategies are ignored. The returned describer is safe for concurrent use
// provided strategies themselves are safe for concurrent TryName calls.
func New(strategies ...apis.Strategy) apis.Describer {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving describer over a set of strategies.
type chain struct {
	strats []apis.Strategy
}

// Describe runs strategies in order until one names the type.
// The size always comes from reflection; a nil type describes as ("", 0).
func (r chain) Describe(t reflect.Type, cfg apis.Config) (string, uintptr) {
	if t == nil {
		return "", 0
	}
	for _, s := range r.strats {
		if name, ok := s.TryName(t, cfg); ok {
			return name, t.Size()
		}
	}
	return t.String(), t.Size()
}
