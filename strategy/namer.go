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

package strategy

import (
	"reflect"

	"dirpx.dev/rtti/apis"
)

// namerType is the reflect.Type of apis.Namer.
var namerType = reflect.TypeFor[apis.Namer]()

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is the fast path: if the type implements apis.Namer,
// its TypeName() wins and stops the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryName asks a fresh zero value of t for its TypeName().
// Pointer receivers are honored by probing *T.
func (*namerStrategy) TryName(t reflect.Type, _ apis.Config) (string, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return "", false
	}
	var v reflect.Value
	switch {
	case t.Implements(namerType):
		v = reflect.Zero(t)
	case reflect.PointerTo(t).Implements(namerType):
		v = reflect.New(t)
	default:
		return "", false
	}
	if t.Kind() == reflect.Pointer {
		// A nil pointer receiver cannot be probed safely.
		return "", false
	}
	name := v.Interface().(apis.Namer).TypeName()
	if name == "" {
		return "", false
	}
	return name, true
}
