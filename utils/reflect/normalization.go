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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, func, []T).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not a named type")
)

// Base unwraps pointers according to cfg.MaxUnwrap and returns the named
// type underneath, so *T and **T resolve to the same registry entry as T.
//
// Only pointers are unwrapped: []T, map[K]V and chan T are distinct types
// and, being unnamed, are rejected with ErrReflectTypeNotNamed.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Base(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; i < maxUnwrap && t.Kind() == reflect.Pointer && t.Name() == ""; i++ {
		t = t.Elem()
	}

	if t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// Constructible reports whether a zero value of t can be allocated and
// handed out as an instance. Interface types are abstract.
func Constructible(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Interface
}
