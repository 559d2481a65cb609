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
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/rtti/apis"
)

// Local test types.
type A struct{}
type G[T any] struct{ V T }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		Qualify:   apis.QualifyPackage,
		MaxUnwrap: 8,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestReflectStrategy_TryName(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		typ      reflect.Type
		cfg      apis.Config
		expected string
	}{
		{"package", reflect.TypeOf(A{}), cfg(), "strategy.A"},
		{"name", reflect.TypeOf(A{}), cfg(func(c *apis.Config) { c.Qualify = apis.QualifyName }), "A"},
		{"path", reflect.TypeOf(A{}), cfg(func(c *apis.Config) { c.Qualify = apis.QualifyPath }), "dirpx.dev/rtti/strategy.A"},
		{"path trimmed to root", reflect.TypeOf(A{}), cfg(func(c *apis.Config) {
			c.Qualify = apis.QualifyPath
			c.TrimPrefixes = []string{"dirpx.dev/rtti/strategy"}
		}), "A"},
		{"path trimmed partially", reflect.TypeOf(A{}), cfg(func(c *apis.Config) {
			c.Qualify = apis.QualifyPath
			c.TrimPrefixes = []string{"dirpx.dev/rtti/"}
		}), "strategy.A"},
		{"trim must match whole elements", reflect.TypeOf(A{}), cfg(func(c *apis.Config) {
			c.Qualify = apis.QualifyPath
			c.TrimPrefixes = []string{"dirpx.dev/rt"}
		}), "dirpx.dev/rtti/strategy.A"},
		{"builtin", reflect.TypeOf(0), cfg(), "int"},
		{"generic keeps params", reflect.TypeOf(G[int]{}), cfg(), "strategy.G[int]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryName(tc.typ, tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %v", tc.typ)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestReflectStrategy_Unnamed(t *testing.T) {
	s := NewReflectStrategy()
	for _, typ := range []reflect.Type{nil, reflect.TypeOf([]A{}), reflect.TypeOf(struct{}{})} {
		if got, ok := s.TryName(typ, cfg()); ok || got != "" {
			t.Fatalf("TryName(%v) = (%q,%v), want ('',false)", typ, got, ok)
		}
	}
}

func TestReflectStrategy_CacheRespectsConfig(t *testing.T) {
	s := NewReflectStrategy()
	typ := reflect.TypeOf(A{})

	a, _ := s.TryName(typ, cfg())
	b, _ := s.TryName(typ, cfg(func(c *apis.Config) { c.Qualify = apis.QualifyName }))
	c, _ := s.TryName(typ, cfg())
	if a != "strategy.A" || b != "A" || c != a {
		t.Fatalf("cache leaked across configs: %q %q %q", a, b, c)
	}
}

func TestReflectStrategy_Concurrent(t *testing.T) {
	s := NewReflectStrategy()
	typ := reflect.TypeOf(G[string]{})
	want := "strategy.G[string]"

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if got, ok := s.TryName(typ, cfg()); !ok || got != want {
					t.Errorf("TryName = (%q,%v), want (%q,true)", got, ok, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTrimPkgPath(t *testing.T) {
	cases := []struct {
		pkg      string
		prefixes []string
		want     string
	}{
		{"main", []string{"main"}, ""},
		{"example.com/app/model", []string{"example.com/app/"}, "model"},
		{"example.com/app/model", []string{"", "example.com/app"}, "model"},
		{"example.com/apple", []string{"example.com/app"}, "example.com/apple"},
		{"example.com/app", nil, "example.com/app"},
	}
	for _, tc := range cases {
		if got := trimPkgPath(tc.pkg, tc.prefixes); got != tc.want {
			t.Fatalf("trimPkgPath(%q, %v) = %q, want %q", tc.pkg, tc.prefixes, got, tc.want)
		}
	}
}
