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

package rtti

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/builder"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/info"
	"dirpx.dev/rtti/registry"
)

// init publishes the default snapshot and declares Object.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = build(s.bld, s.cfg, nil)
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("rtti: builder returned nil registry")
	// ErrNilDescriber is returned when a builder returns a nil describer.
	ErrNilDescriber = errors.New("rtti: builder returned nil describer")
)

// None is the sentinel root. Declaring a type with None as its parent makes
// it a top-level type.
type None = registry.None

// Object is the conventional common base type, registered as "Object"
// directly under None.
//
// Do not embed Object to "inherit" from it; declare the relation instead:
//
//	var _ = rtti.Declare[MyClass, rtti.Object]()
type Object struct{}

// DeclareOption adjusts a single declaration.
type DeclareOption func(*apis.Declaration)

// Abstract marks the declared type as not constructible.
func Abstract() DeclareOption {
	return func(d *apis.Declaration) {
		d.Abstract = true
		d.Factory = nil
	}
}

// WithName overrides the raw name produced by the describer. The name is
// still normalized, so "ns::T" registers as "ns.T".
func WithName(raw string) DeclareOption {
	return func(d *apis.Declaration) {
		d.Name = raw
	}
}

// WithFactory replaces default construction with fn.
func WithFactory[T any](fn func() T) DeclareOption {
	return func(d *apis.Declaration) {
		if fn == nil {
			return
		}
		d.Factory = func() any { return fn() }
		d.Abstract = false
	}
}

// Declare registers T as a subtype of P in the global registry and returns
// T's record. It is meant to run during package initialization:
//
//	var _ = rtti.Declare[Circle, Shape]()
//
// Repeating the same declaration returns the same record. Any registry error
// (conflicting parent, cycle, exhausted capacity, finalized registry) is a
// programming error and panics.
func Declare[T, P any](opts ...DeclareOption) *info.Info {
	d := apis.Declaration{Type: reflect.TypeFor[T](), Parent: reflect.TypeFor[P]()}
	for _, opt := range opts {
		opt(&d)
	}
	i, err := st.Load().reg.Declare(d)
	if err != nil {
		panic(err)
	}
	return i
}

// Of returns the record of T, registering T under None when it was never
// declared. It panics when T cannot be registered.
func Of[T any]() *info.Info {
	i, err := st.Load().reg.Of(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return i
}

// Lookup returns the record of T without registering it.
func Lookup[T any]() (*info.Info, bool) {
	return st.Load().reg.Lookup(reflect.TypeFor[T]())
}

// TypeOf returns the record of v's dynamic type. Pointers are unwrapped, so
// a *MyClass reports MyClass. Unregistered types report absent.
func TypeOf(v any) (*info.Info, bool) {
	if v == nil {
		return nil, false
	}
	return st.Load().reg.Lookup(reflect.TypeOf(v))
}

// IsA reports whether i is U or derives from U. An unregistered U is never
// an ancestor.
func IsA[U any](i *info.Info) bool {
	u, ok := Lookup[U]()
	return ok && i.IsDerivedFrom(u)
}

// ByID returns the record with identifier id.
func ByID(id info.ID) (*info.Info, bool) {
	return st.Load().reg.ByID(id)
}

// ByName returns the record with the given qualified name.
func ByName(name string) (*info.Info, bool) {
	return st.Load().reg.ByName(name)
}

// NewByName default-constructs the type registered under name. It reports
// false when the name is unknown or the type is not constructible.
func NewByName(name string) (any, bool) {
	i, ok := ByName(name)
	if !ok {
		return nil, false
	}
	return i.New()
}

// NoneType returns the sentinel record of the global registry.
func NoneType() *info.Info {
	return st.Load().reg.None()
}

// IsNone reports whether i is the sentinel record of the global registry.
func IsNone(i *info.Info) bool {
	return st.Load().reg.IsNone(i)
}

// Initialize links every registered type to its parent. Call it once, at the
// start of main, after all packages have declared their types. A second call
// panics.
func Initialize() {
	if err := st.Load().reg.Finalize(); err != nil {
		panic(err)
	}
}

// SetLogger replaces the logger used by the registry. Nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	registry.SetLogger(l)
}

// SetAll explicitly sets all global rtti state components.
//
// A nil cfg or bld leaves the corresponding component unchanged. A nil reg is
// built from scratch by the builder: every declaration except Object is
// dropped. A non-nil reg is installed as is and pinned.
func SetAll(cfg *apis.Config, reg apis.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = config.Sanitize(*cfg)
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	nreg := reg
	npreg := reg != nil
	if nreg == nil {
		nreg = build(nbld, ncfg, nil)
	}

	st.Store(&state{cfg: ncfg, reg: nreg, bld: nbld, preg: npreg})
}

// Config returns the global rtti configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg. Unless the registry is
// pinned, it is rebuilt under cfg by replaying its declarations: names follow
// the new configuration, identifiers stay the same and records already
// handed out are updated in place. Rebuilding an initialized registry panics
// with registry.ErrFrozen.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	cfg = config.Sanitize(cfg)
	old := st.Load()
	nreg := old.reg
	if !old.preg {
		nreg = rebuild(old.bld, cfg, old.reg)
	}

	st.Store(&state{cfg: cfg, reg: nreg, bld: old.bld, preg: old.preg})
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg as the global registry and pins it, so later
// configuration or builder changes do not rebuild it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: reg, bld: old.bld, preg: true})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the registry through
// it unless the registry is pinned. Rebuilding an initialized registry panics
// with registry.ErrFrozen.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := old.reg
	if !old.preg {
		nreg = rebuild(b, old.cfg, old.reg)
	}

	st.Store(&state{cfg: old.cfg, reg: nreg, bld: b, preg: old.preg})
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// UnpinRegistry lets later SetConfig and SetBuilder calls rebuild the
// registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: old.reg, bld: old.bld})
}

// rebuild migrates prev through b. An initialized registry is frozen: its
// names and records must not change for the rest of the process.
func rebuild(b apis.Builder, cfg apis.Config, prev apis.Registry) apis.Registry {
	if prev.Finalized() {
		panic(fmt.Errorf("%w: cannot rebuild after Initialize", registry.ErrFrozen))
	}
	return build(b, cfg, prev)
}

// build asks b for a describer and a registry, migrating prev. A fresh
// registry gets Object declared up front.
func build(b apis.Builder, cfg apis.Config, prev apis.Registry) apis.Registry {
	d := b.BuildDescriber(cfg)
	if d == nil {
		panic(ErrNilDescriber)
	}
	reg := b.BuildRegistry(cfg, d, prev)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	if prev == nil {
		if _, err := reg.Declare(objectDeclaration); err != nil {
			panic(err)
		}
	}
	return reg
}

// objectDeclaration places Object directly under None.
var objectDeclaration = apis.Declaration{
	Type: reflect.TypeFor[Object](),
	Name: "Object",
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global rtti state.
var st atomic.Pointer[state]

// state is the global rtti state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
}
