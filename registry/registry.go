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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/config"
	"dirpx.dev/rtti/info"
	"dirpx.dev/rtti/resolver"
	"dirpx.dev/rtti/utils/names"
	uref "dirpx.dev/rtti/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is declared.
	ErrNilType = errors.New("rtti(registry): nil reflect.Type provided")
	// ErrCapacityExceeded is returned when more distinct types are
	// registered than the configured capacity allows.
	ErrCapacityExceeded = errors.New("rtti(registry): type capacity exceeded")
	// ErrConflictingDeclaration indicates an attempt to re-declare a type
	// with a different parent.
	ErrConflictingDeclaration = errors.New("rtti(registry): conflicting type declaration")
	// ErrCyclicDeclaration indicates a declaration that would make a type
	// its own ancestor.
	ErrCyclicDeclaration = errors.New("rtti(registry): cyclic type declaration")
	// ErrFrozen is returned when a new type is registered after Finalize.
	ErrFrozen = errors.New("rtti(registry): registry is finalized")
	// ErrAlreadyFinalized is returned by a second call to Finalize.
	ErrAlreadyFinalized = errors.New("rtti(registry): registry already finalized")
	// ErrUndeclaredParent is returned by Finalize in strict mode when a
	// parent type was referenced but never registered.
	ErrUndeclaredParent = errors.New("rtti(registry): parent type never registered")
)

// None is the sentinel root type. Declaring a type with None as its parent
// makes it a top-level type.
type None struct{}

// noneType is the reflect.Type of the sentinel.
var noneType = reflect.TypeFor[None]()

// New constructs a Registry that names types through d according to cfg.
// A nil describer falls back to reflect.Type.String names.
func New(cfg apis.Config, d apis.Describer) apis.Registry {
	cfg = config.Sanitize(cfg)
	if d == nil {
		d = resolver.New()
	}

	r := &registry{
		cfg:   cfg,
		desc:  d,
		alloc: newAllocator(cfg.Capacity),
		table: make([]*info.Info, cfg.Capacity),
	}

	// The sentinel always takes the first identifier.
	id, _ := r.alloc.allocate(noneType)
	r.none = info.NewNone(cfg.NoneName, id)
	r.table[id] = r.none
	r.entries.Store(noneType, &entry{rec: r.none, parent: noneType})
	return r
}

// registry is the default Registry implementation.
//
// Records live in a table pre-sized to the configured capacity and indexed by
// identifier, because a parent's slot may be reserved long before its record
// is created. Finalize trims the table to the allocated count.
type registry struct {
	// cfg is the configuration used for naming and capacity.
	cfg apis.Config
	// desc supplies raw names and sizes.
	desc apis.Describer
	// alloc hands out identifiers.
	alloc *allocator

	// mu guards table, decls and byName while registering.
	mu sync.Mutex
	// entries maps base reflect.Type to its *entry.
	entries sync.Map // map[reflect.Type]*entry
	// table maps identifiers to records.
	table []*info.Info
	// decls is the declaration log in registration order.
	decls []apis.Declaration
	// byName indexes records by qualified name once finalized.
	byName map[string]*info.Info
	// none is the sentinel record.
	none *info.Info
	// finalized is set once Finalize has linked the table.
	finalized atomic.Bool
}

// entry is the memoized registration of one type.
type entry struct {
	rec    *info.Info
	parent reflect.Type
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Declare registers d.Type as a subtype of d.Parent.
// Repeating an identical declaration returns the existing record.
func (r *registry) Declare(d apis.Declaration) (*info.Info, error) {
	if d.Type == nil {
		return nil, ErrNilType
	}
	t, err := uref.Base(d.Type, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot declare %v: %w", d.Type, err)
	}
	parent := noneType
	if d.Parent != nil {
		if parent, err = uref.Base(d.Parent, r.cfg); err != nil {
			return nil, fmt.Errorf("cannot declare %v with parent %v: %w", t, d.Parent, err)
		}
	}

	// Fast path: idempotency / conflict check without locking.
	if v, ok := r.entries.Load(t); ok {
		return existing(v.(*entry), t, parent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if v, ok := r.entries.Load(t); ok {
		return existing(v.(*entry), t, parent)
	}
	if r.finalized.Load() {
		return nil, fmt.Errorf("%w: cannot register %v", ErrFrozen, t)
	}
	if err := r.checkCycle(t, parent); err != nil {
		return nil, err
	}

	id, pid, err := r.alloc.allocatePair(t, parent)
	if err != nil {
		return nil, err
	}

	raw, size := d.Name, t.Size()
	if raw == "" {
		raw, size = r.desc.Describe(t, r.cfg)
	}

	factory := d.Factory
	if d.Abstract {
		factory = nil
	} else if factory == nil && uref.Constructible(t) {
		factory = func() any { return reflect.New(t).Interface() }
	}

	rec := r.create(d.Record, names.Normalize(raw), size, id, pid, factory)
	r.entries.Store(t, &entry{rec: rec, parent: parent})

	d.Type = t
	d.Record = nil
	if parent == noneType {
		d.Parent = nil
	} else {
		d.Parent = parent
	}
	r.decls = append(r.decls, d)

	Logger().Debug("type registered",
		zap.String("name", rec.Name()),
		zap.Uint16("id", uint16(id)),
		zap.Uint16("parent", uint16(pid)),
		zap.Uintptr("size", size),
	)
	return rec, nil
}

// existing resolves a repeated declaration of t against its first one.
func existing(e *entry, t, parent reflect.Type) (*info.Info, error) {
	if e.parent == parent {
		return e.rec, nil
	}
	return nil, fmt.Errorf("%w: %v already extends %v, not %v", ErrConflictingDeclaration, t, e.parent, parent)
}

// checkCycle walks the already-declared ancestors of parent looking for t.
func (r *registry) checkCycle(t, parent reflect.Type) error {
	for p := parent; p != noneType; {
		if p == t {
			return fmt.Errorf("%w: %v", ErrCyclicDeclaration, t)
		}
		v, ok := r.entries.Load(p)
		if !ok {
			return nil
		}
		p = v.(*entry).parent
	}
	return nil
}

// create stores a record at slot id, reusing prev when it is an unlinked
// record for the same identifier. Callers hold r.mu.
func (r *registry) create(prev *info.Info, name string, size uintptr, id, pid info.ID, factory info.Factory) *info.Info {
	rec := prev
	if rec != nil && rec.ID() == id && !rec.Linked() {
		rec.Rebind(name, size, pid, factory)
	} else {
		rec = info.New(name, size, id, pid, factory)
	}
	r.table[id] = rec
	return rec
}

// Of returns the record for t, registering it under the sentinel if it was
// never declared.
func (r *registry) Of(t reflect.Type) (*info.Info, error) {
	if t == nil {
		return nil, ErrNilType
	}
	b, err := uref.Base(t, r.cfg)
	if err != nil {
		return nil, err
	}
	if v, ok := r.entries.Load(b); ok {
		return v.(*entry).rec, nil
	}
	return r.Declare(apis.Declaration{Type: b})
}

// Lookup returns the record for t if present.
func (r *registry) Lookup(t reflect.Type) (*info.Info, bool) {
	if t == nil {
		return nil, false
	}
	b, err := uref.Base(t, r.cfg)
	if err != nil {
		return nil, false
	}
	if v, ok := r.entries.Load(b); ok {
		return v.(*entry).rec, true
	}
	return nil, false
}

// ByID returns the record with the given identifier if present.
// Identifiers outside [0, Count()) and reserved-but-empty slots report absent.
func (r *registry) ByID(id info.ID) (*info.Info, bool) {
	if !r.finalized.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if int(id) >= r.alloc.count() {
		return nil, false
	}
	rec := r.table[id]
	return rec, rec != nil
}

// ByName returns the record with the given qualified name if present.
func (r *registry) ByName(name string) (*info.Info, bool) {
	if r.finalized.Load() {
		rec, ok := r.byName[name]
		return rec, ok
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.table[:r.alloc.count()] {
		if rec != nil && rec.Name() == name {
			return rec, true
		}
	}
	return nil, false
}

// None returns the sentinel root record.
func (r *registry) None() *info.Info {
	return r.none
}

// IsNone reports whether i is this registry's sentinel record.
func (r *registry) IsNone(i *info.Info) bool {
	return i != nil && i == r.none
}

// Finalize trims the table and links every record to its parent, appending
// it to the parent's children in identifier order. It runs once; a second
// call returns ErrAlreadyFinalized and leaves the hierarchy untouched.
func (r *registry) Finalize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized.Load() {
		return ErrAlreadyFinalized
	}

	n := r.alloc.count()
	if r.cfg.Strict {
		var missing []string
		for id, rec := range r.table[:n] {
			if rec == nil {
				missing = append(missing, r.alloc.typeOf(info.ID(id)).String())
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrUndeclaredParent, strings.Join(missing, ", "))
		}
	}

	// Remove excess reserved slots.
	r.table = slices.Clone(r.table[:n])

	byName := make(map[string]*info.Info, n)
	for _, rec := range r.table {
		if rec == nil {
			continue
		}
		parent := r.table[rec.ParentID()]
		if parent == nil {
			Logger().Warn("parent type never registered, leaving type rootless",
				zap.String("name", rec.Name()),
				zap.Uint16("parent", uint16(rec.ParentID())),
				zap.Stringer("parent_type", r.alloc.typeOf(rec.ParentID())),
			)
		}
		rec.Attach(parent)

		if prev, dup := byName[rec.Name()]; dup {
			Logger().Warn("duplicate qualified name, keeping first registration",
				zap.String("name", rec.Name()),
				zap.Uint16("kept", uint16(prev.ID())),
				zap.Uint16("shadowed", uint16(rec.ID())),
			)
			continue
		}
		byName[rec.Name()] = rec
	}
	r.byName = byName
	r.finalized.Store(true)

	Logger().Info("type registry finalized", zap.Int("types", n))
	return nil
}

// Finalized reports whether Finalize has completed.
func (r *registry) Finalized() bool {
	return r.finalized.Load()
}

// Count returns the number of allocated identifiers, sentinel included.
func (r *registry) Count() int {
	return r.alloc.count()
}

// Records returns the records in identifier order. Empty slots are skipped.
func (r *registry) Records() []*info.Info {
	if !r.finalized.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	out := make([]*info.Info, 0, r.alloc.count())
	for _, rec := range r.table[:r.alloc.count()] {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// Declarations returns the declaration log in registration order.
func (r *registry) Declarations() []apis.Declaration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.decls)
}
