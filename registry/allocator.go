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
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/rtti/info"
)

// allocator hands out one dense identifier per distinct type.
//
// The first allocate call for a type takes the next counter value; every
// later call returns the cached one. Identifiers are never reused.
type allocator struct {
	// ids maps reflect.Type to its identifier.
	ids sync.Map // map[reflect.Type]info.ID
	// mu guards types and the check-and-set on ids.
	mu sync.Mutex
	// types holds the allocated types in identifier order.
	types []reflect.Type
	// capacity bounds the number of identifiers.
	capacity int
}

// newAllocator returns an allocator for at most capacity types.
func newAllocator(capacity int) *allocator {
	return &allocator{capacity: capacity}
}

// allocate returns the identifier of t, assigning one on first use.
func (a *allocator) allocate(t reflect.Type) (info.ID, error) {
	// Fast read path without locking.
	if id, ok := a.lookup(t); ok {
		return id, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if id, ok := a.lookup(t); ok {
		return id, nil
	}
	if len(a.types) >= a.capacity {
		return 0, fmt.Errorf("%w: limit is %d, cannot add %v", ErrCapacityExceeded, a.capacity, t)
	}
	return a.assign(t), nil
}

// allocatePair returns the identifiers of t and parent, assigning them in
// that order on first use. Either both are assigned or neither is.
func (a *allocator) allocatePair(t, parent reflect.Type) (info.ID, info.ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, haveT := a.lookup(t)
	pid, haveP := a.lookup(parent)

	need := 0
	if !haveT {
		need++
	}
	if !haveP && parent != t {
		need++
	}
	if len(a.types)+need > a.capacity {
		return 0, 0, fmt.Errorf("%w: limit is %d, cannot add %v with parent %v", ErrCapacityExceeded, a.capacity, t, parent)
	}

	if !haveT {
		id = a.assign(t)
	}
	switch {
	case haveP:
	case parent == t:
		pid = id
	default:
		pid = a.assign(parent)
	}
	return id, pid, nil
}

// assign hands t the next identifier. Callers hold a.mu and have checked
// capacity.
func (a *allocator) assign(t reflect.Type) info.ID {
	id := info.ID(len(a.types))
	a.types = append(a.types, t)
	a.ids.Store(t, id)
	return id
}

// lookup returns the identifier of t without allocating.
func (a *allocator) lookup(t reflect.Type) (info.ID, bool) {
	v, ok := a.ids.Load(t)
	if !ok {
		return 0, false
	}
	return v.(info.ID), true
}

// count returns the number of identifiers handed out so far.
func (a *allocator) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.types)
}

// typeOf returns the type that owns id.
func (a *allocator) typeOf(id info.ID) reflect.Type {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(id) >= len(a.types) {
		return nil
	}
	return a.types[id]
}
