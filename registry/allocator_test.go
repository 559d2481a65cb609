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
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/rtti/info"
)

type t0 struct{}
type t1 struct{}
type t2 struct{}

func TestAllocator_OncePerType(t *testing.T) {
	a := newAllocator(8)

	types := []reflect.Type{reflect.TypeOf(t0{}), reflect.TypeOf(t1{}), reflect.TypeOf(t2{})}
	for want, typ := range types {
		got, err := a.allocate(typ)
		if err != nil || got != info.ID(want) {
			t.Fatalf("allocate(%v) = (%d,%v), want (%d,nil)", typ, got, err, want)
		}
	}
	// Re-allocation returns the cached identifier in any order.
	for i := len(types) - 1; i >= 0; i-- {
		if got, _ := a.allocate(types[i]); got != info.ID(i) {
			t.Fatalf("allocate(%v) again = %d, want %d", types[i], got, i)
		}
	}
	if a.count() != 3 {
		t.Fatalf("count() = %d, want 3", a.count())
	}
	if id, ok := a.lookup(types[1]); !ok || id != 1 {
		t.Fatalf("lookup(t1) = (%d,%v), want (1,true)", id, ok)
	}
	if a.typeOf(2) != types[2] || a.typeOf(3) != nil {
		t.Fatalf("typeOf mismatch")
	}
}

func TestAllocator_Capacity(t *testing.T) {
	a := newAllocator(1)
	if _, err := a.allocate(reflect.TypeOf(t0{})); err != nil {
		t.Fatalf("first allocate: %v", err)
	}
	if _, err := a.allocate(reflect.TypeOf(t1{})); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
	// Known types are still served.
	if id, err := a.allocate(reflect.TypeOf(t0{})); err != nil || id != 0 {
		t.Fatalf("allocate(t0) = (%d,%v), want (0,nil)", id, err)
	}
}

func TestAllocator_PairAllOrNothing(t *testing.T) {
	a := newAllocator(2)
	if _, err := a.allocate(reflect.TypeOf(t0{})); err != nil {
		t.Fatalf("allocate(t0): %v", err)
	}
	if _, _, err := a.allocatePair(reflect.TypeOf(t1{}), reflect.TypeOf(t2{})); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("want ErrCapacityExceeded, got %v", err)
	}
	if a.count() != 1 {
		t.Fatalf("count() = %d, want 1", a.count())
	}
	if _, ok := a.lookup(reflect.TypeOf(t1{})); ok {
		t.Fatalf("t1 allocated by failed pair")
	}

	// A known parent needs only one slot.
	id, pid, err := a.allocatePair(reflect.TypeOf(t1{}), reflect.TypeOf(t0{}))
	if err != nil || id != 1 || pid != 0 {
		t.Fatalf("allocatePair(t1, t0) = (%d,%d,%v), want (1,0,nil)", id, pid, err)
	}
}

// TestAllocator_ConcurrentFirstTouch verifies that racing first calls for the
// same type agree on a single identifier.
func TestAllocator_ConcurrentFirstTouch(t *testing.T) {
	a := newAllocator(16)
	types := []reflect.Type{reflect.TypeOf(t0{}), reflect.TypeOf(t1{}), reflect.TypeOf(t2{})}

	workers := runtime.GOMAXPROCS(0) * 4
	results := make([][]info.ID, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			out := make([]info.ID, len(types))
			for i := range types {
				typ := types[(i+w)%len(types)]
				id, err := a.allocate(typ)
				if err != nil {
					t.Errorf("allocate: %v", err)
					return
				}
				out[(i+w)%len(types)] = id
			}
			results[w] = out
		}(w)
	}
	wg.Wait()

	if a.count() != len(types) {
		t.Fatalf("count() = %d, want %d", a.count(), len(types))
	}
	for w := 1; w < workers; w++ {
		for i := range types {
			if results[w][i] != results[0][i] {
				t.Fatalf("worker %d saw id %d for %v, worker 0 saw %d", w, results[w][i], types[i], results[0][i])
			}
		}
	}
}
