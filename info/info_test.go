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

package info_test

import (
	"errors"
	"testing"

	"dirpx.dev/rtti/info"
)

type widget struct{ a, b int64 }

// chain builds None -> Object -> MyClass and links it the way a registry does.
func chain() (none, object, my *info.Info) {
	none = info.NewNone("None", 0)
	object = info.New("Object", 8, 1, 0, nil)
	my = info.New("MyClass", 16, 2, 1, func() any { return new(widget) })
	none.Attach(none)
	object.Attach(none)
	my.Attach(object)
	return none, object, my
}

func TestIsBaseOf_Reflexive(t *testing.T) {
	none, object, my := chain()
	for _, i := range []*info.Info{none, object, my} {
		if !i.IsBaseOf(i.ID()) {
			t.Fatalf("%s.IsBaseOf(%d) = false, want true", i.Name(), i.ID())
		}
	}
}

func TestIsBaseOf_ChainStopsAtSentinel(t *testing.T) {
	none, object, my := chain()

	if !my.IsBaseOf(object.ID()) {
		t.Fatalf("MyClass.IsBaseOf(Object) = false, want true")
	}
	if my.IsBaseOf(none.ID()) {
		t.Fatalf("MyClass.IsBaseOf(None) = true, want false")
	}
	if object.IsBaseOf(my.ID()) {
		t.Fatalf("Object.IsBaseOf(MyClass) = true, want false")
	}

	got := my.Ancestors()
	if len(got) != 2 || got[0] != my || got[1] != object {
		t.Fatalf("Ancestors() = %v, want [MyClass Object]", got)
	}
}

func TestIsDerivedFrom(t *testing.T) {
	_, object, my := chain()
	if !my.IsDerivedFrom(object) {
		t.Fatalf("MyClass.IsDerivedFrom(Object) = false, want true")
	}
	if object.IsDerivedFrom(my) {
		t.Fatalf("Object.IsDerivedFrom(MyClass) = true, want false")
	}
	if my.IsDerivedFrom(nil) {
		t.Fatalf("IsDerivedFrom(nil) = true, want false")
	}
}

func TestUnlinkedRecordHasNoAncestors(t *testing.T) {
	my := info.New("MyClass", 16, 2, 1, nil)
	if my.Parent() != nil {
		t.Fatalf("Parent() = %v, want nil", my.Parent())
	}
	if my.IsBaseOf(1) {
		t.Fatalf("unlinked IsBaseOf(parent) = true, want false")
	}
	if !my.IsBaseOf(2) {
		t.Fatalf("unlinked IsBaseOf(self) = false, want true")
	}
}

func TestSentinel(t *testing.T) {
	none, object, _ := chain()
	if !none.IsNone() || object.IsNone() {
		t.Fatalf("IsNone: none=%v object=%v, want true,false", none.IsNone(), object.IsNone())
	}
	if none.Parent() != nil {
		t.Fatalf("sentinel Parent() = %v, want nil", none.Parent())
	}
	if none.Size() != 0 || none.ParentID() != none.ID() {
		t.Fatalf("sentinel size=%d parent=%d, want 0,%d", none.Size(), none.ParentID(), none.ID())
	}
	if kids := none.Children(); len(kids) != 1 || kids[0] != object {
		t.Fatalf("sentinel Children() = %v, want [Object]", kids)
	}
}

func TestAttachTwicePanics(t *testing.T) {
	_, object, my := chain()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, info.ErrAlreadyLinked) {
			t.Fatalf("recover() = %v, want ErrAlreadyLinked", r)
		}
		if n := len(object.Children()); n != 1 {
			t.Fatalf("Object has %d children after double attach, want 1", n)
		}
	}()
	my.Attach(object)
}

func TestNew(t *testing.T) {
	_, object, my := chain()

	v, ok := my.New()
	if !ok {
		t.Fatalf("MyClass.New(): ok = false, want true")
	}
	if _, isWidget := v.(*widget); !isWidget {
		t.Fatalf("MyClass.New() = %T, want *info_test.widget", v)
	}
	if !my.Constructible() {
		t.Fatalf("Constructible() = false, want true")
	}

	if v, ok := object.New(); ok || v != nil {
		t.Fatalf("Object.New() = (%v,%v), want (nil,false)", v, ok)
	}
}

func TestRebind(t *testing.T) {
	rec := info.New("Raw", 8, 3, 0, nil)
	if rec.Linked() {
		t.Fatalf("new record reports linked")
	}

	rec.Rebind("pkg.Raw", 16, 1, func() any { return 1 })
	got := []any{rec.Name(), rec.Size(), rec.ID(), rec.ParentID(), rec.Constructible()}
	want := []any{"pkg.Raw", uintptr(16), info.ID(3), info.ID(1), true}
	for n := range want {
		if got[n] != want[n] {
			t.Fatalf("after Rebind got (%v), want (%v)", got, want)
		}
	}

	rec.Attach(nil)
	if !rec.Linked() {
		t.Fatalf("Linked() = false after Attach")
	}
	defer func() {
		if r := recover(); r != info.ErrAlreadyLinked {
			t.Fatalf("Rebind after Attach: recover() = %v, want ErrAlreadyLinked", r)
		}
	}()
	rec.Rebind("x", 0, 0, nil)
}
