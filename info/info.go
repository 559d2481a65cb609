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

// Package info defines the type record produced by the rtti registry.
//
// An Info describes exactly one registered Go type: its qualified dotted
// name, its size, its dense identifier and its position in the single-parent
// hierarchy. Records are created by a registry during start-up and linked to
// their parents once, during finalization. After that they are immutable and
// safe for concurrent reads.
package info

import (
	"errors"
	"slices"
)

// ID is the dense identifier of a registered type.
type ID uint16

// MaxID is the largest identifier representable by ID.
const MaxID = ^ID(0)

// Factory constructs a new zero instance of the exact registered type.
type Factory func() any

// ErrAlreadyLinked is raised when a record is attached to a parent twice.
var ErrAlreadyLinked = errors.New("rtti(info): record already linked to a parent")

// Info is the run-time descriptor of a single registered type.
type Info struct {
	// name is the qualified dotted name, e.g. "a.b.MyClass".
	name string
	// size is the byte size of a value of the type.
	size uintptr
	// id is the identifier of the type.
	id ID
	// parentID is the identifier of the declared parent.
	parentID ID
	// factory builds new instances, nil if the type is not constructible.
	factory Factory
	// none marks the sentinel root record.
	none bool

	// parent is resolved during finalization.
	parent *Info
	// children lists records whose parent resolved to this one.
	children []*Info
	// linked is set once Attach has run.
	linked bool
}

// New creates an unlinked record.
func New(name string, size uintptr, id, parentID ID, factory Factory) *Info {
	return &Info{
		name:     name,
		size:     size,
		id:       id,
		parentID: parentID,
		factory:  factory,
	}
}

// NewNone creates the sentinel root record. Its parent is itself.
func NewNone(name string, id ID) *Info {
	return &Info{name: name, id: id, parentID: id, none: true}
}

// Name returns the qualified dotted name.
func (i *Info) Name() string { return i.name }

// Size returns the size in bytes of a value of the type; 0 for the sentinel.
func (i *Info) Size() uintptr { return i.size }

// ID returns the identifier.
func (i *Info) ID() ID { return i.id }

// ParentID returns the identifier of the declared parent.
func (i *Info) ParentID() ID { return i.parentID }

// Parent returns the resolved parent or nil for roots and unlinked records.
func (i *Info) Parent() *Info { return i.parent }

// Children returns the direct subtypes in identifier order.
// The returned slice is a copy.
func (i *Info) Children() []*Info { return slices.Clone(i.children) }

// IsNone reports whether i is the sentinel root record.
func (i *Info) IsNone() bool { return i != nil && i.none }

// Constructible reports whether New can produce an instance.
func (i *Info) Constructible() bool { return i.factory != nil }

// String returns the qualified name.
func (i *Info) String() string { return i.name }

// Linked reports whether Attach has run.
func (i *Info) Linked() bool { return i.linked }

// Rebind refreshes the description of an unlinked record in place, so that
// holders of i observe a registry rebuild. It panics with ErrAlreadyLinked
// once the record is linked.
func (i *Info) Rebind(name string, size uintptr, parentID ID, factory Factory) {
	if i.linked {
		panic(ErrAlreadyLinked)
	}
	i.name = name
	i.size = size
	i.parentID = parentID
	i.factory = factory
}

// Attach links i to parent and appends i to the parent's children.
//
// It is meant to be called by a registry during finalization only. Attaching
// a record twice panics with ErrAlreadyLinked since it would duplicate the
// record in its parent's child list.
func (i *Info) Attach(parent *Info) {
	if i.linked {
		panic(ErrAlreadyLinked)
	}
	i.linked = true
	if parent == nil || parent == i {
		return
	}
	i.parent = parent
	parent.children = append(parent.children, i)
}

// IsBaseOf reports whether the type identified by id is i itself or one of
// i's ancestors.
//
// The walk stops at the sentinel and at a missing link, so an unlinked record
// only ever matches its own identifier.
func (i *Info) IsBaseOf(id ID) bool {
	if i == nil {
		return false
	}
	if i.id == id {
		return true
	}
	for p := i.parent; p != nil && !p.none; p = p.parent {
		if p.id == id {
			return true
		}
	}
	return false
}

// IsDerivedFrom reports whether i is u or a subtype of u.
func (i *Info) IsDerivedFrom(u *Info) bool {
	if u == nil {
		return false
	}
	return i.IsBaseOf(u.id)
}

// Ancestors returns the chain from i up to, but excluding, the sentinel.
func (i *Info) Ancestors() []*Info {
	var out []*Info
	for p := i; p != nil && !p.none; p = p.parent {
		out = append(out, p)
	}
	return out
}

// New default-constructs an instance of the type.
// It returns (nil, false) when the type has no factory.
func (i *Info) New() (any, bool) {
	if i == nil || i.factory == nil {
		return nil, false
	}
	return i.factory(), true
}
