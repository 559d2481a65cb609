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

package apis

import (
	"reflect"

	"dirpx.dev/rtti/info"
)

// Registry is the process-wide table of type records.
//
// Registration happens during start-up; Finalize then links parents and
// children exactly once. After Finalize the registry is read-only and safe
// for concurrent readers.
type Registry interface {
	// Declare registers d.Type as a subtype of d.Parent. Repeating an
	// identical declaration returns the existing record.
	Declare(d Declaration) (*info.Info, error)
	// Of returns the record for t, registering t under the sentinel if it
	// was never declared.
	Of(t reflect.Type) (*info.Info, error)
	// Lookup returns the record for t if present. It never registers.
	Lookup(t reflect.Type) (*info.Info, bool)
	// ByID returns the record with the given identifier if present.
	ByID(id info.ID) (*info.Info, bool)
	// ByName returns the record with the given qualified name if present.
	// Names are indexed by Finalize.
	ByName(name string) (*info.Info, bool)
	// None returns the sentinel root record.
	None() *info.Info
	// IsNone reports whether i is this registry's sentinel record.
	IsNone(i *info.Info) bool
	// Finalize resolves parent links. It must be called exactly once.
	Finalize() error
	// Finalized reports whether Finalize has completed.
	Finalized() bool
	// Count returns the number of allocated identifiers, sentinel included.
	Count() int
	// Records returns the records in identifier order. Empty slots are skipped.
	Records() []*info.Info
	// Declarations returns the declaration log in registration order.
	Declarations() []Declaration
}

// Declaration states that Type extends Parent.
type Declaration struct {
	// Type is the declared type.
	Type reflect.Type
	// Parent is the declared parent type; nil means the sentinel root.
	Parent reflect.Type
	// Name overrides the describer's raw name when non-empty.
	Name string
	// Factory overrides default construction.
	Factory info.Factory
	// Abstract marks the type as not constructible.
	Abstract bool
	// Record, when set, is an unlinked record from a previous registry. If
	// it carries the identifier the declaration receives, it is rebound and
	// reused instead of a new record being created.
	Record *info.Info
}
