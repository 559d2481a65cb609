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

// Package rtti provides lightweight run-time type information for Go types.
//
// A type opts in by declaring its parent, either the sentinel root None or
// another declared type. Declarations are package-level variables, so they
// run during package initialization, before main:
//
//	type Shape struct{}
//	type Circle struct{ R float64 }
//
//	var (
//		_ = rtti.Declare[Shape, rtti.Object](rtti.Abstract())
//		_ = rtti.Declare[Circle, Shape]()
//	)
//
// main then calls Initialize once to link every record to its parent:
//
//	func main() {
//		rtti.Initialize()
//		i := rtti.Of[Circle]()
//		fmt.Println(i.Name(), i.ID(), i.Size(), rtti.IsA[Shape](i))
//	}
//
// # Records
//
// Every registered type owns an *info.Info record holding its qualified
// dotted name, its size in bytes, a dense identifier in [0, Count) and, after
// Initialize, links to its parent and children. The sentinel always owns
// identifier 0. Records can be found by static type (Of, Lookup), by the
// dynamic type of a value (TypeOf), by identifier (ByID) or by qualified name
// (ByName), and constructible types can be instantiated through their
// type-erased factory (info.Info.New, NewByName).
//
// # Names
//
// Names come from a describer chain built by the active apis.Builder. A type
// implementing apis.Namer on its value names itself; otherwise the name is
// derived from reflection according to apis.Config.Qualify and
// apis.Config.TrimPrefixes. Raw names are normalized: scope separators ("::"
// and "/") become ".", so "ns::inner::T" registers as "ns.inner.T".
//
// # Global state
//
// The package keeps a read-mostly snapshot of configuration, registry and
// builder behind an atomic pointer. Readers never lock. Writers (SetConfig,
// SetBuilder, SetRegistry, SetAll) take a build mutex, derive a new snapshot
// and publish it atomically. SetConfig and SetBuilder rebuild the registry by
// replaying its declarations, unless the registry was pinned by SetRegistry.
// A rebuild keeps identifiers and updates records already handed out, so
// configuration may be applied in main after the declarations have run.
//
// # Lifecycle
//
// Registration is a start-up phase. After Initialize the registry is frozen
// and reads are lock-free. New declarations panic, as do rebuilds through
// SetConfig and SetBuilder.
package rtti
