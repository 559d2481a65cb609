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

// Namer lets a type choose its own raw name instead of the reflected one.
//
// It is consulted on the zero value of the type, so the result must not
// depend on instance state. Scope separators ("::" or "/") are allowed and
// are rewritten to dots by the registry:
//
//	type MyClass struct{}
//
//	func (MyClass) TypeName() string { return "mynamespace::MyClass" }
type Namer interface {
	// TypeName returns the raw, type-level name.
	TypeName() string
}
