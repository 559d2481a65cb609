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

// Package mynamespace holds a MyClass that shares its short name with the
// demo's root MyClass.
package mynamespace

import "dirpx.dev/rtti"

// MyClass is registered as "mynamespace.MyClass".
type MyClass struct {
	Value int32
}

var _ = rtti.Declare[MyClass, rtti.Object]()
