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

// Qualify selects how much of a type's import path ends up in its name.
type Qualify int

const (
	// QualifyPackage prefixes the last element of the import path: "pkg.Type".
	QualifyPackage Qualify = iota
	// QualifyName uses the bare type name: "Type".
	QualifyName
	// QualifyPath prefixes the full import path: "example.com.pkg.Type".
	QualifyPath
)

// String returns the configuration spelling of q.
func (q Qualify) String() string {
	switch q {
	case QualifyPackage:
		return "package"
	case QualifyName:
		return "name"
	case QualifyPath:
		return "path"
	default:
		return "unknown"
	}
}

// Config carries the knobs used by registries and describers.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Capacity is the maximum number of distinct types, sentinel included.
	// Identifiers live in [0, Capacity).
	Capacity int

	// NoneName is the qualified name of the sentinel root type.
	NoneName string

	// Qualify selects how names are derived from import paths.
	Qualify Qualify

	// TrimPrefixes lists import-path prefixes removed before qualifying.
	// A path that becomes empty yields the bare type name.
	TrimPrefixes []string

	// MaxUnwrap limits pointer unwrapping when mapping *T to T.
	MaxUnwrap int

	// Strict makes finalization fail when a declared parent was never
	// registered itself.
	Strict bool
}
