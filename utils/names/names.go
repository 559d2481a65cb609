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

// Package names turns raw type names into canonical dotted qualified names.
package names

import "strings"

// kindTags are host-specific prefixes that tag a raw name as class-like or
// struct-like. They carry no naming information and are stripped.
var kindTags = []string{"class ", "struct ", "enum ", "union "}

// separators are the scope separators rewritten to a single dot.
// "::" covers C-family names, "/" covers Go import paths.
var separators = []string{"::", "/"}

// Normalize converts raw into a dotted qualified name.
//
//	"class a::b::MyClass"            -> "a.b.MyClass"
//	"example.com/pkg.Type"           -> "example.com.pkg.Type"
//	"MyClass"                        -> "MyClass"
//
// Normalize is idempotent. Every separator is replaced, however deeply the
// scopes are nested.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	name = StripKindTags(name)
	for _, sep := range separators {
		for strings.Contains(name, sep) {
			name = strings.ReplaceAll(name, sep, ".")
		}
	}
	return name
}

// StripKindTags removes leading kind tags until none is left.
func StripKindTags(raw string) string {
	for {
		stripped := false
		for _, tag := range kindTags {
			if rest, ok := strings.CutPrefix(raw, tag); ok {
				raw = strings.TrimLeft(rest, " ")
				stripped = true
			}
		}
		if !stripped {
			return raw
		}
	}
}

// Scopes splits a qualified name into its dotted segments, keeping generic
// instantiation brackets intact: "a.G[b.T]" -> ["a", "G[b.T]"].
func Scopes(qualified string) []string {
	if qualified == "" {
		return nil
	}
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(qualified); i++ {
		switch qualified[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				out = append(out, qualified[start:i])
				start = i + 1
			}
		}
	}
	return append(out, qualified[start:])
}

// Short returns the last scope of a qualified name: "a.b.MyClass" -> "MyClass".
func Short(qualified string) string {
	s := Scopes(qualified)
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}
