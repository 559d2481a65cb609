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

// Package debug renders a type registry for humans.
package debug

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/info"
)

// Option tweaks the rendering of WriteTree and Hierarchy.
type Option func(*options)

type options struct {
	name   func(string) string
	indent string
}

// WithNameStyle decorates every type name, e.g. with terminal colors.
func WithNameStyle(fn func(string) string) Option {
	return func(o *options) {
		if fn != nil {
			o.name = fn
		}
	}
}

// WithIndent replaces the tab used per depth level.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}

func newOptions(opts []Option) options {
	o := options{name: func(s string) string { return s }, indent: "\t"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WriteTree writes the hierarchy under the sentinel, one type per line:
//
//	Object: 0x0
//		MyClass: 0x10
//
// The sentinel itself is not printed. Children follow identifier order.
func WriteTree(w io.Writer, reg apis.Registry, opts ...Option) error {
	o := newOptions(opts)
	for _, child := range reg.None().Children() {
		if err := writeType(w, child, 0, o); err != nil {
			return err
		}
	}
	return nil
}

// writeType writes i and its subtree at the given depth.
func writeType(w io.Writer, i *info.Info, depth int, o options) error {
	if _, err := fmt.Fprintf(w, "%s%s: 0x%x\n", strings.Repeat(o.indent, depth), o.name(i.Name()), i.Size()); err != nil {
		return err
	}
	for _, child := range i.Children() {
		if err := writeType(w, child, depth+1, o); err != nil {
			return err
		}
	}
	return nil
}

// Hierarchy renders the ancestor chain of i, root first:
//
//	None -> Object -> MyClass
//
// Before finalization, or for a record whose parent never registered, the
// chain stops at the record itself.
func Hierarchy(i *info.Info, opts ...Option) string {
	if i == nil {
		return ""
	}
	o := newOptions(opts)

	var chain []string
	for p := i; p != nil; p = p.Parent() {
		chain = append(chain, o.name(p.Name()))
	}
	slices.Reverse(chain)
	return strings.Join(chain, " -> ")
}
