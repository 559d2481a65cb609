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

package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"dirpx.dev/rtti/apis"
)

// ErrInvalidQualify is returned when a config file names an unknown qualify mode.
var ErrInvalidQualify = errors.New("rtti(config): invalid qualify mode")

// hclConfigFile is the decoding target for a registry config file.
// Every attribute is optional; missing ones keep their defaults and unknown
// ones are rejected by the decoder.
type hclConfigFile struct {
	Capacity     *int     `hcl:"capacity,optional"`
	NoneName     *string  `hcl:"none_name,optional"`
	Qualify      *string  `hcl:"qualify,optional"`
	TrimPrefixes []string `hcl:"trim_prefixes,optional"`
	MaxUnwrap    *int     `hcl:"max_unwrap,optional"`
	Strict       *bool    `hcl:"strict,optional"`
}

// Load reads an HCL config file and returns the resulting configuration.
//
//	capacity      = 1024
//	qualify       = "path"
//	trim_prefixes = ["main", "example.com/app"]
func Load(path string) (apis.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return apis.Config{}, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decode(file, path)
}

// Parse decodes HCL source held in memory. filename is used in diagnostics.
func Parse(src []byte, filename string) (apis.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return apis.Config{}, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return decode(file, filename)
}

// decode maps a parsed file onto the default configuration.
func decode(file *hcl.File, filename string) (apis.Config, error) {
	var parsed hclConfigFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return apis.Config{}, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	var opts []Option
	if parsed.Capacity != nil {
		opts = append(opts, WithCapacity(*parsed.Capacity))
	}
	if parsed.NoneName != nil {
		opts = append(opts, WithNoneName(*parsed.NoneName))
	}
	if parsed.Qualify != nil {
		q, ok := ParseQualify(*parsed.Qualify)
		if !ok {
			return apis.Config{}, fmt.Errorf("%w: %q in %s", ErrInvalidQualify, *parsed.Qualify, filename)
		}
		opts = append(opts, WithQualify(q))
	}
	if len(parsed.TrimPrefixes) > 0 {
		opts = append(opts, WithTrimPrefixes(parsed.TrimPrefixes...))
	}
	if parsed.MaxUnwrap != nil {
		opts = append(opts, WithMaxUnwrap(*parsed.MaxUnwrap))
	}
	if parsed.Strict != nil {
		opts = append(opts, WithStrict(*parsed.Strict))
	}
	return NewConfig(opts...), nil
}
