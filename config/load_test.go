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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/rtti/apis"
	"dirpx.dev/rtti/config"
)

func TestParse_AllAttributes(t *testing.T) {
	src := `
capacity      = 128
none_name     = "Nothing"
qualify       = "path"
trim_prefixes = ["main", "example.com/app"]
max_unwrap    = 2
strict        = true
`
	cfg, err := config.Parse([]byte(src), "rtti.hcl")
	require.NoError(t, err)

	require.Equal(t, 128, cfg.Capacity)
	require.Equal(t, "Nothing", cfg.NoneName)
	require.Equal(t, apis.QualifyPath, cfg.Qualify)
	require.Equal(t, []string{"main", "example.com/app"}, cfg.TrimPrefixes)
	require.Equal(t, 2, cfg.MaxUnwrap)
	require.True(t, cfg.Strict)
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(""), "empty.hcl")
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestParse_InvalidQualify(t *testing.T) {
	_, err := config.Parse([]byte(`qualify = "deep"`), "bad.hcl")
	require.ErrorIs(t, err, config.ErrInvalidQualify)
}

func TestParse_UnknownAttribute(t *testing.T) {
	_, err := config.Parse([]byte(`colour = "red"`), "bad.hcl")
	require.Error(t, err)
}

func TestParse_Syntax(t *testing.T) {
	_, err := config.Parse([]byte(`capacity = `), "broken.hcl")
	require.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rtti.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`qualify = "name"`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, apis.QualifyName, cfg.Qualify)
	require.Equal(t, config.DefaultCapacity, cfg.Capacity)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
