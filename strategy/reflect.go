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

package strategy

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/rtti/apis"
)

// NewReflectStrategy creates an apis.Strategy that derives raw names via
// reflection and memoizes them.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback. It produces "pkg.Type",
// "Type" or "import/path.Type" depending on cfg.Qualify. The result still
// contains Go's "/" path separators; the registry normalizes them to dots.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect naming.
type cacheKey struct {
	t       reflect.Type
	qualify apis.Qualify
	trim    string
}

// typeNameCache caches raw names by (type, config knobs).
var typeNameCache sync.Map // key: cacheKey, val: string

// TryName computes the raw name for t. Unnamed types fall through.
func (reflectStrategy) TryName(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil || t.Name() == "" {
		return "", false
	}
	return byType(t, cfg), true
}

// byType resolves the raw name for t with memoization.
func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{
		t:       t,
		qualify: cfg.Qualify,
		trim:    strings.Join(cfg.TrimPrefixes, "\x00"),
	}
	if v, ok := typeNameCache.Load(key); ok {
		return v.(string)
	}

	name := t.Name()
	pkg := trimPkgPath(t.PkgPath(), cfg.TrimPrefixes)
	if pkg != "" {
		switch cfg.Qualify {
		case apis.QualifyName:
		case apis.QualifyPath:
			name = pkg + "." + name
		default:
			name = path.Base(pkg) + "." + name
		}
	}

	typeNameCache.Store(key, name)
	return name
}

// trimPkgPath removes the first matching prefix from an import path.
// A prefix matches the whole path or a leading run of path elements.
func trimPkgPath(pkg string, prefixes []string) string {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if pkg == p {
			return ""
		}
		if rest, ok := strings.CutPrefix(pkg, p+"/"); ok {
			return rest
		}
	}
	return pkg
}
