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

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/ident"
	uref "dirpx.dev/oid/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives a "pkg.Type" tag
// from the Go type, memoized per type and config.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback. It always handles the request;
// an empty tag means the type cannot be tagged (anonymous, or builtin with
// IncludeBuiltins off).
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
}

// tagCache caches derived tags by (type, config knobs).
var tagCache sync.Map // key: cacheKey, val: ident.TypeTag

// TryResolve derives the tag for v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (ident.TypeTag, bool) {
	if v == nil {
		return "", false
	}
	return derive(reflect.TypeOf(v), cfg), true
}

// TryResolveType derives the tag for t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (ident.TypeTag, bool) {
	if t == nil {
		return "", false
	}
	return derive(t, cfg), true
}

// derive computes "pkg.Type" for the nearest named type of t.
func derive(t reflect.Type, cfg apis.Config) ident.TypeTag {
	key := cacheKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := tagCache.Load(key); ok {
		return v.(ident.TypeTag)
	}

	var tag ident.TypeTag
	if base, err := uref.Normalize(t, cfg); err == nil {
		name := stripTypeParams(base.Name())
		switch p := base.PkgPath(); {
		case p != "":
			name = path.Base(p) + "." + name
		case !cfg.IncludeBuiltins:
			name = ""
		}
		if ident.IsWord(name) {
			tag = ident.TypeTag(name)
		}
	}

	tagCache.Store(key, tag)
	return tag
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
