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


// Package reflect finds the named Go type that carries a type tag when a
// value is wrapped in pointers or containers.
package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("oid(reflect): nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// containers) does not contain a named type (e.g., anonymous struct, func).
	ErrReflectTypeNotNamed = errors.New("oid(reflect): type has no name to tag")
)

// Normalize unwraps containers according to cfg (MaxUnwrap/MapPreferElem)
// and returns the nearest named inner type.
//
// Unwrapping policy:
//   - ptr/slice/array/chan  -> Elem()
//   - map[K]V: the preferred side wins if named, then the other side;
//     otherwise unwrapping continues with Elem().
//   - anything else must be named.
//
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	limit := cfg.MaxUnwrap
	if limit <= 0 {
		limit = config.DefaultMaxUnwrap
	}

	for i := 0; t != nil && i < limit; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
			t = t.Elem()
		case reflect.Map:
			if named := namedMapSide(t, cfg.MapPreferElem); named != nil {
				return named, nil
			}
			t = t.Elem()
		default:
			if t.Name() != "" {
				return t, nil
			}
			return nil, ErrReflectTypeNotNamed
		}
	}

	if t != nil && t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// namedMapSide returns the first named side of map type t in preference order.
func namedMapSide(t reflect.Type, preferElem bool) reflect.Type {
	first, second := t.Key(), t.Elem()
	if preferElem {
		first, second = second, first
	}
	if first.Name() != "" {
		return first
	}
	if second.Name() != "" {
		return second
	}
	return nil
}
