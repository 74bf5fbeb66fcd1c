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
	"reflect"

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/ident"
)

// NewTaggerStrategy creates an apis.Strategy that asks values implementing
// apis.Tagger for their tag.
func NewTaggerStrategy() apis.Strategy {
	return &taggerStrategy{}
}

// taggerStrategy is a zero-cost fast path: if v implements apis.Tagger,
// return its TypeTag() and stop the chain.
type taggerStrategy struct{}

// Ensure taggerStrategy implements apis.Strategy.
var _ apis.Strategy = (*taggerStrategy)(nil)

var taggerType = reflect.TypeOf((*apis.Tagger)(nil)).Elem()

// TryResolve checks if v implements apis.Tagger and returns its TypeTag().
// An invalid tag falls through to the next strategy.
func (*taggerStrategy) TryResolve(v any, _ apis.Config) (ident.TypeTag, bool) {
	if v == nil {
		return "", false
	}
	tg, ok := v.(apis.Tagger)
	if !ok {
		return "", false
	}
	tag := tg.TypeTag()
	if !tag.Valid() {
		return "", false
	}
	return tag, true
}

// TryResolveType handles types implementing apis.Tagger by calling TypeTag
// on their zero value. Pointer receivers are reached through the pointer type.
func (*taggerStrategy) TryResolveType(t reflect.Type, _ apis.Config) (ident.TypeTag, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return "", false
	}
	var zero reflect.Value
	switch {
	case t.Kind() != reflect.Ptr && t.Implements(taggerType):
		zero = reflect.Zero(t)
	case t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(taggerType):
		zero = reflect.New(t)
	case t.Kind() == reflect.Ptr && t.Implements(taggerType):
		zero = reflect.New(t.Elem())
	default:
		return "", false
	}
	tag := zero.Interface().(apis.Tagger).TypeTag()
	if !tag.Valid() {
		return "", false
	}
	return tag, true
}
