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

import (
	"reflect"

	"dirpx.dev/oid/ident"
)

// Strategy is a pluggable resolution step. A Resolver chains strategies in
// order (e.g., Tagger -> Registry -> Reflect).
type Strategy interface {
	// TryResolve attempts to find the tag for value v according to cfg.
	// It returns (tag, true) if handled; otherwise ("", false) to fall through.
	TryResolve(v any, cfg Config) (tag ident.TypeTag, handled bool)

	// TryResolveType attempts to find the tag for the reflect.Type t.
	TryResolveType(t reflect.Type, cfg Config) (tag ident.TypeTag, handled bool)
}

// Tagger is implemented by domain types that know their own type tag.
type Tagger interface {
	// TypeTag returns the tag for the receiver's type. It must be constant
	// for a given type and must not perform I/O.
	TypeTag() ident.TypeTag
}

// TaggerFunc adapts a function to Tagger.
type TaggerFunc func() ident.TypeTag

// TypeTag calls f.
func (f TaggerFunc) TypeTag() ident.TypeTag { return f() }

// Identified is implemented by entities that know both their tag and the
// identifier of the instance, e.g.
//
//	func (c Customer) TypeTag() ident.TypeTag { return "CUS" }
//	func (c Customer) ObjectID() string       { return c.ID }
type Identified interface {
	Tagger
	// ObjectID returns the identifier of this instance. It must be stable
	// for the lifetime of the entity.
	ObjectID() string
}
