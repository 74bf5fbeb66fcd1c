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

// Registry binds Go types to type tags in both directions.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a (nearest named) reflect.Type with a tag.
	// Re-registering the same pair is a no-op; binding either side to a
	// different partner is an error.
	Register(t reflect.Type, tag ident.TypeTag) error
	// Lookup returns the tag registered for a type.
	Lookup(t reflect.Type) (tag ident.TypeTag, ok bool)
	// LookupTag returns the type registered under a tag.
	LookupTag(tag ident.TypeTag) (t reflect.Type, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, tag) association in a Registry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Tag is the associated type tag.
	Tag ident.TypeTag
}
