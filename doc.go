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


// Package oid provides object identifiers for domain entities and a
// process-wide facade for working with them.
//
// An identifier is one of three immutable values from package ident:
//
//   - RootOid: a top-level entity, "CUS:42". It carries a type tag, an
//     identifier, a persistence state and, optionally, a version.
//   - AggregatedOid: an entity owned by a parent, "CUS:42~ADR:home".
//   - CollectionOid: a named collection under a parent, "CUS:42$orders".
//
// Package marshal converts identifiers to and from text, and package
// concurrency compares a version read earlier against the authoritative
// one before a write:
//
//	text := oid.Marshal(addr)              // "CUS:42~ADR:home^3:alice:"
//	back, err := oid.Unmarshal(text)
//	rel := oid.Compare(readRoot, storedRoot)
//
// # Type tags
//
// Every identifier names the kind of entity it points at with a short
// type tag. The facade can derive a tag from a Go value:
//
//  1. If the value implements apis.Tagger, use v.TypeTag().
//  2. If the type is found in the Registry, use that tag.
//  3. Otherwise derive "pkg.Type" from the Go type.
//
// Register important types up front so their tags stay stable across
// refactors:
//
//	oid.RegisterType(reflect.TypeOf(Customer{}), "CUS")
//	root, err := oid.RootOf(c, "42", ident.Persistent)
//
// The registry is bidirectional, so a decoded tag maps back to its type
// through oid.Registry().LookupTag.
//
// # Snapshot
//
// The facade keeps its configuration, registry, resolver, builder and
// marshaller in one immutable snapshot behind an atomic pointer. Reads are
// lock-free. Writers (SetConfig, SetBuilder, SetRegistry, SetResolver,
// SetAll) take a short build mutex, assemble a new snapshot and swap it in.
//
// SetRegistry and SetResolver pin the layer they install: later rebuilds
// keep it until UnpinRegistry or UnpinResolver is called. SetConfig always
// rebuilds the marshaller so the MaxDepth and MaxLength limits apply to
// every subsequent Unmarshal.
//
// # Scope
//
// The identifier packages are pure values and functions: they do no I/O,
// never log and never read the environment. Storage, logging and
// configuration files belong to the binaries built on top, such as
// cmd/oidctl.
package oid
