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

// Package ident defines the identifier values handed out for domain objects.
//
// There are three variants, all immutable:
//
//   - RootOid: a top-level object, identified by type tag, identifier and
//     persistence state, optionally stamped with a Version.
//   - AggregatedOid: an object owned by a parent (a root or another aggregate).
//   - CollectionOid: a named collection member of a parent. Collections are
//     always leaves.
//
// Parented variants derive their transience from the root at the bottom of
// the chain. Promoting a transient root yields a new RootOid; parented
// identifiers are rebuilt on top of it rather than promoted.
//
// Equality is content equality. A root's version never takes part in it, so
// one object at two versions is the same key. Hash codes are computed once
// in the constructors. Use Map to key data by identifier.
//
// Constructors reject empty components and the reserved characters listed
// in Reserved with a *ConstructionError.
package ident
