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


package concurrency

import "dirpx.dev/oid/ident"

// Relation classifies a reference root against the authoritative one.
type Relation uint8

const (
	// NotEquivalent means the roots name different objects.
	NotEquivalent Relation = iota
	// EquivalentNoVersionInfo means same object, but at least one side has
	// no version, so staleness cannot be decided.
	EquivalentNoVersionInfo
	// EquivalentUnchanged means same object at the same version sequence.
	EquivalentUnchanged
	// EquivalentChanged means same object, modified since the reference was taken.
	EquivalentChanged
)

// String returns the relation name.
func (r Relation) String() string {
	switch r {
	case NotEquivalent:
		return "NotEquivalent"
	case EquivalentNoVersionInfo:
		return "EquivalentNoVersionInfo"
	case EquivalentUnchanged:
		return "EquivalentUnchanged"
	case EquivalentChanged:
		return "EquivalentChanged"
	default:
		return "Unknown"
	}
}

// IsEquivalent reports whether both roots name the same object.
func (r Relation) IsEquivalent() bool { return r != NotEquivalent }

// Compare classifies reference (typically decoded from a client round-trip)
// against authoritative (the object's current identifier).
func Compare(reference, authoritative ident.RootOid) Relation {
	if !reference.Equal(authoritative) {
		return NotEquivalent
	}
	rv, rok := reference.Version()
	av, aok := authoritative.Version()
	if !rok || !aok {
		return EquivalentNoVersionInfo
	}
	if rv.Equal(av) {
		return EquivalentUnchanged
	}
	return EquivalentChanged
}
