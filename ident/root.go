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

package ident

import (
	"fmt"

	"github.com/google/uuid"
)

// RootOid identifies a top-level object, persistent or transient.
//
// Equality covers (type tag, identifier, state). The version is carried
// along but never compared: the same object at two versions is one key.
type RootOid struct {
	tag        TypeTag
	id         string
	state      State
	version    Version
	hasVersion bool
	hash       uint64
}

// NewRoot validates its inputs and returns a RootOid without a version.
func NewRoot(tag TypeTag, identifier string, state State) (RootOid, error) {
	if err := ValidateWord(FieldTypeTag, string(tag)); err != nil {
		return RootOid{}, err
	}
	if err := ValidateWord(FieldIdentifier, identifier); err != nil {
		return RootOid{}, err
	}
	if state != Transient {
		state = Persistent
	}
	return RootOid{
		tag:   tag,
		id:    identifier,
		state: state,
		hash:  newHasher(KindRoot).str(string(tag)).str(identifier).u64(uint64(state)).sum(),
	}, nil
}

// NewPersistentRoot is NewRoot with Persistent state.
func NewPersistentRoot(tag TypeTag, identifier string) (RootOid, error) {
	return NewRoot(tag, identifier, Persistent)
}

// NewTransientRoot is NewRoot with Transient state.
func NewTransientRoot(tag TypeTag, identifier string) (RootOid, error) {
	return NewRoot(tag, identifier, Transient)
}

// NewTransientRootID returns a transient root with a freshly generated identifier.
func NewTransientRootID(tag TypeTag) (RootOid, error) {
	return NewRoot(tag, uuid.NewString(), Transient)
}

// Kind returns KindRoot.
func (r RootOid) Kind() Kind { return KindRoot }

// TypeTag returns the logical type name.
func (r RootOid) TypeTag() TypeTag { return r.tag }

// Identifier returns the object identifier within its type.
func (r RootOid) Identifier() string { return r.id }

// State returns the persistence state.
func (r RootOid) State() State { return r.state }

// IsTransient reports whether the root has not been stored yet.
func (r RootOid) IsTransient() bool { return r.state == Transient }

// IsZero reports whether r is the zero value rather than a constructed root.
func (r RootOid) IsZero() bool { return r.tag == "" && r.id == "" }

// Version returns the attached version, if any.
func (r RootOid) Version() (Version, bool) { return r.version, r.hasVersion }

// HasVersion reports whether a version is attached.
func (r RootOid) HasVersion() bool { return r.hasVersion }

// Root returns r.
func (r RootOid) Root() RootOid { return r }

// Hash returns the precomputed hash code.
func (r RootOid) Hash() uint64 { return r.hash }

// WithVersion returns a copy of r carrying v.
func (r RootOid) WithVersion(v Version) RootOid {
	r.version = v
	r.hasVersion = true
	return r
}

// WithoutVersion returns a copy of r without a version.
func (r RootOid) WithoutVersion() RootOid {
	r.version = Version{}
	r.hasVersion = false
	return r
}

// AsPersistent returns a persistent root with the same type tag and the newly
// assigned identifier. The version, if any, is kept.
func (r RootOid) AsPersistent(identifier string) (RootOid, error) {
	p, err := NewRoot(r.tag, identifier, Persistent)
	if err != nil {
		return RootOid{}, err
	}
	if r.hasVersion {
		p = p.WithVersion(r.version)
	}
	return p, nil
}

// Aggregate returns the identifier of an object owned by r.
func (r RootOid) Aggregate(tag TypeTag, localID string) (AggregatedOid, error) {
	return NewAggregated(r, tag, localID)
}

// Collection returns the identifier of the named collection of r.
func (r RootOid) Collection(name string) (CollectionOid, error) {
	return NewCollection(r, name)
}

// Equal compares type tag, identifier and state.
func (r RootOid) Equal(other Oid) bool {
	o, ok := other.(RootOid)
	if !ok {
		return false
	}
	return r.hash == o.hash && r.tag == o.tag && r.id == o.id && r.state == o.state
}

// String renders r for diagnostics.
func (r RootOid) String() string {
	s := fmt.Sprintf("RootOid(%s:%s, %s", r.tag, r.id, r.state)
	if r.hasVersion {
		s += ", v" + r.version.String()
	}
	return s + ")"
}

func (RootOid) isOid() {}
