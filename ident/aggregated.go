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

import "fmt"

// AggregatedOid identifies an object that only exists as part of its parent.
//
// Equality covers (parent, local id). The type tag is carried and written to
// the textual form but is not compared.
type AggregatedOid struct {
	tag     TypeTag
	parent  Oid
	localID string
	hash    uint64
}

// NewAggregated validates its inputs and builds an aggregate under parent.
// parent must be a RootOid or an AggregatedOid.
func NewAggregated(parent Oid, tag TypeTag, localID string) (AggregatedOid, error) {
	if parent == nil || !validParent(parent) {
		return AggregatedOid{}, &ConstructionError{Kind: InvalidParent, Field: FieldParent}
	}
	if err := ValidateWord(FieldTypeTag, string(tag)); err != nil {
		return AggregatedOid{}, err
	}
	if err := ValidateWord(FieldLocalID, localID); err != nil {
		return AggregatedOid{}, err
	}
	return AggregatedOid{
		tag:     tag,
		parent:  parent,
		localID: localID,
		hash:    newHasher(KindAggregated).u64(parent.Hash()).str(localID).sum(),
	}, nil
}

// Kind returns KindAggregated.
func (a AggregatedOid) Kind() Kind { return KindAggregated }

// TypeTag returns the declared type of the aggregate.
func (a AggregatedOid) TypeTag() TypeTag { return a.tag }

// LocalID returns the identifier within the parent.
func (a AggregatedOid) LocalID() string { return a.localID }

// Parent returns the owner.
func (a AggregatedOid) Parent() Oid { return a.parent }

// IsTransient delegates to the parent.
func (a AggregatedOid) IsTransient() bool {
	return a.parent != nil && a.parent.IsTransient()
}

// Root returns the root at the bottom of the chain.
func (a AggregatedOid) Root() RootOid {
	if a.parent == nil {
		return RootOid{}
	}
	return a.parent.Root()
}

// Hash returns the precomputed hash code.
func (a AggregatedOid) Hash() uint64 { return a.hash }

// Aggregate returns the identifier of an object owned by a.
func (a AggregatedOid) Aggregate(tag TypeTag, localID string) (AggregatedOid, error) {
	return NewAggregated(a, tag, localID)
}

// Collection returns the identifier of the named collection of a.
func (a AggregatedOid) Collection(name string) (CollectionOid, error) {
	return NewCollection(a, name)
}

// Equal compares local id and, recursively, the parent.
func (a AggregatedOid) Equal(other Oid) bool {
	o, ok := other.(AggregatedOid)
	if !ok || a.hash != o.hash || a.localID != o.localID {
		return false
	}
	if a.parent == nil || o.parent == nil {
		return a.parent == nil && o.parent == nil
	}
	return a.parent.Equal(o.parent)
}

// String renders a for diagnostics.
func (a AggregatedOid) String() string {
	return fmt.Sprintf("AggregatedOid(%s:%s in %v)", a.tag, a.localID, a.parent)
}

func (AggregatedOid) isOid() {}
