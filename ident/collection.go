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

// CollectionOid identifies a named collection-valued member of its parent.
// Collections are leaves: no identifier can have a CollectionOid as parent.
type CollectionOid struct {
	parent Oid
	name   string
	hash   uint64
}

// NewCollection validates its inputs and builds a collection reference.
func NewCollection(parent Oid, name string) (CollectionOid, error) {
	if parent == nil || !validParent(parent) {
		return CollectionOid{}, &ConstructionError{Kind: InvalidParent, Field: FieldParent}
	}
	if err := ValidateWord(FieldCollectionName, name); err != nil {
		return CollectionOid{}, err
	}
	return CollectionOid{
		parent: parent,
		name:   name,
		hash:   newHasher(KindCollection).u64(parent.Hash()).str(name).sum(),
	}, nil
}

// Kind returns KindCollection.
func (c CollectionOid) Kind() Kind { return KindCollection }

// Name returns the collection member name.
func (c CollectionOid) Name() string { return c.name }

// Parent returns the owner.
func (c CollectionOid) Parent() Oid { return c.parent }

// IsTransient delegates to the parent.
func (c CollectionOid) IsTransient() bool {
	return c.parent != nil && c.parent.IsTransient()
}

// Root returns the root at the bottom of the chain.
func (c CollectionOid) Root() RootOid {
	if c.parent == nil {
		return RootOid{}
	}
	return c.parent.Root()
}

// Hash returns the precomputed hash code.
func (c CollectionOid) Hash() uint64 { return c.hash }

// Equal compares name and, recursively, the parent.
func (c CollectionOid) Equal(other Oid) bool {
	o, ok := other.(CollectionOid)
	if !ok || c.hash != o.hash || c.name != o.name {
		return false
	}
	if c.parent == nil || o.parent == nil {
		return c.parent == nil && o.parent == nil
	}
	return c.parent.Equal(o.parent)
}

// String renders c for diagnostics.
func (c CollectionOid) String() string {
	return fmt.Sprintf("CollectionOid(%s of %v)", c.name, c.parent)
}

func (CollectionOid) isOid() {}
