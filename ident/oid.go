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

// Kind enumerates the identifier variants.
type Kind uint8

const (
	// KindRoot identifies a top-level object.
	KindRoot Kind = iota + 1
	// KindAggregated identifies an object owned by its parent.
	KindAggregated
	// KindCollection identifies a collection-valued member of its parent.
	KindCollection
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindAggregated:
		return "aggregated"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Oid is the closed set {RootOid, AggregatedOid, CollectionOid}.
//
// Implementations are immutable values. Equality is content equality and
// Hash is consistent with it, precomputed at construction. Dispatch on the
// concrete type with a type switch over the three variants.
type Oid interface {
	// Kind returns the variant.
	Kind() Kind
	// IsTransient reports whether the root of the chain is transient.
	IsTransient() bool
	// Root follows parent links to the RootOid at the bottom of the chain.
	Root() RootOid
	// Equal reports content equality. Root versions are ignored.
	Equal(other Oid) bool
	// Hash returns the precomputed hash code.
	Hash() uint64
	// String returns a diagnostic rendering (not the wire form).
	String() string

	isOid()
}

// Parented is implemented by AggregatedOid and CollectionOid.
type Parented interface {
	Oid
	// Parent returns the owning identifier, never a CollectionOid.
	Parent() Oid
}

// Compile-time checks.
var (
	_ Oid      = RootOid{}
	_ Parented = AggregatedOid{}
	_ Parented = CollectionOid{}
)

// Equal reports whether a and b are content-equal. Two nil values are equal.
func Equal(a, b Oid) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Hash() == b.Hash() && a.Equal(b)
}

// Depth returns the number of aggregate segments between o and its root.
// A collection does not count as a segment.
func Depth(o Oid) int {
	n := 0
	for o != nil {
		switch v := o.(type) {
		case RootOid:
			return n
		case AggregatedOid:
			n++
			o = v.parent
		case CollectionOid:
			o = v.parent
		default:
			return n
		}
	}
	return n
}

// Path returns the chain from the root (index 0) to o inclusive.
func Path(o Oid) []Oid {
	var rev []Oid
	for o != nil {
		rev = append(rev, o)
		p, ok := o.(Parented)
		if !ok {
			break
		}
		o = p.Parent()
	}
	out := make([]Oid, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// validParent accepts a RootOid or an AggregatedOid built by a constructor.
func validParent(p Oid) bool {
	switch v := p.(type) {
	case RootOid:
		return !v.IsZero()
	case AggregatedOid:
		return v.parent != nil
	default:
		return false
	}
}
