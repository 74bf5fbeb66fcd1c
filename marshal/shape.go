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

package marshal

import "dirpx.dev/oid/ident"

// Shape is the variant a caller expects from UnmarshalAs.
type Shape uint8

const (
	// ShapeAny accepts every variant.
	ShapeAny Shape = iota
	// ShapeRoot requires a RootOid.
	ShapeRoot
	// ShapeAggregated requires an AggregatedOid.
	ShapeAggregated
	// ShapeCollection requires a CollectionOid.
	ShapeCollection
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeAny:
		return "any"
	case ShapeRoot:
		return "root"
	case ShapeAggregated:
		return "aggregated"
	case ShapeCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// ShapeOf returns the shape of o. A nil Oid has ShapeAny.
func ShapeOf(o ident.Oid) Shape {
	switch o.(type) {
	case ident.RootOid:
		return ShapeRoot
	case ident.AggregatedOid:
		return ShapeAggregated
	case ident.CollectionOid:
		return ShapeCollection
	default:
		return ShapeAny
	}
}

// Matches reports whether o satisfies s.
func (s Shape) Matches(o ident.Oid) bool {
	return s == ShapeAny || s == ShapeOf(o)
}
