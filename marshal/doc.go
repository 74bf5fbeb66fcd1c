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


// Package marshal converts identifiers to and from a compact, single-line
// textual form.
//
// # Grammar
//
//	oid        := root nesting* collection? version?
//	root       := ["!"] word ":" word
//	nesting    := "~" word ":" word
//	collection := "$" word
//	version    := "^" digits ":" word? ":" digits?
//
// A word is one or more characters other than the reserved ": ~ $ ^ @ # !".
// Segments appear in this fixed order. Examples:
//
//	CUS:123                          persistent root
//	!CUS:123                         transient root
//	CUS:123~NME:2~CTY:LON            doubly nested aggregate
//	CUS:123~NME:2$streets            collection of a nested aggregate
//	CUS:123^42:alice:1690000000000   root at version 42 by alice
//
// The version is a property of the root even though it is written last;
// Unmarshal attaches it to the root at the bottom of the chain.
//
// # Errors
//
// Unmarshal returns a *ParseError matching ErrMalformed when the whole input
// does not follow the grammar, and ErrTypeMismatch when UnmarshalAs (or As)
// was asked for a different variant than the text encodes. Marshal never fails.
package marshal
