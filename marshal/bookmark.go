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

// Bookmark wraps an identifier so it can be embedded in JSON or YAML
// documents and form values as its textual form, version included.
// The zero Bookmark encodes as the empty string.
type Bookmark struct {
	Oid ident.Oid
}

// NewBookmark wraps o.
func NewBookmark(o ident.Oid) Bookmark { return Bookmark{Oid: o} }

// IsZero reports whether b holds no identifier.
func (b Bookmark) IsZero() bool { return b.Oid == nil }

// String returns the textual form.
func (b Bookmark) String() string { return std.Marshal(b.Oid) }

// MarshalText implements encoding.TextMarshaler.
func (b Bookmark) MarshalText() ([]byte, error) {
	return []byte(std.Marshal(b.Oid)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the default Marshaller.
func (b *Bookmark) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		b.Oid = nil
		return nil
	}
	o, err := std.Unmarshal(string(text))
	if err != nil {
		return err
	}
	b.Oid = o
	return nil
}
