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

import "strings"

// Reserved lists every character that may not appear inside an identifier
// word: the grammar separators plus the transient marker.
const Reserved = ":~$^@#!"

// TypeTag is an opaque, case-sensitive logical type name (for example "CUS").
type TypeTag string

// NewTypeTag validates s and returns it as a TypeTag.
func NewTypeTag(s string) (TypeTag, error) {
	if err := ValidateWord(FieldTypeTag, s); err != nil {
		return "", err
	}
	return TypeTag(s), nil
}

// MustTypeTag is like NewTypeTag but panics on invalid input.
// Intended for package-level constants and tests.
func MustTypeTag(s string) TypeTag {
	t, err := NewTypeTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the tag text.
func (t TypeTag) String() string { return string(t) }

// Valid reports whether t is non-empty and free of reserved characters.
func (t TypeTag) Valid() bool {
	return ValidateWord(FieldTypeTag, string(t)) == nil
}

// IsWord reports whether s can be used verbatim as a word in the textual form.
func IsWord(s string) bool {
	return s != "" && !strings.ContainsAny(s, Reserved)
}

// ValidateWord checks that s is non-empty and contains no reserved character.
// field names the offending component in the returned *ConstructionError.
func ValidateWord(field Field, s string) error {
	if s == "" {
		return &ConstructionError{Kind: EmptyField, Field: field}
	}
	if i := strings.IndexAny(s, Reserved); i >= 0 {
		return &ConstructionError{Kind: InvalidCharacter, Field: field, Value: s, Offset: i}
	}
	return nil
}
