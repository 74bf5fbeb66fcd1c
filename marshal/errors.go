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

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed matches parse errors for text that does not follow the grammar.
	ErrMalformed = errors.New("oid(marshal): malformed identifier")
	// ErrTypeMismatch matches parse errors for text of a different shape than requested.
	ErrTypeMismatch = errors.New("oid(marshal): identifier type mismatch")
)

// ParseErrorKind classifies a ParseError.
type ParseErrorKind int

const (
	// Malformed means the text does not match the grammar.
	Malformed ParseErrorKind = iota + 1
	// TypeMismatch means the text is well formed but encodes another shape.
	TypeMismatch
)

// String returns the kind name.
func (k ParseErrorKind) String() string {
	switch k {
	case Malformed:
		return "Malformed"
	case TypeMismatch:
		return "TypeMismatch"
	default:
		return "Unknown"
	}
}

// maxQuoted bounds how much of the input is echoed in error messages.
const maxQuoted = 64

// ParseError is returned by the Unmarshal family.
type ParseError struct {
	Kind ParseErrorKind
	// Input is the text being parsed.
	Input string
	// Offset is the byte offset where parsing stopped (Malformed only).
	Offset int
	// Reason describes the grammar violation (Malformed only).
	Reason string
	// Want and Got describe a TypeMismatch.
	Want, Got Shape
	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	in := e.Input
	if len(in) > maxQuoted {
		in = in[:maxQuoted] + "..."
	}
	if e.Kind == TypeMismatch {
		return fmt.Sprintf("oid(marshal): %q is a %s identifier, want %s", in, e.Got, e.Want)
	}
	return fmt.Sprintf("oid(marshal): malformed %q at offset %d: %s", in, e.Offset, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is maps the kind onto the package sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Kind == Malformed
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch
	}
	return false
}
