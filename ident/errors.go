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
	"errors"
	"fmt"
)

var (
	// ErrEmptyField matches construction errors caused by an empty component.
	ErrEmptyField = errors.New("oid(ident): empty field")
	// ErrInvalidCharacter matches construction errors caused by a reserved character.
	ErrInvalidCharacter = errors.New("oid(ident): invalid character")
	// ErrInvalidParent matches construction errors caused by a nil or collection parent.
	ErrInvalidParent = errors.New("oid(ident): invalid parent")
)

// ErrorKind classifies a ConstructionError.
type ErrorKind int

const (
	// EmptyField means a required string component was empty.
	EmptyField ErrorKind = iota + 1
	// InvalidCharacter means a component contained a reserved character.
	InvalidCharacter
	// InvalidParent means a parented identifier was given a nil parent
	// or a collection as parent.
	InvalidParent
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case EmptyField:
		return "EmptyField"
	case InvalidCharacter:
		return "InvalidCharacter"
	case InvalidParent:
		return "InvalidParent"
	default:
		return "Unknown"
	}
}

// Field names the component a ConstructionError refers to.
type Field string

// Components checked during construction.
const (
	FieldTypeTag        Field = "type tag"
	FieldIdentifier     Field = "identifier"
	FieldLocalID        Field = "local id"
	FieldCollectionName Field = "collection name"
	FieldVersionUser    Field = "version user"
	FieldParent         Field = "parent"
)

// ConstructionError reports disallowed content supplied to a constructor.
type ConstructionError struct {
	Kind  ErrorKind
	Field Field
	// Value is the rejected input (empty for EmptyField and InvalidParent).
	Value string
	// Offset is the byte offset of the first reserved character.
	Offset int
}

// Error implements error.
func (e *ConstructionError) Error() string {
	switch e.Kind {
	case InvalidCharacter:
		return fmt.Sprintf("oid(ident): %s %q contains reserved character %q at offset %d",
			e.Field, e.Value, e.Value[e.Offset], e.Offset)
	case EmptyField:
		return fmt.Sprintf("oid(ident): %s must not be empty", e.Field)
	case InvalidParent:
		return fmt.Sprintf("oid(ident): %s must be a root or aggregated identifier", e.Field)
	default:
		return fmt.Sprintf("oid(ident): invalid %s", e.Field)
	}
}

// Is maps the kind onto the package sentinels.
func (e *ConstructionError) Is(target error) bool {
	switch target {
	case ErrEmptyField:
		return e.Kind == EmptyField
	case ErrInvalidCharacter:
		return e.Kind == InvalidCharacter
	case ErrInvalidParent:
		return e.Kind == InvalidParent
	}
	return false
}
