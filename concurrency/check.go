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


package concurrency

import (
	"errors"
	"fmt"

	"dirpx.dev/oid/ident"
)

var (
	// ErrConcurrentModification matches a *ConflictError.
	ErrConcurrentModification = errors.New("oid(concurrency): object changed since it was read")
	// ErrNotEquivalent is returned by Check when the roots name different objects.
	ErrNotEquivalent = errors.New("oid(concurrency): identifiers do not refer to the same object")
)

// ConflictError reports a stale reference.
type ConflictError struct {
	Reference     ident.RootOid
	Authoritative ident.RootOid
}

// Error implements error.
func (e *ConflictError) Error() string {
	rv, _ := e.Reference.Version()
	av, _ := e.Authoritative.Version()
	return fmt.Sprintf("oid(concurrency): %s:%s was modified (read at %d, now %d)",
		e.Authoritative.TypeTag(), e.Authoritative.Identifier(), rv.Sequence(), av.Sequence())
}

// Is matches ErrConcurrentModification.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConcurrentModification
}

// Check turns Compare into an error for callers that reject stale writes.
// Unchanged and no-version-info references pass.
func Check(reference, authoritative ident.RootOid) error {
	switch Compare(reference, authoritative) {
	case EquivalentUnchanged, EquivalentNoVersionInfo:
		return nil
	case EquivalentChanged:
		return &ConflictError{Reference: reference, Authoritative: authoritative}
	default:
		return ErrNotEquivalent
	}
}
