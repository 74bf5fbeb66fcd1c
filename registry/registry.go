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


package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/config"
	"dirpx.dev/oid/ident"
	uref "dirpx.dev/oid/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("oid(registry): nil reflect.Type provided")
	// ErrInvalidTag is returned when the tag is empty or contains reserved characters.
	ErrInvalidTag = errors.New("oid(registry): invalid type tag")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different tag.
	ErrConflictingRegistration = errors.New("oid(registry): conflicting type registration")
	// ErrTagTaken indicates the tag is already bound to another type.
	// Tags must be unique so decoded identifiers map back to one type.
	ErrTagTaken = errors.New("oid(registry): type tag already bound to another type")
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{
		cfg:    cfg,
		byType: make(map[reflect.Type]ident.TypeTag),
		byTag:  make(map[ident.TypeTag]reflect.Type),
	}
}

// registry keeps both directions in plain maps under a RWMutex; lookups
// dominate and both maps must change together.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards byType and byTag.
	mu sync.RWMutex
	// byType maps normalized types to tags.
	byType map[reflect.Type]ident.TypeTag
	// byTag is the reverse index.
	byTag map[ident.TypeTag]reflect.Type
}

// Register associates the nearest named type of t with tag.
// It is idempotent for the same (type, tag) pair.
func (r *registry) Register(t reflect.Type, tag ident.TypeTag) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if err := ident.ValidateWord(ident.FieldTypeTag, string(tag)); err != nil {
		return errors.Join(ErrInvalidTag, err)
	}

	// Normalize to the nearest named type according to r.cfg.
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byType[b]; ok {
		if old == tag {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}
	if _, ok := r.byTag[tag]; ok {
		return ErrTagTaken
	}

	r.byType[b] = tag
	r.byTag[tag] = b
	return nil
}

// Lookup returns the tag for a type if present.
func (r *registry) Lookup(t reflect.Type) (ident.TypeTag, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.byType[nt]
	return tag, ok
}

// LookupTag returns the type registered under tag.
func (r *registry) LookupTag(tag ident.TypeTag) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byTag[tag]
	return t, ok
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]apis.Entry, 0, len(r.byType))
	for t, tag := range r.byType {
		entries = append(entries, apis.Entry{Type: t, Tag: tag})
	}
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType)
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType = make(map[reflect.Type]ident.TypeTag)
	r.byTag = make(map[ident.TypeTag]reflect.Type)
}
