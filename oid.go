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


package oid

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/builder"
	"dirpx.dev/oid/concurrency"
	"dirpx.dev/oid/config"
	"dirpx.dev/oid/ident"
	"dirpx.dev/oid/marshal"
)

func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil)
	s.res = s.bld.BuildResolver(s.cfg, s.reg, nil)
	s.mar = marshal.New(s.cfg)
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("oid: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("oid: builder returned nil resolver")
	// ErrNoTypeTag is returned when no tag can be resolved for a value.
	ErrNoTypeTag = errors.New("oid: no type tag for value")
)

// Marshal renders o with the global marshaller, including the root version.
func Marshal(o ident.Oid) string {
	return st.Load().mar.Marshal(o)
}

// MarshalNoVersion renders o with the global marshaller, without version.
func MarshalNoVersion(o ident.Oid) string {
	return st.Load().mar.MarshalNoVersion(o)
}

// Unmarshal parses text with the global marshaller, honoring the global
// MaxDepth and MaxLength limits.
func Unmarshal(text string) (ident.Oid, error) {
	return st.Load().mar.Unmarshal(text)
}

// UnmarshalAs parses text and requires the given shape.
func UnmarshalAs(text string, want marshal.Shape) (ident.Oid, error) {
	return st.Load().mar.UnmarshalAs(text, want)
}

// UnmarshalRoot parses text that must encode a root identifier.
func UnmarshalRoot(text string) (ident.RootOid, error) {
	return st.Load().mar.UnmarshalRoot(text)
}

// Compare classifies reference against authoritative.
func Compare(reference, authoritative ident.RootOid) concurrency.Relation {
	return concurrency.Compare(reference, authoritative)
}

// Check returns nil when reference may be written over authoritative.
func Check(reference, authoritative ident.RootOid) error {
	return concurrency.Check(reference, authoritative)
}

// TypeTagOf resolves the type tag of v using the global resolver.
// It returns "" when nothing can be resolved.
func TypeTagOf(v any) ident.TypeTag {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// TypeTagOfType resolves the type tag of t using the global resolver.
func TypeTagOfType(t reflect.Type) ident.TypeTag {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// RegisterType binds t to tag in the global registry.
func RegisterType(t reflect.Type, tag ident.TypeTag) error {
	return st.Load().reg.Register(t, tag)
}

// RootOf builds a root identifier for the entity v, tagging it with the
// resolved type tag of v.
func RootOf(v any, identifier string, s ident.State) (ident.RootOid, error) {
	tag := TypeTagOf(v)
	if tag == "" {
		return ident.RootOid{}, fmt.Errorf("%w: %T", ErrNoTypeTag, v)
	}
	return ident.NewRoot(tag, identifier, s)
}

// Identify returns the persistent root of an entity that knows its own
// identifier.
func Identify(v apis.Identified) (ident.RootOid, error) {
	if v == nil {
		return ident.RootOid{}, fmt.Errorf("%w: nil entity", ErrNoTypeTag)
	}
	return RootOf(v, v.ObjectID(), ident.Persistent)
}

// Bookmark returns the unversioned text of the persistent root of v.
func Bookmark(v any, identifier string) (string, error) {
	r, err := RootOf(v, identifier, ident.Persistent)
	if err != nil {
		return "", err
	}
	return MarshalNoVersion(r), nil
}

// SetAll replaces every layer in one step. Nil arguments leave the
// corresponding layer unchanged, except that a nil reg or res is rebuilt
// through the builder and unpinned.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}

	next.reg, next.preg = reg, reg != nil
	if reg == nil {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}
	next.res, next.pres = res, res != nil
	if res == nil {
		next.res = next.bld.BuildResolver(next.cfg, next.reg, old.res)
	}
	publish(&next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the marshaller
// and every unpinned layer.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.cfg = cfg
	rebuild(&next)
	publish(&next)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry installs reg and pins it. An unpinned resolver is rebuilt
// on top of it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.reg, next.preg = reg, true
	if !next.pres {
		next.res = next.bld.BuildResolver(next.cfg, reg, next.res)
	}
	publish(&next)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs res and pins it.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.res, next.pres = res, true
	publish(&next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder installs b and rebuilds every unpinned layer with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.bld = b
	rebuild(&next)
	publish(&next)
}

// Marshaller returns the global marshaller.
func Marshaller() *marshal.Marshaller {
	return st.Load().mar
}

// IsRegistryPinned reports whether the registry survives rebuilds.
func IsRegistryPinned() bool { return st.Load().preg }

// IsResolverPinned reports whether the resolver survives rebuilds.
func IsResolverPinned() bool { return st.Load().pres }

// PinRegistry keeps the current registry across rebuilds.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the next rebuild replace the registry.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// PinResolver keeps the current resolver across rebuilds.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the next rebuild replace the resolver.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

func setPins(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	fn(&next)
	st.Store(&next)
}

// rebuild refreshes the unpinned layers of s in place. s is not yet published.
func rebuild(s *state) {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, s.reg)
	}
	if !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, s.res)
	}
}

// publish validates s, refreshes its marshaller and swaps it in.
// Callers hold buildMu.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	if s.mar == nil || s.mar.Config() != s.cfg {
		s.mar = marshal.New(s.cfg)
	}
	st.Store(s)
}

// buildMu serializes writers so a partially-built snapshot is never published.
var buildMu sync.Mutex

// st is the current snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot published through st. Writers copy it,
// change the copy and swap it in.
type state struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
	mar *marshal.Marshaller
	// preg and pres mark layers that rebuilds must keep.
	preg bool
	pres bool
}
