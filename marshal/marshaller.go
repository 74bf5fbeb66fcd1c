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
	"strconv"
	"strings"

	"dirpx.dev/oid/apis"
	"dirpx.dev/oid/config"
	"dirpx.dev/oid/ident"
)

const reservedSet = ident.Reserved

// Marshaller converts identifiers to and from their textual form.
// It is immutable and safe for concurrent use.
type Marshaller struct {
	cfg apis.Config
}

// New returns a Marshaller bounded by cfg.MaxDepth and cfg.MaxLength.
func New(cfg apis.Config) *Marshaller {
	return &Marshaller{cfg: cfg}
}

var std = New(config.DefaultConfig())

// Default returns the Marshaller with the default configuration.
func Default() *Marshaller { return std }

// Config returns the configuration m was built with.
func (m *Marshaller) Config() apis.Config { return m.cfg }

// Marshal renders o including the version of its root, if any.
func (m *Marshaller) Marshal(o ident.Oid) string {
	return m.MarshalWith(o, true)
}

// MarshalNoVersion renders o without a version suffix.
func (m *Marshaller) MarshalNoVersion(o ident.Oid) string {
	return m.MarshalWith(o, false)
}

// MarshalWith renders o, appending the root's version when includeVersion
// is set and the root carries one. It never fails; a nil o yields "".
func (m *Marshaller) MarshalWith(o ident.Oid, includeVersion bool) string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	for _, step := range ident.Path(o) {
		switch v := step.(type) {
		case ident.RootOid:
			if v.IsTransient() {
				b.WriteByte(TransientMarker)
			}
			b.WriteString(string(v.TypeTag()))
			b.WriteByte(TagSeparator)
			b.WriteString(v.Identifier())
		case ident.AggregatedOid:
			b.WriteByte(NestingMarker)
			b.WriteString(string(v.TypeTag()))
			b.WriteByte(TagSeparator)
			b.WriteString(v.LocalID())
		case ident.CollectionOid:
			b.WriteByte(CollectionMarker)
			b.WriteString(v.Name())
		}
	}
	if includeVersion {
		if v, ok := o.Root().Version(); ok {
			writeVersion(&b, v)
		}
	}
	return b.String()
}

func writeVersion(b *strings.Builder, v ident.Version) {
	b.WriteByte(VersionMarker)
	b.WriteString(strconv.FormatUint(v.Sequence(), 10))
	b.WriteByte(TagSeparator)
	if u, ok := v.User(); ok {
		b.WriteString(u)
	}
	b.WriteByte(TagSeparator)
	if ms, ok := v.UTCMillis(); ok {
		b.WriteString(strconv.FormatUint(ms, 10))
	}
}

// Unmarshal parses text into whichever variant it encodes.
func (m *Marshaller) Unmarshal(text string) (ident.Oid, error) {
	return m.UnmarshalAs(text, ShapeAny)
}

// UnmarshalAs parses text and requires the result to have the given shape.
func (m *Marshaller) UnmarshalAs(text string, want Shape) (ident.Oid, error) {
	if m.cfg.MaxLength > 0 && len(text) > m.cfg.MaxLength {
		return nil, &ParseError{
			Kind:   Malformed,
			Input:  text,
			Offset: m.cfg.MaxLength,
			Reason: "input longer than " + strconv.Itoa(m.cfg.MaxLength) + " bytes",
		}
	}

	sc := scanner{s: text, maxDepth: m.cfg.MaxDepth}
	syn, err := sc.scan()
	if err != nil {
		var se *scanError
		if errors.As(err, &se) {
			return nil, &ParseError{Kind: Malformed, Input: text, Offset: se.offset, Reason: se.reason}
		}
		return nil, &ParseError{Kind: Malformed, Input: text, Reason: err.Error(), Err: err}
	}

	o, err := build(syn)
	if err != nil {
		// Scanned words exclude reserved characters, so this only triggers
		// if construction rules become stricter than the grammar.
		return nil, &ParseError{Kind: Malformed, Input: text, Reason: err.Error(), Err: err}
	}

	if !want.Matches(o) {
		return nil, &ParseError{Kind: TypeMismatch, Input: text, Want: want, Got: ShapeOf(o)}
	}
	return o, nil
}

// build turns scanned syntax into identifiers, re-validating every word
// through the ident constructors. The version goes onto the root before
// the chain is assembled since values are immutable.
func build(syn syntax) (ident.Oid, error) {
	state := ident.Persistent
	if syn.transient {
		state = ident.Transient
	}
	root, err := ident.NewRoot(ident.TypeTag(syn.tag), syn.id, state)
	if err != nil {
		return nil, err
	}
	if syn.hasVersion {
		opts := []ident.VersionOption{ident.WithUser(syn.version.user)}
		if syn.version.hasUTC {
			opts = append(opts, ident.WithUTCMillis(syn.version.utc))
		}
		v, err := ident.NewVersion(syn.version.seq, opts...)
		if err != nil {
			return nil, err
		}
		root = root.WithVersion(v)
	}

	var cur ident.Oid = root
	for _, seg := range syn.nesting {
		a, err := ident.NewAggregated(cur, ident.TypeTag(seg.tag), seg.local)
		if err != nil {
			return nil, err
		}
		cur = a
	}
	if syn.hasColl {
		c, err := ident.NewCollection(cur, syn.collection)
		if err != nil {
			return nil, err
		}
		cur = c
	}
	return cur, nil
}

// UnmarshalRoot parses text that must encode a RootOid.
func (m *Marshaller) UnmarshalRoot(text string) (ident.RootOid, error) {
	return As[ident.RootOid](m, text)
}

// UnmarshalAggregated parses text that must encode an AggregatedOid.
func (m *Marshaller) UnmarshalAggregated(text string) (ident.AggregatedOid, error) {
	return As[ident.AggregatedOid](m, text)
}

// UnmarshalCollection parses text that must encode a CollectionOid.
func (m *Marshaller) UnmarshalCollection(text string) (ident.CollectionOid, error) {
	return As[ident.CollectionOid](m, text)
}

// As parses text with m and requires the variant T.
func As[T ident.Oid](m *Marshaller, text string) (T, error) {
	var zero T
	if m == nil {
		m = std
	}
	o, err := m.Unmarshal(text)
	if err != nil {
		return zero, err
	}
	t, ok := o.(T)
	if !ok {
		return zero, &ParseError{Kind: TypeMismatch, Input: text, Want: ShapeOf(zero), Got: ShapeOf(o)}
	}
	return t, nil
}

// Marshal renders o with the default Marshaller, including the root version.
func Marshal(o ident.Oid) string { return std.Marshal(o) }

// MarshalNoVersion renders o with the default Marshaller, without version.
func MarshalNoVersion(o ident.Oid) string { return std.MarshalNoVersion(o) }

// Unmarshal parses text with the default Marshaller.
func Unmarshal(text string) (ident.Oid, error) { return std.Unmarshal(text) }

// UnmarshalAs parses text with the default Marshaller and checks its shape.
func UnmarshalAs(text string, want Shape) (ident.Oid, error) { return std.UnmarshalAs(text, want) }

// UnmarshalRoot parses a RootOid with the default Marshaller.
func UnmarshalRoot(text string) (ident.RootOid, error) { return std.UnmarshalRoot(text) }
