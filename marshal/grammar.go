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
	"strconv"
	"strings"
)

// Grammar separators.
const (
	TransientMarker  = '!'
	TagSeparator     = ':'
	NestingMarker    = '~'
	CollectionMarker = '$'
	VersionMarker    = '^'
)

// segment is one "~tag:local" nesting step.
type segment struct {
	tag   string
	local string
}

// versionText is the decoded "^seq:user:utc" suffix.
type versionText struct {
	seq    uint64
	user   string
	utc    uint64
	hasUTC bool
}

// syntax is the result of scanning, before any identifier is built.
//
//	oid        := root nesting* collection? version?
//	root       := ["!"] word ":" word
//	nesting    := "~" word ":" word
//	collection := "$" word
//	version    := "^" digits ":" word? ":" digits?
type syntax struct {
	transient  bool
	tag        string
	id         string
	nesting    []segment
	collection string
	hasColl    bool
	version    versionText
	hasVersion bool
}

// scanner is a single-pass, left-to-right matcher over the whole input.
type scanner struct {
	s        string
	pos      int
	maxDepth int
}

// scanError carries the offset and reason of the first violation.
type scanError struct {
	offset int
	reason string
}

func (e *scanError) Error() string { return e.reason }

func (sc *scanner) fail(reason string) error {
	return &scanError{offset: sc.pos, reason: reason}
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.s[sc.pos]
}

// accept consumes c if it is next.
func (sc *scanner) accept(c byte) bool {
	if !sc.eof() && sc.s[sc.pos] == c {
		sc.pos++
		return true
	}
	return false
}

func (sc *scanner) expect(c byte) error {
	if sc.accept(c) {
		return nil
	}
	if sc.eof() {
		return sc.fail("expected '" + string(c) + "', got end of input")
	}
	return sc.fail("expected '" + string(c) + "', got '" + string(sc.s[sc.pos]) + "'")
}

// word consumes one or more non-reserved bytes.
func (sc *scanner) word(what string) (string, error) {
	start := sc.pos
	for !sc.eof() && !reserved(sc.s[sc.pos]) {
		sc.pos++
	}
	if sc.pos == start {
		return "", sc.fail("expected " + what)
	}
	return sc.s[start:sc.pos], nil
}

// optWord is word without the non-empty requirement.
func (sc *scanner) optWord() string {
	start := sc.pos
	for !sc.eof() && !reserved(sc.s[sc.pos]) {
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

// digits consumes one or more decimal digits and parses them as uint64.
func (sc *scanner) digits(what string) (uint64, error) {
	start := sc.pos
	for !sc.eof() && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
		sc.pos++
	}
	if sc.pos == start {
		return 0, sc.fail("expected " + what)
	}
	n, err := strconv.ParseUint(sc.s[start:sc.pos], 10, 64)
	if err != nil {
		sc.pos = start
		return 0, sc.fail(what + " out of range")
	}
	return n, nil
}

// scan matches the whole input against the grammar.
func (sc *scanner) scan() (syntax, error) {
	var out syntax
	var err error

	out.transient = sc.accept(TransientMarker)
	if out.tag, err = sc.word("type tag"); err != nil {
		return out, err
	}
	if err = sc.expect(TagSeparator); err != nil {
		return out, err
	}
	if out.id, err = sc.word("identifier"); err != nil {
		return out, err
	}

	for sc.accept(NestingMarker) {
		if sc.maxDepth > 0 && len(out.nesting) >= sc.maxDepth {
			sc.pos--
			return out, sc.fail("nesting deeper than " + strconv.Itoa(sc.maxDepth))
		}
		var seg segment
		if seg.tag, err = sc.word("aggregate type tag"); err != nil {
			return out, err
		}
		if err = sc.expect(TagSeparator); err != nil {
			return out, err
		}
		if seg.local, err = sc.word("aggregate local id"); err != nil {
			return out, err
		}
		out.nesting = append(out.nesting, seg)
	}

	if sc.accept(CollectionMarker) {
		if out.collection, err = sc.word("collection name"); err != nil {
			return out, err
		}
		out.hasColl = true
	}

	if sc.accept(VersionMarker) {
		if out.version.seq, err = sc.digits("version sequence"); err != nil {
			return out, err
		}
		if err = sc.expect(TagSeparator); err != nil {
			return out, err
		}
		out.version.user = sc.optWord()
		if err = sc.expect(TagSeparator); err != nil {
			return out, err
		}
		if !sc.eof() {
			if out.version.utc, err = sc.digits("version timestamp"); err != nil {
				return out, err
			}
			out.version.hasUTC = true
		}
		out.hasVersion = true
	}

	if !sc.eof() {
		return out, sc.fail("unexpected '" + string(sc.peek()) + "'")
	}
	return out, nil
}

// reserved reports whether c may not appear inside a word.
func reserved(c byte) bool {
	return strings.IndexByte(reservedSet, c) >= 0
}
