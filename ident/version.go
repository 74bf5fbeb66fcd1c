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
	"strconv"
	"time"
)

// State tells whether an object has been durably stored.
type State uint8

const (
	// Persistent objects have a durable identifier.
	Persistent State = iota
	// Transient objects have not been stored yet.
	Transient
)

// String returns "persistent" or "transient".
func (s State) String() string {
	if s == Transient {
		return "transient"
	}
	return "persistent"
}

// Version is an optimistic-concurrency stamp attached to a RootOid.
//
// Only Sequence takes part in equality and hashing; User and the timestamp
// are informational. The zero Version has sequence 0 and no optional parts.
type Version struct {
	seq    uint64
	user   string
	utc    uint64
	hasUTC bool
}

// VersionOption configures optional parts of a Version.
type VersionOption func(*Version)

// WithUser records the user that produced the version.
// An empty user leaves the field absent.
func WithUser(user string) VersionOption {
	return func(v *Version) {
		v.user = user
	}
}

// WithUTCMillis records the version timestamp as milliseconds since the Unix epoch.
func WithUTCMillis(ms uint64) VersionOption {
	return func(v *Version) {
		v.utc = ms
		v.hasUTC = true
	}
}

// WithTime records the version timestamp. A zero or pre-epoch time is ignored.
func WithTime(t time.Time) VersionOption {
	return func(v *Version) {
		if t.IsZero() || t.UnixMilli() < 0 {
			return
		}
		v.utc = uint64(t.UnixMilli())
		v.hasUTC = true
	}
}

// NewVersion builds a Version at sequence seq. The user, when present, must
// be a valid word since it is written verbatim into the textual form.
func NewVersion(seq uint64, opts ...VersionOption) (Version, error) {
	v := Version{seq: seq}
	for _, opt := range opts {
		opt(&v)
	}
	if v.user != "" {
		if err := ValidateWord(FieldVersionUser, v.user); err != nil {
			return Version{}, err
		}
	}
	return v, nil
}

// Sequence returns the monotonic sequence number.
func (v Version) Sequence() uint64 { return v.seq }

// User returns the user and whether one was recorded.
func (v Version) User() (string, bool) { return v.user, v.user != "" }

// UTCMillis returns the timestamp in epoch milliseconds and whether one was recorded.
func (v Version) UTCMillis() (uint64, bool) { return v.utc, v.hasUTC }

// Time returns the timestamp as a UTC time.Time and whether one was recorded.
func (v Version) Time() (time.Time, bool) {
	if !v.hasUTC {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(v.utc)).UTC(), true
}

// Equal compares sequences only.
func (v Version) Equal(o Version) bool { return v.seq == o.seq }

// Identical compares every field. Used where a version must survive a
// round-trip unchanged, not just compare equal.
func (v Version) Identical(o Version) bool {
	return v.seq == o.seq && v.user == o.user && v.hasUTC == o.hasUTC && v.utc == o.utc
}

// Hash is consistent with Equal.
func (v Version) Hash() uint64 { return hashUint(v.seq) }

// Next returns the version that follows v, stamped with user and at.
// The user is dropped when it is not a valid word.
func (v Version) Next(user string, at time.Time) Version {
	n := Version{seq: v.seq + 1}
	if IsWord(user) {
		n.user = user
	}
	WithTime(at)(&n)
	return n
}

// String renders the version for diagnostics, e.g. "42 by alice at 1690000000000".
func (v Version) String() string {
	s := strconv.FormatUint(v.seq, 10)
	if v.user != "" {
		s += " by " + v.user
	}
	if v.hasUTC {
		s += " at " + strconv.FormatUint(v.utc, 10)
	}
	return s
}
