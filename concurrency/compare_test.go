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


package concurrency_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"dirpx.dev/oid/concurrency"
	"dirpx.dev/oid/ident"
)

func cus(t *testing.T, id string, st ident.State, seq ...uint64) ident.RootOid {
	t.Helper()
	r, err := ident.NewRoot("CUS", id, st)
	require.NoError(t, err)
	if len(seq) > 0 {
		v, err := ident.NewVersion(seq[0])
		require.NoError(t, err)
		r = r.WithVersion(v)
	}
	return r
}

func TestCompare(t *testing.T) {
	p := ident.Persistent
	tests := []struct {
		name string
		ref  ident.RootOid
		auth ident.RootOid
		want concurrency.Relation
	}{
		{"same version", cus(t, "123", p, 5), cus(t, "123", p, 5), concurrency.EquivalentUnchanged},
		{"newer version", cus(t, "123", p, 5), cus(t, "123", p, 9), concurrency.EquivalentChanged},
		{"older authoritative", cus(t, "123", p, 9), cus(t, "123", p, 5), concurrency.EquivalentChanged},
		{"reference without version", cus(t, "123", p), cus(t, "123", p, 9), concurrency.EquivalentNoVersionInfo},
		{"authoritative without version", cus(t, "123", p, 5), cus(t, "123", p), concurrency.EquivalentNoVersionInfo},
		{"neither versioned", cus(t, "123", p), cus(t, "123", p), concurrency.EquivalentNoVersionInfo},
		{"other identifier", cus(t, "123", p, 5), cus(t, "999", p, 5), concurrency.NotEquivalent},
		{"other state", cus(t, "123", ident.Transient, 5), cus(t, "123", p, 5), concurrency.NotEquivalent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, concurrency.Compare(tc.ref, tc.auth))
		})
	}

	otherTag, err := ident.NewPersistentRoot("ORD", "123")
	require.NoError(t, err)
	assert.Equal(t, concurrency.NotEquivalent, concurrency.Compare(cus(t, "123", p), otherTag))
}

func TestCompare_IgnoresUserAndTimestamp(t *testing.T) {
	base := cus(t, "1", ident.Persistent)
	a, err := ident.NewVersion(3, ident.WithUser("alice"), ident.WithUTCMillis(1))
	require.NoError(t, err)
	b, err := ident.NewVersion(3, ident.WithUser("bob"), ident.WithUTCMillis(2))
	require.NoError(t, err)
	assert.Equal(t, concurrency.EquivalentUnchanged, concurrency.Compare(base.WithVersion(a), base.WithVersion(b)))
}

func TestRelation(t *testing.T) {
	assert.False(t, concurrency.NotEquivalent.IsEquivalent())
	assert.True(t, concurrency.EquivalentChanged.IsEquivalent())
	assert.Equal(t, "EquivalentNoVersionInfo", concurrency.EquivalentNoVersionInfo.String())
	assert.Equal(t, "Unknown", concurrency.Relation(42).String())
}

func TestCheck(t *testing.T) {
	p := ident.Persistent
	assert.NoError(t, concurrency.Check(cus(t, "1", p, 2), cus(t, "1", p, 2)))
	assert.NoError(t, concurrency.Check(cus(t, "1", p), cus(t, "1", p, 2)))

	err := concurrency.Check(cus(t, "1", p, 2), cus(t, "1", p, 3))
	require.Error(t, err)
	assert.ErrorIs(t, err, concurrency.ErrConcurrentModification)
	var ce *concurrency.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Error(), "read at 2, now 3")

	err = concurrency.Check(cus(t, "1", p, 2), cus(t, "2", p, 2))
	assert.ErrorIs(t, err, concurrency.ErrNotEquivalent)
	assert.NotErrorIs(t, err, concurrency.ErrConcurrentModification)
}

func TestProperty_CompareSymmetricClassification(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r, err := ident.NewPersistentRoot("CUS", rapid.StringMatching(`[a-z0-9]{1,6}`).Draw(t, "id"))
		if err != nil {
			t.Fatalf("NewPersistentRoot: %v", err)
		}
		s1 := rapid.Uint64().Draw(t, "s1")
		s2 := rapid.Uint64().Draw(t, "s2")
		v1, _ := ident.NewVersion(s1)
		v2, _ := ident.NewVersion(s2)

		ab := concurrency.Compare(r.WithVersion(v1), r.WithVersion(v2))
		ba := concurrency.Compare(r.WithVersion(v2), r.WithVersion(v1))
		if ab != ba {
			t.Fatalf("Compare not symmetric: %v vs %v", ab, ba)
		}
		if (s1 == s2) != (ab == concurrency.EquivalentUnchanged) {
			t.Fatalf("seq %d vs %d classified as %v", s1, s2, ab)
		}
	})
}
