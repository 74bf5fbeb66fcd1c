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

package marshal_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/oid/config"
	"dirpx.dev/oid/ident"
	"dirpx.dev/oid/marshal"
)

func root(t *testing.T, id string, st ident.State) ident.RootOid {
	t.Helper()
	r, err := ident.NewRoot("CUS", id, st)
	require.NoError(t, err)
	return r
}

func TestMarshal_Forms(t *testing.T) {
	persistent := root(t, "123", ident.Persistent)
	transient := root(t, "123", ident.Transient)

	items, err := persistent.Collection("items")
	require.NoError(t, err)
	nme, err := persistent.Aggregate("NME", "2")
	require.NoError(t, err)
	cty, err := nme.Aggregate("CTY", "LON")
	require.NoError(t, err)
	streets, err := nme.Collection("streets")
	require.NoError(t, err)
	v, err := ident.NewVersion(42, ident.WithUser("alice"), ident.WithUTCMillis(1690000000000))
	require.NoError(t, err)

	tests := []struct {
		name string
		oid  ident.Oid
		want string
	}{
		{"persistent root", persistent, "CUS:123"},
		{"transient root", transient, "!CUS:123"},
		{"collection of root", items, "CUS:123$items"},
		{"aggregate", nme, "CUS:123~NME:2"},
		{"doubly nested", cty, "CUS:123~NME:2~CTY:LON"},
		{"collection of aggregate", streets, "CUS:123~NME:2$streets"},
		{"versioned root", persistent.WithVersion(v), "CUS:123^42:alice:1690000000000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, marshal.Marshal(tc.oid))

			got, err := marshal.Unmarshal(tc.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.oid), "got %v, want %v", got, tc.oid)
			assert.Equal(t, tc.oid.Hash(), got.Hash())
		})
	}
}

func TestMarshalNoVersion_OmitsVersion(t *testing.T) {
	v, err := ident.NewVersion(7)
	require.NoError(t, err)
	r := root(t, "1", ident.Persistent).WithVersion(v)
	agg, err := r.Aggregate("NME", "2")
	require.NoError(t, err)

	assert.Equal(t, "CUS:1", marshal.MarshalNoVersion(r))
	assert.Equal(t, "CUS:1^7::", marshal.Marshal(r))
	assert.Equal(t, "CUS:1~NME:2", marshal.MarshalNoVersion(agg))
	assert.Equal(t, "CUS:1~NME:2^7::", marshal.Marshal(agg))
	assert.Equal(t, "", marshal.Marshal(nil))

	m := marshal.Default()
	assert.Equal(t, "CUS:1^7::", m.MarshalWith(r, true))
	assert.Equal(t, "CUS:1", m.MarshalWith(r, false))
}

func TestUnmarshal_NestingDepth(t *testing.T) {
	got, err := marshal.Unmarshal("CUS:1~NME:2~CTY:3$items")
	require.NoError(t, err)

	coll, ok := got.(ident.CollectionOid)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "items", coll.Name())

	inner, ok := coll.Parent().(ident.AggregatedOid)
	require.True(t, ok)
	assert.Equal(t, "3", inner.LocalID())
	assert.Equal(t, ident.TypeTag("CTY"), inner.TypeTag())

	outer, ok := inner.Parent().(ident.AggregatedOid)
	require.True(t, ok)
	assert.Equal(t, "2", outer.LocalID())
	assert.Equal(t, ident.TypeTag("NME"), outer.TypeTag())

	r, ok := outer.Parent().(ident.RootOid)
	require.True(t, ok)
	assert.Equal(t, ident.TypeTag("CUS"), r.TypeTag())
	assert.Equal(t, "1", r.Identifier())
	assert.False(t, r.IsTransient())
}

func TestUnmarshal_VersionAttachesToRoot(t *testing.T) {
	got, err := marshal.Unmarshal("!CUS:1~NME:2$items^9:bob:")
	require.NoError(t, err)
	assert.True(t, got.IsTransient())

	v, ok := got.Root().Version()
	require.True(t, ok)
	assert.Equal(t, uint64(9), v.Sequence())
	user, ok := v.User()
	assert.True(t, ok)
	assert.Equal(t, "bob", user)
	_, ok = v.UTCMillis()
	assert.False(t, ok)

	// versions are written once, after the whole chain
	assert.Equal(t, "!CUS:1~NME:2$items^9:bob:", marshal.Marshal(got))
}

func TestUnmarshal_VersionParts(t *testing.T) {
	tests := []struct {
		in      string
		seq     uint64
		user    string
		hasUser bool
		utc     uint64
		hasUTC  bool
	}{
		{"CUS:1^0::", 0, "", false, 0, false},
		{"CUS:1^5:alice:", 5, "alice", true, 0, false},
		{"CUS:1^5::1690000000000", 5, "", false, 1690000000000, true},
		{"CUS:1^18446744073709551615:u:0", 18446744073709551615, "u", true, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			r, err := marshal.UnmarshalRoot(tc.in)
			require.NoError(t, err)
			v, ok := r.Version()
			require.True(t, ok)
			assert.Equal(t, tc.seq, v.Sequence())
			u, ok := v.User()
			assert.Equal(t, tc.hasUser, ok)
			assert.Equal(t, tc.user, u)
			ms, ok := v.UTCMillis()
			assert.Equal(t, tc.hasUTC, ok)
			assert.Equal(t, tc.utc, ms)
			assert.Equal(t, tc.in, marshal.Marshal(r))
		})
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"CUS",
		"CUS:",
		":123",
		"CUS:123#bad",
		"CUS:123~BAD",
		"CUS:123~BAD:",
		"CUS:123~:1",
		"CUS:123$",
		"CUS:123$items~NME:2",
		"CUS:123$items$more",
		"CUS:123^",
		"CUS:123^x::",
		"CUS:123^1",
		"CUS:123^1:",
		"CUS:123^1:u:x",
		"CUS:123^1:u:1:",
		"CUS:123^18446744073709551616::",
		"CUS:123^1::^2::",
		"!!CUS:123",
		"CUS!:123",
		"CUS:1!23",
		"CUS:12@3",
		" CUS:123x:",
		"CUS:1:2",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := marshal.Unmarshal(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, marshal.ErrMalformed)
			assert.NotErrorIs(t, err, marshal.ErrTypeMismatch)

			var pe *marshal.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, marshal.Malformed, pe.Kind)
			assert.NotEmpty(t, pe.Reason)
		})
	}
}

func TestUnmarshal_MalformedOffset(t *testing.T) {
	_, err := marshal.Unmarshal("CUS:123#bad")
	var pe *marshal.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 7, pe.Offset)
	assert.Contains(t, err.Error(), "offset 7")
}

func TestUnmarshalAs_TypeMismatch(t *testing.T) {
	tests := []struct {
		in   string
		want marshal.Shape
		got  marshal.Shape
	}{
		{"CUS:123", marshal.ShapeCollection, marshal.ShapeRoot},
		{"CUS:123$items", marshal.ShapeRoot, marshal.ShapeCollection},
		{"CUS:123~NME:2", marshal.ShapeCollection, marshal.ShapeAggregated},
		{"CUS:123~NME:2$x", marshal.ShapeAggregated, marshal.ShapeCollection},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			o, err := marshal.UnmarshalAs(tc.in, tc.want)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, marshal.ErrTypeMismatch)
			var pe *marshal.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.want, pe.Want)
			assert.Equal(t, tc.got, pe.Got)
		})
	}

	o, err := marshal.UnmarshalAs("CUS:123$items", marshal.ShapeCollection)
	require.NoError(t, err)
	assert.Equal(t, ident.KindCollection, o.Kind())

	// malformed text stays malformed whatever shape is requested
	_, err = marshal.UnmarshalAs("CUS", marshal.ShapeRoot)
	assert.ErrorIs(t, err, marshal.ErrMalformed)
}

func TestTypedHelpers(t *testing.T) {
	m := marshal.Default()

	r, err := m.UnmarshalRoot("!CUS:1")
	require.NoError(t, err)
	assert.True(t, r.IsTransient())

	a, err := m.UnmarshalAggregated("CUS:1~NME:2")
	require.NoError(t, err)
	assert.Equal(t, "2", a.LocalID())

	c, err := m.UnmarshalCollection("CUS:1$items")
	require.NoError(t, err)
	assert.Equal(t, "items", c.Name())

	_, err = m.UnmarshalRoot("CUS:1$items")
	assert.ErrorIs(t, err, marshal.ErrTypeMismatch)

	_, err = marshal.As[ident.AggregatedOid](nil, "CUS:1")
	assert.ErrorIs(t, err, marshal.ErrTypeMismatch)
}

func TestLimits(t *testing.T) {
	m := marshal.New(config.NewConfig(config.WithMaxDepth(2), config.WithMaxLength(32)))

	_, err := m.Unmarshal("CUS:1~A:1~B:2")
	require.NoError(t, err)

	_, err = m.Unmarshal("CUS:1~A:1~B:2~C:3")
	assert.ErrorIs(t, err, marshal.ErrMalformed)
	assert.Contains(t, err.Error(), "nesting deeper than 2")

	_, err = m.Unmarshal("CUS:" + strings.Repeat("9", 40))
	assert.ErrorIs(t, err, marshal.ErrMalformed)
	assert.Contains(t, err.Error(), "longer than 32 bytes")

	assert.Equal(t, 2, m.Config().MaxDepth)
}

func TestParseError_TruncatesInput(t *testing.T) {
	long := "CUS:" + strings.Repeat("x", 200) + "#"
	_, err := marshal.Unmarshal(long)
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 200)
}

func TestBookmark_JSON(t *testing.T) {
	v, err := ident.NewVersion(3, ident.WithUser("alice"))
	require.NoError(t, err)
	agg, err := root(t, "1", ident.Persistent).WithVersion(v).Aggregate("NME", "2")
	require.NoError(t, err)

	type doc struct {
		Ref  marshal.Bookmark `json:"ref"`
		Prev marshal.Bookmark `json:"prev"`
	}
	data, err := json.Marshal(doc{Ref: marshal.NewBookmark(agg)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"CUS:1~NME:2^3:alice:","prev":""}`, string(data))

	var back doc
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Ref.Oid.Equal(agg))
	assert.True(t, back.Prev.IsZero())
	assert.Equal(t, "CUS:1~NME:2^3:alice:", back.Ref.String())

	err = json.Unmarshal([]byte(`{"ref":"CUS"}`), &back)
	assert.ErrorIs(t, err, marshal.ErrMalformed)
}

func TestShape(t *testing.T) {
	assert.Equal(t, marshal.ShapeAny, marshal.ShapeOf(nil))
	assert.True(t, marshal.ShapeAny.Matches(root(t, "1", ident.Persistent)))
	assert.Equal(t, "collection", marshal.ShapeCollection.String())
}
