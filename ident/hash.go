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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// hasher accumulates the equality fields of an identifier.
// Strings are length-prefixed so ("ab","c") and ("a","bc") differ.
type hasher struct {
	d *xxhash.Digest
}

func newHasher(k Kind) hasher {
	h := hasher{d: xxhash.New()}
	_, _ = h.d.Write([]byte{byte(k)})
	return h
}

func (h hasher) str(s string) hasher {
	h.u64(uint64(len(s)))
	_, _ = h.d.WriteString(s)
	return h
}

func (h hasher) u64(v uint64) hasher {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = h.d.Write(b[:])
	return h
}

func (h hasher) sum() uint64 { return h.d.Sum64() }

func hashUint(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return xxhash.Sum64(b[:])
}
