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

import "sync"

// Map associates values with identifiers under content equality: two roots
// that differ only in version address the same entry. Safe for concurrent use.
type Map[V any] struct {
	// mu guards buckets and n.
	mu sync.RWMutex
	// buckets groups entries by Hash.
	buckets map[uint64][]mapEntry[V]
	// n is the number of entries.
	n int
}

type mapEntry[V any] struct {
	key Oid
	val V
}

// NewMap returns an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{buckets: make(map[uint64][]mapEntry[V])}
}

// Put stores v under k. An equal key already present is replaced, together
// with its value. It reports whether an entry was replaced.
func (m *Map[V]) Put(k Oid, v V) bool {
	if k == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets == nil {
		m.buckets = make(map[uint64][]mapEntry[V])
	}
	h := k.Hash()
	b := m.buckets[h]
	for i := range b {
		if b[i].key.Equal(k) {
			b[i] = mapEntry[V]{key: k, val: v}
			return true
		}
	}
	m.buckets[h] = append(b, mapEntry[V]{key: k, val: v})
	m.n++
	return false
}

// Get returns the value stored under a key equal to k.
func (m *Map[V]) Get(k Oid) (V, bool) {
	var zero V
	if k == nil {
		return zero, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.buckets[k.Hash()] {
		if e.key.Equal(k) {
			return e.val, true
		}
	}
	return zero, false
}

// Key returns the stored key equal to k. Useful to recover the version a
// root was stored with.
func (m *Map[V]) Key(k Oid) (Oid, bool) {
	if k == nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.buckets[k.Hash()] {
		if e.key.Equal(k) {
			return e.key, true
		}
	}
	return nil, false
}

// Delete removes the entry equal to k and reports whether one existed.
func (m *Map[V]) Delete(k Oid) bool {
	if k == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h := k.Hash()
	b := m.buckets[h]
	for i := range b {
		if b[i].key.Equal(k) {
			b = append(b[:i], b[i+1:]...)
			if len(b) == 0 {
				delete(m.buckets, h)
			} else {
				m.buckets[h] = b
			}
			m.n--
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.n
}

// Range calls fn for each entry until fn returns false. Order is unspecified.
// fn must not modify m.
func (m *Map[V]) Range(fn func(k Oid, v V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.buckets {
		for _, e := range b {
			if !fn(e.key, e.val) {
				return
			}
		}
	}
}
