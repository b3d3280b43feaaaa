// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolver

import "sort"

// orderedMap is a persistent, sorted-slice-backed map. Every mutating method
// returns a new orderedMap and leaves the receiver untouched, so a cloned
// orderedMap shares its backing array with its predecessor until one of them
// is mutated again (classic copy-on-write).
//
// The solver depends on deterministic iteration order (lowest key first,
// or reversed by the caller for "highest first" policies) to make two
// resolutions of the same input produce byte-identical diagnostics. Go's
// built-in map gives none of that, hence this type.
type orderedMap[K any, V any] struct {
	less    func(a, b K) bool
	entries []orderedEntry[K, V]
}

type orderedEntry[K any, V any] struct {
	key K
	val V
}

func newOrderedMap[K any, V any](less func(a, b K) bool) orderedMap[K, V] {
	return orderedMap[K, V]{less: less}
}

func (m orderedMap[K, V]) search(key K) (int, bool) {
	n := len(m.entries)
	i := sort.Search(n, func(i int) bool {
		return !m.less(m.entries[i].key, key)
	})
	if i < n && !m.less(key, m.entries[i].key) {
		return i, true
	}
	return i, false
}

// Len returns the number of entries.
func (m orderedMap[K, V]) Len() int {
	return len(m.entries)
}

// Get returns the value for key, if present.
func (m orderedMap[K, V]) Get(key K) (V, bool) {
	i, ok := m.search(key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].val, true
}

// Has reports whether key is present.
func (m orderedMap[K, V]) Has(key K) bool {
	_, ok := m.search(key)
	return ok
}

// Insert returns a copy of m with key bound to val.
func (m orderedMap[K, V]) Insert(key K, val V) orderedMap[K, V] {
	i, ok := m.search(key)
	out := make([]orderedEntry[K, V], len(m.entries), len(m.entries)+1)
	copy(out, m.entries)
	if ok {
		out[i] = orderedEntry[K, V]{key, val}
		return orderedMap[K, V]{less: m.less, entries: out}
	}
	out = append(out, orderedEntry[K, V]{})
	copy(out[i+1:], out[i:len(out)-1])
	out[i] = orderedEntry[K, V]{key, val}
	return orderedMap[K, V]{less: m.less, entries: out}
}

// Remove returns a copy of m without key. If key is absent, returns m
// unchanged (same backing array).
func (m orderedMap[K, V]) Remove(key K) orderedMap[K, V] {
	i, ok := m.search(key)
	if !ok {
		return m
	}
	out := make([]orderedEntry[K, V], 0, len(m.entries)-1)
	out = append(out, m.entries[:i]...)
	out = append(out, m.entries[i+1:]...)
	return orderedMap[K, V]{less: m.less, entries: out}
}

// Keys returns the keys in ascending order.
func (m orderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.key
	}
	return out
}

// Each calls fn for every entry in ascending key order, stopping early if
// fn returns false.
func (m orderedMap[K, V]) Each(fn func(key K, val V) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}

// EachReverse calls fn for every entry in descending key order, stopping
// early if fn returns false.
func (m orderedMap[K, V]) EachReverse(fn func(key K, val V) bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if !fn(e.key, e.val) {
			return
		}
	}
}

// Min returns the lowest-keyed entry.
func (m orderedMap[K, V]) Min() (K, V, bool) {
	if len(m.entries) == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	e := m.entries[0]
	return e.key, e.val, true
}

// WithoutMin returns (key, val, rest, true) for the lowest-keyed entry, or
// (_, _, m, false) if m is empty.
func (m orderedMap[K, V]) WithoutMin() (K, V, orderedMap[K, V], bool) {
	if len(m.entries) == 0 {
		var zk K
		var zv V
		return zk, zv, m, false
	}
	e := m.entries[0]
	rest := orderedMap[K, V]{less: m.less, entries: m.entries[1:]}
	return e.key, e.val, rest, true
}

// Max returns the highest-keyed entry. Constraint uses this to implement
// the "prefer highest version" policy without re-sorting.
func (m orderedMap[K, V]) Max() (K, V, bool) {
	if len(m.entries) == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	e := m.entries[len(m.entries)-1]
	return e.key, e.val, true
}
