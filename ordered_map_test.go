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

import (
	"testing"
)

func intLess(a, b int) bool { return a < b }

func TestOrderedMapInsertAndGet(t *testing.T) {
	m := newOrderedMap[int, string](intLess)
	m = m.Insert(3, "three")
	m = m.Insert(1, "one")
	m = m.Insert(2, "two")

	v, ok := m.Get(2)
	if !ok || v != "two" {
		t.Fatalf("expected to find 2 -> two, got %q, %v", v, ok)
	}
	if m.Len() != 3 {
		t.Fatalf("expected length 3, got %d", m.Len())
	}
}

func TestOrderedMapKeysAreSorted(t *testing.T) {
	m := newOrderedMap[int, string](intLess)
	for _, k := range []int{5, 1, 3, 2, 4} {
		m = m.Insert(k, "")
	}
	keys := m.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("expected ascending keys, got %v", keys)
		}
	}
}

func TestOrderedMapIsPersistent(t *testing.T) {
	base := newOrderedMap[int, string](intLess).Insert(1, "a")
	extended := base.Insert(2, "b")

	if base.Has(2) {
		t.Fatalf("expected base to be unaffected by extending a derived map")
	}
	if !extended.Has(1) || !extended.Has(2) {
		t.Fatalf("expected extended map to contain both keys")
	}
}

func TestOrderedMapRemove(t *testing.T) {
	m := newOrderedMap[int, string](intLess).Insert(1, "a").Insert(2, "b")
	removed := m.Remove(1)

	if removed.Has(1) {
		t.Fatalf("expected key 1 to be gone after Remove")
	}
	if !m.Has(1) {
		t.Fatalf("expected original map to be unaffected by Remove")
	}
}

func TestOrderedMapRemoveAbsentKeyIsNoop(t *testing.T) {
	m := newOrderedMap[int, string](intLess).Insert(1, "a")
	same := m.Remove(99)
	if same.Len() != 1 {
		t.Fatalf("expected removing an absent key to leave length unchanged")
	}
}

func TestOrderedMapMinAndMax(t *testing.T) {
	m := newOrderedMap[int, string](intLess)
	if _, _, ok := m.Min(); ok {
		t.Fatalf("expected Min() to fail on empty map")
	}
	if _, _, ok := m.Max(); ok {
		t.Fatalf("expected Max() to fail on empty map")
	}

	for _, k := range []int{5, 1, 3} {
		m = m.Insert(k, "")
	}
	if k, _, ok := m.Min(); !ok || k != 1 {
		t.Fatalf("expected Min() to be 1, got %d", k)
	}
	if k, _, ok := m.Max(); !ok || k != 5 {
		t.Fatalf("expected Max() to be 5, got %d", k)
	}
}

func TestOrderedMapEachOrderAndEarlyStop(t *testing.T) {
	m := newOrderedMap[int, string](intLess)
	for _, k := range []int{3, 1, 2} {
		m = m.Insert(k, "")
	}

	var seen []int
	m.Each(func(k int, _ string) bool {
		seen = append(seen, k)
		return k != 2
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("expected early stop after key 2, got %v", seen)
	}
}

func TestOrderedMapEachReverse(t *testing.T) {
	m := newOrderedMap[int, string](intLess)
	for _, k := range []int{1, 2, 3} {
		m = m.Insert(k, "")
	}
	var seen []int
	m.EachReverse(func(k int, _ string) bool {
		seen = append(seen, k)
		return true
	})
	if len(seen) != 3 || seen[0] != 3 || seen[2] != 1 {
		t.Fatalf("expected descending order, got %v", seen)
	}
}

func TestOrderedMapWithoutMin(t *testing.T) {
	m := newOrderedMap[int, string](intLess).Insert(1, "a").Insert(2, "b")
	k, v, rest, ok := m.WithoutMin()
	if !ok || k != 1 || v != "a" {
		t.Fatalf("expected (1, a), got (%d, %q)", k, v)
	}
	if rest.Has(1) || !rest.Has(2) {
		t.Fatalf("expected rest to contain only key 2")
	}
}
