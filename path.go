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

import "strings"

// NameVersion is one (package, version) link in a Path.
type NameVersion struct {
	Package PackageName
	Version Version
}

// pathNode is a cons-list cell: Path extension shares the tail with its
// predecessor rather than copying, per spec.md §4.3/§9 ("reference-counted
// cons-list gives O(1) push and O(n) iteration with maximal sharing").
type pathNode struct {
	head NameVersion
	tail *pathNode
	len  int
}

// Path is the immutable provenance chain "(pkg, version)*" justifying why
// a candidate version was considered. The zero value is the empty path.
type Path struct {
	tip *pathNode
}

// Len returns the number of links in p.
func (p Path) Len() int {
	if p.tip == nil {
		return 0
	}
	return p.tip.len
}

// Push returns a new Path extending p with nv. p is left unmodified.
func (p Path) Push(nv NameVersion) Path {
	n := 1
	if p.tip != nil {
		n = p.tip.len + 1
	}
	return Path{tip: &pathNode{head: nv, tail: p.tip, len: n}}
}

// Last returns the most recently pushed link, if any.
func (p Path) Last() (NameVersion, bool) {
	if p.tip == nil {
		return NameVersion{}, false
	}
	return p.tip.head, true
}

// Head returns the first-pushed link — the top-level end of the chain.
// (Error reporting looks up a declared VersionConstraint through the
// direct parent, which is Last, not Head.) Paths are stored tip-first for
// O(1) Push, so this walks the full chain.
func (p Path) Head() (NameVersion, bool) {
	if p.tip == nil {
		return NameVersion{}, false
	}
	n := p.tip
	for n.tail != nil {
		n = n.tail
	}
	return n.head, true
}

// Slice materializes p as a slice in push order (oldest first). Used by
// diagnostics and tests; the solver's hot path never needs this.
func (p Path) Slice() []NameVersion {
	out := make([]NameVersion, p.Len())
	n := p.tip
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = n.head
		n = n.tail
	}
	return out
}

// Equal reports whether p and other are element-wise equal.
func (p Path) Equal(other Path) bool {
	if p.Len() != other.Len() {
		return false
	}
	a, b := p.tip, other.tip
	for a != nil {
		if a.head.Package != b.head.Package || !a.head.Version.Equal(b.head.Version) {
			return false
		}
		a, b = a.tail, b.tail
	}
	return true
}

// String renders the chain as "P1 -> P2 -> ... -> Pn", oldest first,
// matching the "via P1 -> P2 -> ... -> Pn" form used in diagnostics.
func (p Path) String() string {
	links := p.Slice()
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = string(l.Package) + " " + l.Version.String()
	}
	return strings.Join(parts, " -> ")
}
