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

// JustifiedVersion pairs a chosen Version with the Path that justified
// considering it.
type JustifiedVersion struct {
	Version Version
	Path    Path
}

// PartialSolution is a mid-search assignment of some packages to versions
// with paths. It is extended monotonically during search; "rollback" is
// simply discarding a PartialSolution value in favor of an earlier one,
// never mutating in place.
type PartialSolution struct {
	m orderedMap[PackageName, JustifiedVersion]
}

// NewPartialSolution returns an empty PartialSolution.
func NewPartialSolution() PartialSolution {
	return PartialSolution{m: newOrderedMap[PackageName, JustifiedVersion](PackageName.Less)}
}

// Insert returns a copy of ps with pkg bound to jv.
func (ps PartialSolution) Insert(pkg PackageName, jv JustifiedVersion) PartialSolution {
	return PartialSolution{m: ps.m.Insert(pkg, jv)}
}

// Get returns the assignment for pkg, if any.
func (ps PartialSolution) Get(pkg PackageName) (JustifiedVersion, bool) {
	return ps.m.Get(pkg)
}

// Len returns the number of assigned packages.
func (ps PartialSolution) Len() int {
	return ps.m.Len()
}

// Solution is the final assignment, package name → version, stripped of
// justifying paths.
type Solution struct {
	m orderedMap[PackageName, Version]
}

// solutionFrom derives a Solution from a completed PartialSolution,
// dropping paths.
func solutionFrom(ps PartialSolution) Solution {
	out := newOrderedMap[PackageName, Version](PackageName.Less)
	ps.m.Each(func(pkg PackageName, jv JustifiedVersion) bool {
		out = out.Insert(pkg, jv.Version)
		return true
	})
	return Solution{m: out}
}

// Get returns the version assigned to pkg, if any.
func (s Solution) Get(pkg PackageName) (Version, bool) {
	return s.m.Get(pkg)
}

// Len returns the number of packages in the solution.
func (s Solution) Len() int {
	return s.m.Len()
}

// Packages returns every package name in the solution, ascending.
func (s Solution) Packages() []PackageName {
	return s.m.Keys()
}

// Each calls fn for every (package, version) pair in package-name order.
func (s Solution) Each(fn func(pkg PackageName, version Version) bool) {
	s.m.Each(fn)
}

// Equal reports whether s and other assign the same versions to the same
// packages.
func (s Solution) Equal(other Solution) bool {
	if s.Len() != other.Len() {
		return false
	}
	equal := true
	s.m.Each(func(pkg PackageName, v Version) bool {
		ov, ok := other.Get(pkg)
		if !ok || !v.Equal(ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}
