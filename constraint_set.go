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

// Constraint is the set of versions of one package still admissible at
// some point in the search, each tagged with the first Path that justified
// considering it. An empty Constraint is a contradiction — callers never
// hold on to one; And returns a Failure instead.
type Constraint struct {
	pkg PackageName
	m   orderedMap[Version, Path]
}

// NewConstraint returns an empty Constraint for pkg.
func NewConstraint(pkg PackageName) Constraint {
	return Constraint{pkg: pkg, m: newOrderedMap[Version, Path](Version.Less)}
}

// Package returns the package this Constraint restricts.
func (c Constraint) Package() PackageName {
	return c.pkg
}

// Len returns the number of admissible versions.
func (c Constraint) Len() int {
	return c.m.Len()
}

// Has reports whether v is currently admissible.
func (c Constraint) Has(v Version) bool {
	return c.m.Has(v)
}

// Get returns the justifying Path for v, if v is admissible.
func (c Constraint) Get(v Version) (Path, bool) {
	return c.m.Get(v)
}

// Insert returns a copy of c with v admissible via path. If v is already
// present, its existing path is kept (first path wins — callers that need
// to overwrite should Remove first).
func (c Constraint) Insert(v Version, path Path) Constraint {
	if c.m.Has(v) {
		return c
	}
	return Constraint{pkg: c.pkg, m: c.m.Insert(v, path)}
}

// Remove returns a copy of c without v.
func (c Constraint) Remove(v Version) Constraint {
	return Constraint{pkg: c.pkg, m: c.m.Remove(v)}
}

// Versions returns every admissible version, ascending.
func (c Constraint) Versions() []Version {
	return c.m.Keys()
}

// Highest returns the most-preferred (greatest) admissible version and its
// path. Constraint iteration is specified as highest-version-first (spec
// §3: "this implements the 'prefer highest' policy"); this is the single
// entry point cheap_attempt and the pop-ordering oracle rely on.
func (c Constraint) Highest() (Version, Path, bool) {
	v, p, ok := c.m.Max()
	return v, p, ok
}

// Each calls fn for every (version, path) pair from highest to lowest.
func (c Constraint) Each(fn func(v Version, path Path) bool) {
	c.m.EachReverse(fn)
}

// And intersects c with other by version key, choosing between the two
// justifying paths per spec.md §4.4: prefer the shorter path; on a tie,
// prefer the path belonging to the narrower source (the Constraint with
// fewer admissible versions); a further tie is broken by the documented
// polarity that self (c) keeps its path whenever len(c) <= len(other)
// (spec.md §9 Open Question #2, resolved in SPEC_FULL.md §4.4 — the
// literal reading of the original's `self.len() <= other.len()` guard).
// pkg is the package both constraints restrict, supplied separately so a
// Conflict failure can name it even when the intersection is empty.
func (c Constraint) And(other Constraint, pkg PackageName) (Constraint, bool, failure) {
	modified := false
	result := NewConstraint(pkg)
	selfLen, otherLen := c.Len(), other.Len()

	c.m.Each(func(v Version, selfPath Path) bool {
		otherPath, ok := other.m.Get(v)
		if !ok {
			modified = true
			return true
		}
		chosen := selfPath
		switch {
		case otherPath.Len() < selfPath.Len():
			chosen = otherPath
		case otherPath.Len() == selfPath.Len():
			if selfLen > otherLen {
				chosen = otherPath
			}
		}
		if !chosen.Equal(selfPath) {
			modified = true
		}
		result = result.Insert(v, chosen)
		return true
	})

	if result.Len() == 0 {
		return Constraint{}, false, &conflictFailure{pkg: pkg, existing: c, conflicting: other}
	}
	return result, modified, nil
}

// Or unions c with other by version key. A version present in only one
// side is kept as-is; a version present in both keeps whichever path is
// shorter. Used only by the indirect-inference pass (spec.md §4.6.3).
func (c Constraint) Or(other Constraint) Constraint {
	result := NewConstraint(c.pkg)
	c.m.Each(func(v Version, path Path) bool {
		if otherPath, ok := other.m.Get(v); ok && otherPath.Len() < path.Len() {
			path = otherPath
		}
		result = result.Insert(v, path)
		return true
	})
	other.m.Each(func(v Version, path Path) bool {
		if !c.m.Has(v) {
			result = result.Insert(v, path)
		}
		return true
	})
	return result
}

// ConstraintSet is the per-resolution frontier: every package with at
// least one still-unresolved candidate version, plus all derived
// constraints accumulated so far.
type ConstraintSet struct {
	m orderedMap[PackageName, Constraint]
}

// NewConstraintSet returns an empty ConstraintSet.
func NewConstraintSet() ConstraintSet {
	return ConstraintSet{m: newOrderedMap[PackageName, Constraint](PackageName.Less)}
}

// Len returns the number of packages with an open Constraint.
func (cs ConstraintSet) Len() int {
	return cs.m.Len()
}

// Get returns the Constraint recorded for pkg, if any.
func (cs ConstraintSet) Get(pkg PackageName) (Constraint, bool) {
	return cs.m.Get(pkg)
}

// Each calls fn for every (package, Constraint) pair in package-name
// order.
func (cs ConstraintSet) Each(fn func(pkg PackageName, cons Constraint) bool) {
	cs.m.Each(fn)
}

func (cs ConstraintSet) withConstraint(cons Constraint) ConstraintSet {
	return ConstraintSet{m: cs.m.Insert(cons.Package(), cons)}
}

// And merges new into cs, per spec.md §4.4. For every (pkg, newCons) in
// new: if pkg is already pinned in partial, the pinned version must be one
// of newCons's admissible versions — if it isn't, the mismatch surfaces as
// a Conflict between a synthetic single-version Constraint (built from the
// pinned version and its justifying path) and newCons; if it is, the
// package needs no further constraining and is skipped. Otherwise newCons
// is folded into cs's existing Constraint for pkg via Constraint.And (or
// simply inserted, if cs has no entry yet — this always sets modified).
func (cs ConstraintSet) And(newSet ConstraintSet, partial PartialSolution) (ConstraintSet, bool, failure) {
	out := cs
	modified := false
	var fail failure

	newSet.m.Each(func(pkg PackageName, newCons Constraint) bool {
		if jv, pinned := partial.Get(pkg); pinned {
			if !newCons.Has(jv.Version) {
				existing := NewConstraint(pkg).Insert(jv.Version, jv.Path)
				fail = &conflictFailure{pkg: pkg, existing: existing, conflicting: newCons}
				return false
			}
			return true
		}
		existingCons, has := out.m.Get(pkg)
		if !has {
			out = out.withConstraint(newCons)
			modified = true
			return true
		}
		merged, mod, err := existingCons.And(newCons, pkg)
		if err != nil {
			fail = err
			return false
		}
		if mod {
			out = out.withConstraint(merged)
			modified = true
		}
		return true
	})

	if fail != nil {
		return ConstraintSet{}, false, fail
	}
	return out, modified, nil
}

// Or intersects the key sets of cs and other; each surviving key's value
// is cs[key].Or(other[key]). This is deliberately an intersection of keys,
// not a union — it represents "versions that survive regardless of which
// parent version we pick" (spec.md §9), easy to misread given the method's
// name.
func (cs ConstraintSet) Or(other ConstraintSet) ConstraintSet {
	out := NewConstraintSet()
	cs.m.Each(func(pkg PackageName, cons Constraint) bool {
		if oc, ok := other.m.Get(pkg); ok {
			out = out.withConstraint(cons.Or(oc))
		}
		return true
	})
	return out
}

// Pop is the branching-order oracle (spec.md §4.4). Given an optional
// failure hint, it produces a priority order of package names and returns
// the first one still present in cs, removed into tail. With no hint (or
// an unrecognized one), the only candidate is the alphabetically smallest
// remaining key.
func (cs ConstraintSet) Pop(hint failure) (tail ConstraintSet, pkg PackageName, cons Constraint, ok bool) {
	for _, candidate := range popCandidateOrder(hint) {
		if c, has := cs.m.Get(candidate); has {
			return ConstraintSet{m: cs.m.Remove(candidate)}, candidate, c, true
		}
	}
	if k, v, found := cs.m.Min(); found {
		return ConstraintSet{m: cs.m.Remove(k)}, k, v, true
	}
	return ConstraintSet{}, "", Constraint{}, false
}

// popCandidateOrder expands a failure hint into the priority order
// described in spec.md §4.4.
func popCandidateOrder(hint failure) []PackageName {
	switch f := hint.(type) {
	case *conflictFailure:
		return conflictPopOrder(f)
	case *packageMissingFailure:
		return pathPopOrder(f.path, f.pkg)
	case *uninhabitedConstraintFailure:
		return pathPopOrder(f.path, f.pkg)
	default:
		return nil
	}
}

// conflictPopOrder breadth-first interleaves the justifying paths of the
// conflict's two sides, one depth at a time starting from each path's tip
// (the decision nearest the conflict), then appends the conflicting
// package itself.
func conflictPopOrder(f *conflictFailure) []PackageName {
	existingPath := representativePath(f.existing)
	conflictingPath := representativePath(f.conflicting)
	var out []PackageName
	e, c := existingPath.tip, conflictingPath.tip
	for e != nil || c != nil {
		if e != nil {
			out = append(out, e.head.Package)
			e = e.tail
		}
		if c != nil {
			out = append(out, c.head.Package)
			c = c.tail
		}
	}
	return append(out, f.pkg)
}

// representativePath picks an arbitrary justifying path from a Constraint
// for pop-ordering purposes; the highest version's path is used since it
// is always present when the Constraint is non-empty.
func representativePath(c Constraint) Path {
	_, path, ok := c.Highest()
	if !ok {
		return Path{}
	}
	return path
}

// pathPopOrder walks path from its tip backward to the root, then appends
// pkg.
func pathPopOrder(path Path, pkg PackageName) []PackageName {
	var out []PackageName
	for n := path.tip; n != nil; n = n.tail {
		out = append(out, n.head.Package)
	}
	return append(out, pkg)
}
