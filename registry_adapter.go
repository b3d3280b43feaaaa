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

// registryAdapter is a memoized read-through view over an Index (spec.md
// §4.5). Its cache is owned exclusively by one resolution — Solve
// constructs a fresh adapter per call, never shares one across calls.
type registryAdapter struct {
	idx           Index
	versionsCache map[versionsCacheKey][]Version
	versionsKnown map[versionsCacheKey]bool
}

type versionsCacheKey struct {
	pkg PackageName
	vc  string
}

func newRegistryAdapter(idx Index) *registryAdapter {
	return &registryAdapter{
		idx:           idx,
		versionsCache: make(map[versionsCacheKey][]Version),
		versionsKnown: make(map[versionsCacheKey]bool),
	}
}

// versionsFor returns every published version of pkg matching vc, or
// (nil, false) if pkg is not in the Index at all. Results are memoized by
// (pkg, vc.String()).
func (a *registryAdapter) versionsFor(pkg PackageName, vc VersionConstraint) ([]Version, bool) {
	key := versionsCacheKey{pkg: pkg, vc: vc.String()}
	if vs, ok := a.versionsCache[key]; ok {
		return vs, a.versionsKnown[key]
	}
	pkgEntry, known := a.idx.Get(pkg)
	if !known {
		a.versionsCache[key] = nil
		a.versionsKnown[key] = false
		return nil, false
	}
	var matches []Version
	for _, v := range pkgEntry.Versions() {
		if vc.Contains(v) {
			matches = append(matches, v)
		}
	}
	a.versionsCache[key] = matches
	a.versionsKnown[key] = true
	return matches, true
}

// constraintFor builds the Constraint admitting every version of pkg that
// satisfies vc, all tagged with path. Fails with packageMissingFailure if
// pkg is unknown, or uninhabitedConstraintFailure if vc matches nothing.
func (a *registryAdapter) constraintFor(pkg PackageName, vc VersionConstraint, path Path) (Constraint, failure) {
	matches, known := a.versionsFor(pkg, vc)
	if !known {
		return Constraint{}, &packageMissingFailure{pkg: pkg, path: path}
	}
	if len(matches) == 0 {
		return Constraint{}, &uninhabitedConstraintFailure{pkg: pkg, constraint: vc, path: path}
	}
	cons := NewConstraint(pkg)
	for _, v := range matches {
		cons = cons.Insert(v, path)
	}
	return cons, nil
}

// constraintSetFor looks up the sub-dependencies published at (pkg, ver)
// and builds a Constraint for each, all paths extended with
// basePath.Push({pkg, ver}).
func (a *registryAdapter) constraintSetFor(pkg PackageName, ver Version, basePath Path) (ConstraintSet, failure) {
	pkgEntry, known := a.idx.Get(pkg)
	if !known {
		return ConstraintSet{}, &packageMissingFailure{pkg: pkg, path: basePath}
	}
	deps, published := pkgEntry.Get(ver)
	if !published {
		return ConstraintSet{}, &packageMissingFailure{pkg: pkg, path: basePath}
	}
	extended := basePath.Push(NameVersion{Package: pkg, Version: ver})
	out := NewConstraintSet()
	var fail failure
	deps.Each(func(depPkg PackageName, depVC VersionConstraint) bool {
		cons, err := a.constraintFor(depPkg, depVC, extended)
		if err != nil {
			fail = err
			return false
		}
		out = out.withConstraint(cons)
		return true
	})
	if fail != nil {
		return ConstraintSet{}, fail
	}
	return out, nil
}

// constraintSetFrom builds the initial ConstraintSet from a top-level
// Dependencies map, over an empty base path.
func (a *registryAdapter) constraintSetFrom(deps Dependencies) (ConstraintSet, failure) {
	out := NewConstraintSet()
	var fail failure
	deps.Each(func(pkg PackageName, vc VersionConstraint) bool {
		cons, err := a.constraintFor(pkg, vc, Path{})
		if err != nil {
			fail = err
			return false
		}
		out = out.withConstraint(cons)
		return true
	})
	if fail != nil {
		return ConstraintSet{}, fail
	}
	return out, nil
}
