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

// Dependencies is a single level's package → VersionConstraint map. It is
// used both as the top-level request into Solve and as the sub-dependency
// record of one release in an Index.
type Dependencies struct {
	m orderedMap[PackageName, VersionConstraint]
}

// NewDependencies returns an empty Dependencies map.
func NewDependencies() Dependencies {
	return Dependencies{m: newOrderedMap[PackageName, VersionConstraint](PackageName.Less)}
}

// Insert returns a copy of d with package bound to constraint.
func (d Dependencies) Insert(pkg PackageName, constraint VersionConstraint) Dependencies {
	return Dependencies{m: d.m.Insert(pkg, constraint)}
}

// Get returns the constraint declared for pkg, if any.
func (d Dependencies) Get(pkg PackageName) (VersionConstraint, bool) {
	return d.m.Get(pkg)
}

// Len returns the number of declared dependencies.
func (d Dependencies) Len() int {
	return d.m.Len()
}

// Each calls fn for every (package, constraint) pair in package-name
// order.
func (d Dependencies) Each(fn func(pkg PackageName, constraint VersionConstraint) bool) {
	d.m.Each(fn)
}

// release is one version's worth of published metadata: just its
// dependency set, since the core resolver has no other use for release
// metadata (checksums, tarball URLs, etc. belong to the out-of-scope
// registry/publication layers).
type release struct {
	deps Dependencies
}

// Package is the ordered mapping version → dependency-map for a single
// package name within an Index.
type Package struct {
	m orderedMap[Version, release]
}

// NewPackage returns an empty Package.
func NewPackage() Package {
	return Package{m: newOrderedMap[Version, release](Version.Less)}
}

// Insert returns a copy of p with a release recorded at version.
func (p Package) Insert(version Version, deps Dependencies) Package {
	return Package{m: p.m.Insert(version, release{deps: deps})}
}

// Get returns the dependency set published at version, if any.
func (p Package) Get(version Version) (Dependencies, bool) {
	r, ok := p.m.Get(version)
	if !ok {
		return Dependencies{}, false
	}
	return r.deps, true
}

// Versions returns every published version, ascending.
func (p Package) Versions() []Version {
	return p.m.Keys()
}

// Len returns the number of published versions.
func (p Package) Len() int {
	return p.m.Len()
}

// Index is the read-only catalog the solver consumes: package name →
// Package (version → dependency-map). An Index is immutable for the
// duration of a resolution; RegistryAdapter is the only thing that reads
// it during solving.
type Index struct {
	m orderedMap[PackageName, Package]
}

// NewIndex returns an empty Index.
func NewIndex() Index {
	return Index{m: newOrderedMap[PackageName, Package](PackageName.Less)}
}

// Insert returns a copy of idx with pkg's published-versions table
// replaced by p. Typical callers build up a Package via repeated
// Package.Insert and then call Index.Insert once per package.
func (idx Index) Insert(pkg PackageName, p Package) Index {
	return Index{m: idx.m.Insert(pkg, p)}
}

// Get returns the Package published under pkg, if the Index knows it.
func (idx Index) Get(pkg PackageName) (Package, bool) {
	return idx.m.Get(pkg)
}

// Packages returns every package name in the Index, ascending.
func (idx Index) Packages() []PackageName {
	return idx.m.Keys()
}

// Len returns the number of distinct packages in the Index.
func (idx Index) Len() int {
	return idx.m.Len()
}
