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

// ConflictError is the user-facing form of a Conflict failure: two
// constraints on one package, declared by different parents, that admit
// no version in common. Unlike the internal conflictFailure, the
// constraints here are the author's actual declared range syntax, not
// the solver's narrowed version sets (spec.md §4.7).
type ConflictError struct {
	Package               PackageName
	ExistingConstraint    VersionConstraint
	ExistingPath          Path
	ConflictingConstraint VersionConstraint
	ConflictingPath       Path
}

func (e *ConflictError) Error() string {
	return DefaultReporter{}.Report(e)
}

// PackageMissingError reports that some dependency chain requires a
// package the Index does not contain at all.
type PackageMissingError struct {
	Package PackageName
	Path    Path
}

func (e *PackageMissingError) Error() string {
	return DefaultReporter{}.Report(e)
}

// UninhabitedConstraintError reports that a package exists in the Index
// but no published version satisfies the constraint some parent (or the
// top-level request) declared.
type UninhabitedConstraintError struct {
	Package    PackageName
	Constraint VersionConstraint
	Path       Path
}

func (e *UninhabitedConstraintError) Error() string {
	return DefaultReporter{}.Report(e)
}

// BudgetExceededError is returned by Solve when the caller-supplied
// context is cancelled, or MaxPops branching steps are exceeded, before
// search concluded (spec.md §5 cooperative-cancellation addition). It
// carries whichever of the two triggered first.
type BudgetExceededError struct {
	Pops  int
	Cause error
}

func (e *BudgetExceededError) Error() string {
	if e.Cause != nil {
		return "solver aborted: " + e.Cause.Error()
	}
	return "solver aborted after exceeding the branching-step budget"
}

func (e *BudgetExceededError) Unwrap() error { return e.Cause }

// abortedFailure wraps a BudgetExceededError so it can flow through the
// ordinary failure-as-a-value channel without being mistaken for one of
// the three Failure variants search otherwise backtracks on.
type abortedFailure struct{ err *BudgetExceededError }

func (a *abortedFailure) isFailure()   {}
func (a *abortedFailure) Error() string { return a.err.Error() }

var (
	_ error   = (*ConflictError)(nil)
	_ error   = (*PackageMissingError)(nil)
	_ error   = (*UninhabitedConstraintError)(nil)
	_ error   = (*BudgetExceededError)(nil)
	_ failure = (*abortedFailure)(nil)
)

// translateFailure converts an internal failure into one of the three
// exported error types, per spec.md §4.7. idx and topLevel are consulted
// to recover the original VersionConstraint syntax a Conflict's two sides
// were declared with — the internal Constraint only remembers which
// versions survived, not how the author spelled the range.
func translateFailure(f failure, idx Index, topLevel Dependencies) error {
	switch ff := f.(type) {
	case *conflictFailure:
		return newConflictError(ff, idx, topLevel)
	case *packageMissingFailure:
		return &PackageMissingError{Package: ff.pkg, Path: ff.path}
	case *uninhabitedConstraintFailure:
		return &UninhabitedConstraintError{Package: ff.pkg, Constraint: ff.constraint, Path: ff.path}
	default:
		return f
	}
}

func newConflictError(f *conflictFailure, idx Index, topLevel Dependencies) *ConflictError {
	exVer, exPath, _ := f.existing.Highest()
	coVer, coPath, _ := f.conflicting.Highest()
	exVC := recoverDeclaredConstraint(f.pkg, idx, topLevel, exPath)
	coVC := recoverDeclaredConstraint(f.pkg, idx, topLevel, coPath)

	// The recovered ranges may overlap even though the solver's narrowed
	// version sets did not (one side may have been pared down by
	// interaction with a third package rather than by direct
	// contradiction with the other). Substitute an exact-version
	// constraint on one or both sides until the displayed ranges are
	// visibly disjoint; try all four combinations and stop at the first.
	candidates := [4]struct{ existing, conflicting VersionConstraint }{
		{exVC, coVC},
		{ExactConstraint(exVer), coVC},
		{exVC, ExactConstraint(coVer)},
		{ExactConstraint(exVer), ExactConstraint(coVer)},
	}
	for _, c := range candidates {
		exVC, coVC = c.existing, c.conflicting
		if !exVC.overlaps(coVC) {
			break
		}
	}

	return &ConflictError{
		Package:               f.pkg,
		ExistingConstraint:    exVC,
		ExistingPath:          exPath,
		ConflictingConstraint: coVC,
		ConflictingPath:       coPath,
	}
}

// recoverDeclaredConstraint looks up the VersionConstraint that pkg's
// direct parent (the most recently pushed link of path) declared for it
// in the Index, or falls back to topLevel when path is empty (pkg was
// requested directly). If the lookup fails for any reason (should not
// happen for a path the solver itself produced), it returns the
// zero-value "match anything" constraint rather than panicking.
func recoverDeclaredConstraint(pkg PackageName, idx Index, topLevel Dependencies, path Path) VersionConstraint {
	parent, ok := path.Last()
	if !ok {
		if vc, found := topLevel.Get(pkg); found {
			return vc
		}
		return mustWildcard()
	}
	pkgEntry, found := idx.Get(parent.Package)
	if !found {
		return mustWildcard()
	}
	deps, found := pkgEntry.Get(parent.Version)
	if !found {
		return mustWildcard()
	}
	if vc, found := deps.Get(pkg); found {
		return vc
	}
	return mustWildcard()
}

func mustWildcard() VersionConstraint {
	vc, _ := RangeConstraint(Version{}, false, Version{}, false)
	return vc
}

// overlaps reports whether vc and other admit at least one version in
// common, without consulting any Index — pure range arithmetic over the
// two constraints' own bounds.
func (vc VersionConstraint) overlaps(other VersionConstraint) bool {
	if vc.exact != nil {
		return other.Contains(*vc.exact)
	}
	if other.exact != nil {
		return vc.Contains(*other.exact)
	}
	belowOtherMax := !other.hasMax || !vc.hasMin || vc.min.Sort(*other.max) < 0
	belowSelfMax := !vc.hasMax || !other.hasMin || other.min.Sort(*vc.max) < 0
	return belowOtherMax && belowSelfMax
}
