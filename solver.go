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

import "context"

// Solve is the resolver's single entry point (spec.md §4.6.1 / §6): given
// an Index and a top-level Dependencies map, it returns a Solution
// assigning exactly one version to every transitively required package,
// or an error — a *ConflictError, *PackageMissingError,
// *UninhabitedConstraintError, or *BudgetExceededError — explaining why
// none exists.
//
// ctx is checked cooperatively between branching steps only (spec.md §5);
// Solve does not otherwise suspend.
func Solve(ctx context.Context, idx Index, deps Dependencies, opts ...SolverOption) (Solution, error) {
	o := defaultSolverOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.Lockfile != nil {
		if sol, ok := o.Lockfile.Verify(deps); ok {
			o.Logger.Debug("resolved from lockfile, skipping search")
			return sol, nil
		}
	}

	reg := newRegistryAdapter(idx)
	initial, f := reg.constraintSetFrom(deps)
	if f != nil {
		return Solution{}, translateFailure(f, idx, deps)
	}

	s := &searchState{reg: reg, opts: o}
	partial, f := s.search(ctx, initial, NewPartialSolution())
	if f != nil {
		if af, ok := f.(*abortedFailure); ok {
			return Solution{}, af.err
		}
		return Solution{}, translateFailure(f, idx, deps)
	}
	return solutionFrom(partial), nil
}

// searchState carries the per-resolution memoization adapter, options,
// and step counter across the recursive search calls of a single Solve.
type searchState struct {
	reg  *registryAdapter
	opts SolverOptions
	pops int
}

// search implements spec.md §4.6.4.
func (s *searchState) search(ctx context.Context, cset ConstraintSet, partial PartialSolution) (PartialSolution, failure) {
	if af := s.checkBudget(ctx); af != nil {
		return PartialSolution{}, af
	}

	complete, f := s.cheapAttempt(cset, partial)
	if f == nil {
		return complete, nil
	}
	lastFailure := f

	for {
		narrowed, modified, ferr := s.inferIndirectDependencies(cset, partial)
		if ferr != nil {
			return PartialSolution{}, ferr
		}
		if !modified {
			break
		}
		cset = narrowed
		if complete, f2 := s.cheapAttempt(cset, partial); f2 == nil {
			return complete, nil
		} else {
			lastFailure = f2
		}
	}

	tail, pkg, cons, ok := cset.Pop(lastFailure)
	if !ok {
		return partial, nil
	}

	s.opts.Logger.Debug("branching", "package", string(pkg), "candidates", cons.Len())

	var firstBranchFailure failure
	versions := cons.Versions()
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		path, _ := cons.Get(v)

		branchPartial := partial.Insert(pkg, JustifiedVersion{Version: v, Path: path})
		subset, ferr := s.reg.constraintSetFor(pkg, v, path)
		if ferr != nil {
			if firstBranchFailure == nil {
				firstBranchFailure = ferr
			}
			continue
		}
		merged, _, ferr := tail.And(subset, branchPartial)
		if ferr != nil {
			if firstBranchFailure == nil {
				firstBranchFailure = ferr
			}
			continue
		}

		result, ferr := s.search(ctx, merged, branchPartial)
		if ferr == nil {
			return result, nil
		}
		if isAbort(ferr) {
			return PartialSolution{}, ferr
		}
		if firstBranchFailure == nil {
			firstBranchFailure = ferr
		}
	}
	return PartialSolution{}, firstBranchFailure
}

// cheapAttempt implements spec.md §4.6.2: a greedy, non-backtracking pass
// that always takes the highest surviving version of whichever package
// Pop offers next.
func (s *searchState) cheapAttempt(cset ConstraintSet, partial PartialSolution) (PartialSolution, failure) {
	for {
		tail, pkg, cons, ok := cset.Pop(nil)
		if !ok {
			return partial, nil
		}
		v, path, _ := cons.Highest()
		partial = partial.Insert(pkg, JustifiedVersion{Version: v, Path: path})

		subset, f := s.reg.constraintSetFor(pkg, v, path)
		if f != nil {
			return PartialSolution{}, f
		}
		merged, _, f := tail.And(subset, partial)
		if f != nil {
			return PartialSolution{}, f
		}
		cset = merged
	}
}

// inferIndirectDependencies implements spec.md §4.6.3: for each package
// still on the stack, union the sub-dependency ConstraintSets of every
// surviving candidate version that is still consistent with the rest of
// the stack, then fold that union back in. Iterating this to a fixpoint
// (driven by the loop in search) prunes before the next branching decision.
func (s *searchState) inferIndirectDependencies(cset ConstraintSet, partial PartialSolution) (ConstraintSet, bool, failure) {
	type entry struct {
		pkg  PackageName
		cons Constraint
	}
	var entries []entry
	cset.Each(func(pkg PackageName, cons Constraint) bool {
		entries = append(entries, entry{pkg, cons})
		return true
	})

	working := cset
	modified := false

	for _, e := range entries {
		var unioned *ConstraintSet
		var firstFailure failure
		survived := false

		e.cons.Each(func(v Version, path Path) bool {
			subset, f := s.reg.constraintSetFor(e.pkg, v, path)
			if f != nil {
				if firstFailure == nil {
					firstFailure = f
				}
				return true
			}
			merged, _, f := working.And(subset, partial)
			if f != nil {
				if firstFailure == nil {
					firstFailure = f
				}
				return true
			}
			survived = true
			if unioned == nil {
				u := merged
				unioned = &u
			} else {
				u := unioned.Or(merged)
				unioned = &u
			}
			return true
		})

		if !survived {
			return ConstraintSet{}, false, firstFailure
		}

		merged, mod, f := working.And(*unioned, partial)
		if f != nil {
			return ConstraintSet{}, false, f
		}
		if mod {
			working = merged
			modified = true
		}
	}

	return working, modified, nil
}

// checkBudget increments the branching-step counter and reports an
// abortedFailure once either MaxPops or ctx's deadline is exceeded.
func (s *searchState) checkBudget(ctx context.Context) failure {
	s.pops++
	if s.opts.MaxPops > 0 && s.pops > s.opts.MaxPops {
		return &abortedFailure{err: &BudgetExceededError{Pops: s.pops}}
	}
	if err := ctx.Err(); err != nil {
		return &abortedFailure{err: &BudgetExceededError{Cause: err}}
	}
	return nil
}

func isAbort(f failure) bool {
	_, ok := f.(*abortedFailure)
	return ok
}
