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

// Package resolver implements a language-neutral dependency resolver: given
// an Index of published package releases and a top-level Dependencies
// request, Solve finds a Solution assigning exactly one version to every
// transitively required package, or explains — via a *ConflictError,
// *PackageMissingError, or *UninhabitedConstraintError — why none exists.
//
// The search is a backtracking constraint-propagation algorithm: a cheap,
// greedy pass always takes the highest surviving version of each package;
// when that produces a contradiction, an indirect-dependency inference pass
// tries to prune the search space without guessing; only when both of those
// are exhausted does the solver actually branch and recurse. A Lockfile can
// short-circuit the whole search when it still satisfies the request.
package resolver
