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

import "fmt"

// failure is the solver's internal fault type. It is never an exception —
// it flows through ordinary Go error returns, and the search algorithm's
// correctness depends on a failure from one branch never polluting
// another. At the Solve boundary, a failure becomes the user-facing Error
// (see error.go), enriched with the original VersionConstraint syntax.
type failure interface {
	error
	isFailure()
}

// conflictFailure: two overlapping constraints on one package that cannot
// both be satisfied.
type conflictFailure struct {
	pkg         PackageName
	existing    Constraint
	conflicting Constraint
}

func (f *conflictFailure) isFailure() {}
func (f *conflictFailure) Error() string {
	return fmt.Sprintf("conflict on package %s", f.pkg)
}

// packageMissingFailure: some path requires a package absent from the
// Index.
type packageMissingFailure struct {
	pkg  PackageName
	path Path
}

func (f *packageMissingFailure) isFailure() {}
func (f *packageMissingFailure) Error() string {
	return fmt.Sprintf("package %s not found (required via %s)", f.pkg, f.path)
}

// uninhabitedConstraintFailure: package exists but no version satisfies a
// stated range.
type uninhabitedConstraintFailure struct {
	pkg        PackageName
	constraint VersionConstraint
	path       Path
}

func (f *uninhabitedConstraintFailure) isFailure() {}
func (f *uninhabitedConstraintFailure) Error() string {
	return fmt.Sprintf("no version of %s satisfies %s (required via %s)", f.pkg, f.constraint, f.path)
}

var (
	_ failure = (*conflictFailure)(nil)
	_ failure = (*packageMissingFailure)(nil)
	_ failure = (*uninhabitedConstraintFailure)(nil)
)
