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

// Reporter formats one of the three exported error types into a
// human-readable message. The core ships DefaultReporter; a caller (the
// out-of-scope CLI) may supply an ANSI- or width-aware implementation
// without this package depending on a terminal library.
type Reporter interface {
	Report(err error) string
}

// DefaultReporter renders each error as plain text. A conflict is a
// "conflict on PKG:" header followed by two "RANGE via P1 -> ... -> Pn"
// lines; the empty path is shown as "<top level>".
type DefaultReporter struct{}

// Report implements Reporter.
func (DefaultReporter) Report(err error) string {
	switch e := err.(type) {
	case *ConflictError:
		return fmt.Sprintf(
			"conflict on %s:\n  %s via %s\n  %s via %s",
			e.Package,
			e.ExistingConstraint, chain(e.ExistingPath),
			e.ConflictingConstraint, chain(e.ConflictingPath),
		)
	case *PackageMissingError:
		return fmt.Sprintf("%s required via %s is not in the index", e.Package, chain(e.Path))
	case *UninhabitedConstraintError:
		return fmt.Sprintf("no version of %s satisfies %s (required via %s)", e.Package, e.Constraint, chain(e.Path))
	case nil:
		return "no error"
	default:
		return e.Error()
	}
}

// chain renders a Path as "P1 -> P2 -> ... -> Pn", or "<top level>" for
// the empty path.
func chain(p Path) string {
	if p.Len() == 0 {
		return "<top level>"
	}
	return p.String()
}
