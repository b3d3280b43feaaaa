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

import "log/slog"

// SolverOptions configures Solve's behavior.
type SolverOptions struct {
	// MaxPops bounds the number of search steps (one per recursive search
	// call, i.e. per branching decision) a single Solve may perform before
	// aborting with a *BudgetExceededError. The greedy pass's own Pop
	// calls are not counted. Set to 0 to disable the bound. Default:
	// 100000. Pathological inputs can still be exponential in branch
	// count (spec.md §5) — this is the backstop for untrusted input.
	MaxPops int

	// Logger receives debug-level traces of each branching step and of a
	// lockfile short-circuit; greedy passes and inference passes are not
	// logged. Mirrors the teacher's WithLogger knob.
	Logger *slog.Logger

	// Lockfile, when non-nil, is consulted before search begins: if it
	// verifies against the requested top-level Dependencies (spec.md
	// §4.8), its Solution is returned directly and the solver never
	// runs. This is the "used to short-circuit resolution" behavior
	// spec.md §1 describes as in-scope.
	Lockfile *Lockfile
}

// SolverOption is a functional option for Solve.
type SolverOption func(*SolverOptions)

const defaultMaxPops = 100000

func defaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxPops: defaultMaxPops,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// WithMaxPops sets the branching-step bound. Use 0 to disable it.
func WithMaxPops(n int) SolverOption {
	return func(o *SolverOptions) {
		if n <= 0 {
			o.MaxPops = 0
		} else {
			o.MaxPops = n
		}
	}
}

// WithLogger sets a structured logger for solver diagnostics.
func WithLogger(logger *slog.Logger) SolverOption {
	return func(o *SolverOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithLockfile supplies a previously-computed Lockfile to verify before
// falling back to full search.
func WithLockfile(lf *Lockfile) SolverOption {
	return func(o *SolverOptions) {
		o.Lockfile = lf
	}
}
