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

import "testing"

func TestParseVersionConstraintWildcard(t *testing.T) {
	vc, err := ParseVersionConstraint("*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vc.Contains(MustParseVersion("0.0.1")) || !vc.Contains(MustParseVersion("99.0.0")) {
		t.Fatalf("expected * to contain everything")
	}
}

func TestParseVersionConstraintCaret(t *testing.T) {
	cases := []struct {
		in       string
		in_bound string
		out      string
	}{
		{"^0.1.2", "0.1.2", "0.1.9"},
		{"^0.0.3", "0.0.3", "0.0.3"},
		{"^1.2.3", "1.2.3", "1.9.9"},
	}
	for _, c := range cases {
		vc, err := ParseVersionConstraint(c.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.in, err)
		}
		if !vc.Contains(MustParseVersion(c.in_bound)) {
			t.Fatalf("%s: expected to contain lower bound %s", c.in, c.in_bound)
		}
	}

	vc, err := ParseVersionConstraint("^0.1.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vc.Contains(MustParseVersion("0.2.0")) {
		t.Fatalf("^0.1.2 must not contain 0.2.0")
	}
	if !vc.Contains(MustParseVersion("0.1.99")) {
		t.Fatalf("^0.1.2 must contain 0.1.99")
	}

	vc2, err := ParseVersionConstraint("^0.0.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vc2.Contains(MustParseVersion("0.0.4")) {
		t.Fatalf("^0.0.3 must not contain 0.0.4")
	}
}

func TestParseVersionConstraintTilde(t *testing.T) {
	vc, err := ParseVersionConstraint("~1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vc.Contains(MustParseVersion("1.2.3")) || !vc.Contains(MustParseVersion("1.2.99")) {
		t.Fatalf("~1.2.3 must contain 1.2.3 .. 1.2.99")
	}
	if vc.Contains(MustParseVersion("1.3.0")) {
		t.Fatalf("~1.2.3 must not contain 1.3.0")
	}
}

func TestParseVersionConstraintXRange(t *testing.T) {
	for _, in := range []string{"1.2.x", "1.2.X", "1.2.*"} {
		vc, err := ParseVersionConstraint(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if !vc.Contains(MustParseVersion("1.2.0")) || !vc.Contains(MustParseVersion("1.2.99")) {
			t.Fatalf("%s: expected to contain 1.2.0 .. 1.2.99", in)
		}
		if vc.Contains(MustParseVersion("1.3.0")) {
			t.Fatalf("%s: must not contain 1.3.0", in)
		}
	}
}

func TestParseVersionConstraintGteLt(t *testing.T) {
	vc, err := ParseVersionConstraint(">= 1.0 < 2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vc.Contains(MustParseVersion("1.0.0")) {
		t.Fatalf("expected to contain 1.0.0")
	}
	if vc.Contains(MustParseVersion("2.0.0")) {
		t.Fatalf("must not contain 2.0.0")
	}
}

func TestParseVersionConstraintInvertedRangeRejected(t *testing.T) {
	if _, err := ParseVersionConstraint(">=2.0<1.0"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestParseVersionConstraintExact(t *testing.T) {
	vc, err := ParseVersionConstraint("1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vc.Contains(MustParseVersion("1.2.3")) {
		t.Fatalf("expected exact constraint to contain 1.2.3")
	}
	if vc.Contains(MustParseVersion("1.2.4")) {
		t.Fatalf("exact constraint must not contain 1.2.4")
	}
}

func TestVersionConstraintPrereleaseBoundaryExcluded(t *testing.T) {
	vc, err := RangeConstraint(Version{}, false, MustParseVersion("2.0.0"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vc.Contains(MustParseVersion("2.0.0-beta")) {
		t.Fatalf("< 2.0.0 must exclude 2.0.0-beta")
	}
	if !vc.Contains(MustParseVersion("1.9.9")) {
		t.Fatalf("< 2.0.0 must include 1.9.9")
	}
}

func TestVersionConstraintPrereleaseMaxAllowsPrerelease(t *testing.T) {
	vc, err := RangeConstraint(Version{}, false, MustParseVersion("2.0.0-rc.2"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vc.Contains(MustParseVersion("2.0.0-rc.1")) {
		t.Fatalf("< 2.0.0-rc.2 must include 2.0.0-rc.1")
	}
	if vc.Contains(MustParseVersion("2.0.0-rc.2")) {
		t.Fatalf("< 2.0.0-rc.2 must exclude 2.0.0-rc.2 itself")
	}
}

func TestVersionConstraintRoundTripsOriginalSyntax(t *testing.T) {
	for _, in := range []string{"^1.2.3", "~1.2.3", "1.2.x", ">= 1.0 < 2.0", "1.2.3", "*"} {
		vc, err := ParseVersionConstraint(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if vc.String() != in {
			t.Fatalf("expected String() to round-trip %q, got %q", in, vc.String())
		}
	}
}
