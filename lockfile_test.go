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

import (
	"bytes"
	"strings"
	"testing"
)

func TestLockfileEncodeParseRoundTrip(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/left-pad", Version: MustParseVersion("2.0.0"),
			SubDeps: NewDependencies().Insert("acme/right-pad", mustConstraint("^2.0.0"))},
		{Package: "acme/right-pad", Version: MustParseVersion("2.0.1"), SubDeps: NewDependencies()},
	})

	var buf bytes.Buffer
	if err := lf.Encode(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseLockfile(&buf)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(parsed.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(parsed.Entries()))
	}
	if parsed.Entries()[0].Package != "acme/left-pad" {
		t.Fatalf("expected first entry to be acme/left-pad, got %s", parsed.Entries()[0].Package)
	}
}

func TestLockfileVerifySucceedsWhenConsistent(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/left-pad", Version: MustParseVersion("2.0.0"),
			SubDeps: NewDependencies().Insert("acme/right-pad", mustConstraint("^2.0.0"))},
		{Package: "acme/right-pad", Version: MustParseVersion("2.0.1"), SubDeps: NewDependencies()},
	})

	deps := NewDependencies().Insert("acme/left-pad", mustConstraint("^2.0.0"))
	sol, ok := lf.Verify(deps)
	if !ok {
		t.Fatalf("expected lockfile to verify")
	}
	v, has := sol.Get("acme/left-pad")
	if !has || !v.Equal(MustParseVersion("2.0.0")) {
		t.Fatalf("expected acme/left-pad pinned to 2.0.0")
	}
}

func TestLockfileVerifyDetectsStaleVersion(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/left-pad", Version: MustParseVersion("1.0.0"), SubDeps: NewDependencies()},
	})
	deps := NewDependencies().Insert("acme/left-pad", mustConstraint("^2.0.0"))
	if _, ok := lf.Verify(deps); ok {
		t.Fatalf("expected verification to fail: locked 1.0.0 does not satisfy ^2.0.0")
	}
}

func TestLockfileVerifyDetectsUnreferencedEntry(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/left-pad", Version: MustParseVersion("1.0.0"), SubDeps: NewDependencies()},
		{Package: "acme/orphan", Version: MustParseVersion("1.0.0"), SubDeps: NewDependencies()},
	})
	deps := NewDependencies().Insert("acme/left-pad", mustConstraint("^1.0.0"))
	if _, ok := lf.Verify(deps); ok {
		t.Fatalf("expected verification to fail: acme/orphan is never reached")
	}
}

func TestLockfileVerifyHandlesCycles(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/a", Version: MustParseVersion("1.0.0"),
			SubDeps: NewDependencies().Insert("acme/b", mustConstraint("^1.0.0"))},
		{Package: "acme/b", Version: MustParseVersion("1.0.0"),
			SubDeps: NewDependencies().Insert("acme/a", mustConstraint("^1.0.0"))},
	})
	deps := NewDependencies().Insert("acme/a", mustConstraint("^1.0.0"))
	if _, ok := lf.Verify(deps); !ok {
		t.Fatalf("expected a mutual-dependency cycle to verify cleanly")
	}
}

func TestLockfileVerifyDetectsDuplicateEntry(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/a", Version: MustParseVersion("1.0.0"), SubDeps: NewDependencies()},
		{Package: "acme/a", Version: MustParseVersion("2.0.0"), SubDeps: NewDependencies()},
	})
	deps := NewDependencies().Insert("acme/a", mustConstraint("^1.0.0"))
	if _, ok := lf.Verify(deps); ok {
		t.Fatalf("expected a duplicate package entry to fail verification")
	}
}

func TestLockfileEncodeMetaGuardNamesFirstEntry(t *testing.T) {
	lf := NewLockfile([]LockEntry{
		{Package: "acme/left-pad", Version: MustParseVersion("2.0.0"), SubDeps: NewDependencies()},
	})
	var buf bytes.Buffer
	if err := lf.Encode(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 2 || lines[1] != "# entry: acme/left-pad" {
		t.Fatalf("expected the meta line's guard comment to name the first entry, got %q", lines)
	}
}

func TestParseLockfileRejectsMissingMeta(t *testing.T) {
	_, err := ParseLockfile(strings.NewReader(`["acme/a", "1.0.0", []]`))
	if err == nil {
		t.Fatalf("expected an error when no meta line precedes the entries")
	}
}
