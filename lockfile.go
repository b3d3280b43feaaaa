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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SupportedInstallVersion is the highest lockfile "install" format version
// this reader understands. An install version newer than this is a fatal
// parse error; an update version newer than this is accepted silently
// (spec.md §6 / SPEC_FULL.md §6).
const SupportedInstallVersion = "1.0"

// LockEntry is one locked package: the version it was pinned to, and the
// sub-dependency constraints that were recorded for it at lock time. The
// verifier (§4.8) trusts these recorded constraints; it never re-consults
// the Index.
type LockEntry struct {
	Package PackageName
	Version Version
	SubDeps Dependencies
}

// Lockfile is a sequence of LockEntry values plus the logic to verify them
// against a top-level Dependencies request (spec.md §4.8) and to parse or
// write the text format spec.md §6 describes.
type Lockfile struct {
	entries []LockEntry
}

// NewLockfile wraps entries into a Lockfile.
func NewLockfile(entries []LockEntry) *Lockfile {
	return &Lockfile{entries: append([]LockEntry{}, entries...)}
}

// Entries returns the lockfile's entries in their original order.
func (lf *Lockfile) Entries() []LockEntry {
	return append([]LockEntry{}, lf.entries...)
}

// Verify implements spec.md §4.8: it returns (solution, true) iff the
// lockfile is internally consistent and satisfies every top-level
// constraint in deps, walking the recorded sub-dependency graph from the
// top-level entries and breaking cycles with an "already used" flag. A
// duplicate package, an unsatisfied constraint, a reference to a package
// absent from the lockfile, or a locked entry unreachable from deps all
// produce (zero value, false).
func (lf *Lockfile) Verify(deps Dependencies) (Solution, bool) {
	solution := newOrderedMap[PackageName, Version](PackageName.Less)
	subDeps := make(map[PackageName]Dependencies, len(lf.entries))
	for _, e := range lf.entries {
		if solution.Has(e.Package) {
			return Solution{}, false
		}
		solution = solution.Insert(e.Package, e.Version)
		subDeps[e.Package] = e.SubDeps
	}

	type queued struct {
		pkg PackageName
		vc  VersionConstraint
	}
	var queue []queued
	deps.Each(func(pkg PackageName, vc VersionConstraint) bool {
		queue = append(queue, queued{pkg, vc})
		return true
	})

	used := make(map[PackageName]bool)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		ver, ok := solution.Get(item.pkg)
		if !ok || !item.vc.Contains(ver) {
			return Solution{}, false
		}
		if used[item.pkg] {
			continue
		}
		used[item.pkg] = true
		subDeps[item.pkg].Each(func(depPkg PackageName, depVC VersionConstraint) bool {
			queue = append(queue, queued{depPkg, depVC})
			return true
		})
	}

	allUsed := true
	solution.Each(func(pkg PackageName, _ Version) bool {
		if !used[pkg] {
			allUsed = false
			return false
		}
		return true
	})
	if !allUsed {
		return Solution{}, false
	}
	return Solution{m: solution}, true
}

type lockfileMeta struct {
	Install string `json:"install"`
	Update  string `json:"update"`
}

// ParseLockfile reads the text format spec.md §6 describes: blank lines
// and `#`-prefixed comments are skipped; exactly one meta JSON object must
// appear before any dependency tuple; each dependency line is a 3-element
// JSON array `[package, version, [[dep_package, dep_constraint], ...]]`.
func ParseLockfile(r io.Reader) (*Lockfile, error) {
	scanner := bufio.NewScanner(r)
	var entries []LockEntry
	sawMeta := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !sawMeta {
			var meta lockfileMeta
			if err := json.Unmarshal([]byte(line), &meta); err != nil {
				return nil, fmt.Errorf("lockfile: invalid meta line: %w", err)
			}
			if meta.Install != "" && dottedVersionNewer(meta.Install, SupportedInstallVersion) {
				return nil, fmt.Errorf("lockfile: install version %q is newer than supported %q", meta.Install, SupportedInstallVersion)
			}
			sawMeta = true
			continue
		}

		entry, err := parseLockEntryLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawMeta {
		return nil, fmt.Errorf("lockfile: missing meta line")
	}
	return &Lockfile{entries: entries}, nil
}

func parseLockEntryLine(line string) (LockEntry, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal([]byte(line), &tuple); err != nil {
		return LockEntry{}, fmt.Errorf("lockfile: invalid entry %q: %w", line, err)
	}
	if len(tuple) != 3 {
		return LockEntry{}, fmt.Errorf("lockfile: entry %q must have 3 elements, got %d", line, len(tuple))
	}

	var pkgStr, verStr string
	if err := json.Unmarshal(tuple[0], &pkgStr); err != nil {
		return LockEntry{}, fmt.Errorf("lockfile: entry %q: package: %w", line, err)
	}
	if err := json.Unmarshal(tuple[1], &verStr); err != nil {
		return LockEntry{}, fmt.Errorf("lockfile: entry %q: version: %w", line, err)
	}
	var pairs [][2]string
	if err := json.Unmarshal(tuple[2], &pairs); err != nil {
		return LockEntry{}, fmt.Errorf("lockfile: entry %q: sub-dependencies: %w", line, err)
	}

	pkg := PackageName(pkgStr)
	ver, err := ParseVersion(verStr)
	if err != nil {
		return LockEntry{}, fmt.Errorf("lockfile: entry %s: %w", pkg, err)
	}
	deps := NewDependencies()
	for _, pair := range pairs {
		vc, err := ParseVersionConstraint(pair[1])
		if err != nil {
			return LockEntry{}, fmt.Errorf("lockfile: entry %s: dependency %s: %w", pkg, pair[0], err)
		}
		deps = deps.Insert(PackageName(pair[0]), vc)
	}
	return LockEntry{Package: pkg, Version: ver, SubDeps: deps}, nil
}

// Encode writes lf in the machine-generated form: a warning banner, then
// one "# entry: <name>" guard comment before every JSON payload including
// the meta line — the meta line's guard names the first locked entry,
// reproducing the original generator's behavior verbatim (see
// SPEC_FULL.md §6). The parser never requires these comments.
func (lf *Lockfile) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# This file is generated. Manual changes will be overwritten.")

	guardName := ""
	if len(lf.entries) > 0 {
		guardName = string(lf.entries[0].Package)
	}
	fmt.Fprintf(bw, "# entry: %s\n", guardName)

	metaBytes, err := json.Marshal(lockfileMeta{Install: SupportedInstallVersion, Update: SupportedInstallVersion})
	if err != nil {
		return err
	}
	if _, err := bw.Write(metaBytes); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	for _, e := range lf.entries {
		fmt.Fprintf(bw, "# entry: %s\n", e.Package)
		tuple := [3]any{string(e.Package), e.Version.String(), subDepsToPairs(e.SubDeps)}
		b, err := json.Marshal(tuple)
		if err != nil {
			return err
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func subDepsToPairs(deps Dependencies) [][2]string {
	var out [][2]string
	deps.Each(func(pkg PackageName, vc VersionConstraint) bool {
		out = append(out, [2]string{string(pkg), vc.String()})
		return true
	})
	return out
}

// dottedVersionNewer reports whether a's dotted numeric version is
// strictly greater than b's (e.g. "1.1" > "1.0"). Used only for the
// lockfile's own install/update format version, which is not a semver
// Version (no prerelease/build tags, arbitrary field count permitted).
func dottedVersionNewer(a, b string) bool {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var na, nb int64
		if i < len(pa) {
			na, _ = strconv.ParseInt(pa[i], 10, 64)
		}
		if i < len(pb) {
			nb, _ = strconv.ParseInt(pb[i], 10, 64)
		}
		if na != nb {
			return na > nb
		}
	}
	return false
}
