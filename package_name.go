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
	"fmt"
	"strings"
)

const maxPackageSegmentBytes = 128

// PackageName is a "namespace/name" pair. It is a plain string so it can
// be used directly as an orderedMap/Go-map key; Validate enforces the
// grammar separately from construction. NewPackageName calls Validate; a
// plain string conversion (as used by Index, Dependencies and the index
// and lockfile decoders) does not.
type PackageName string

// NewPackageName joins namespace and name into a PackageName and
// validates both segments.
func NewPackageName(namespace, name string) (PackageName, error) {
	pn := PackageName(namespace + "/" + name)
	if err := pn.Validate(); err != nil {
		return "", err
	}
	return pn, nil
}

// Namespace returns the segment before the slash.
func (pn PackageName) Namespace() string {
	ns, _, _ := strings.Cut(string(pn), "/")
	return ns
}

// Name returns the segment after the slash.
func (pn PackageName) Name() string {
	_, name, _ := strings.Cut(string(pn), "/")
	return name
}

func (pn PackageName) String() string {
	return string(pn)
}

// Less orders package names lexicographically; used as the `less`
// function for orderedMaps keyed by PackageName.
func (pn PackageName) Less(other PackageName) bool {
	return pn < other
}

// Validate checks pn against the grammar in spec.md §3/§9: a
// "namespace/name" pair where each segment is non-empty, ≤128 bytes,
// matches [a-z0-9_-]+, and additionally must not start or end with '-'
// and must not contain "--". (The original Rust source had the
// start-with-'-' check inverted; this resolves that ambiguity in favor of
// the clearly-intended rule.)
func (pn PackageName) Validate() error {
	ns, name, ok := strings.Cut(string(pn), "/")
	if !ok {
		return fmt.Errorf("package name %q: missing namespace/name separator", pn)
	}
	if err := validateSegment(ns); err != nil {
		return fmt.Errorf("package name %q: namespace: %w", pn, err)
	}
	if err := validateSegment(name); err != nil {
		return fmt.Errorf("package name %q: name: %w", pn, err)
	}
	return nil
}

func validateSegment(s string) error {
	if s == "" {
		return fmt.Errorf("segment must not be empty")
	}
	if len(s) > maxPackageSegmentBytes {
		return fmt.Errorf("segment exceeds %d-byte limit", maxPackageSegmentBytes)
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("segment %q must not start or end with '-'", s)
	}
	if strings.Contains(s, "--") {
		return fmt.Errorf("segment %q must not contain '--'", s)
	}
	hasAlnum := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			hasAlnum = true
		case c >= 'a' && c <= 'z':
			hasAlnum = true
		case c == '_' || c == '-':
		default:
			return fmt.Errorf("segment %q contains forbidden character %q", s, c)
		}
	}
	if !hasAlnum {
		return fmt.Errorf("segment %q must contain at least one alphanumeric character", s)
	}
	return nil
}
