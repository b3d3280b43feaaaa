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
	"strconv"
	"strings"
)

// maxVersionBytes is the serialized-length cap from the data model:
// ParseVersion rejects any input string (fields + prerelease + build)
// longer than 128 bytes.
const maxVersionBytes = 128

// Version is an ordered tuple of non-negative integer fields (arbitrary
// arity — "1.2", "1.2.3" and "1.2.3.4" are all valid), plus an optional
// prerelease tag list and an optional build tag list.
//
// Version is immutable after ParseVersion returns it.
type Version struct {
	fields     []int64
	prerelease []versionTag
	build      []versionTag
	raw        string
}

// versionTag is one dot-separated element of a prerelease or build tag
// list. Per the data model, an element is either numeric or alphanumeric;
// numeric elements sort before alphanumeric ones when compared positionally.
type versionTag struct {
	text    string
	numeric bool
	num     int64
}

// ParseVersion parses a semantic-version string into a Version. It returns
// an error if the string is empty, any field is missing, any numeric
// field/tag has a forbidden leading zero, any alphanumeric tag contains a
// character outside [0-9A-Za-z-], or the input exceeds 128 bytes.
func ParseVersion(s string) (Version, error) {
	if len(s) > maxVersionBytes {
		return Version{}, fmt.Errorf("version %q exceeds %d-byte limit", s, maxVersionBytes)
	}
	if s == "" {
		return Version{}, fmt.Errorf("version string must not be empty")
	}

	rest := s
	var build []versionTag
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		var err error
		build, err = parseTags(rest[i+1:], false)
		if err != nil {
			return Version{}, fmt.Errorf("invalid build metadata in %q: %w", s, err)
		}
		rest = rest[:i]
	}

	var prerelease []versionTag
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		var err error
		prerelease, err = parseTags(rest[i+1:], true)
		if err != nil {
			return Version{}, fmt.Errorf("invalid prerelease in %q: %w", s, err)
		}
		rest = rest[:i]
	}

	fieldStrs := strings.Split(rest, ".")
	if len(fieldStrs) == 0 || (len(fieldStrs) == 1 && fieldStrs[0] == "") {
		return Version{}, fmt.Errorf("version %q has no numeric fields", s)
	}
	fields := make([]int64, len(fieldStrs))
	for i, fs := range fieldStrs {
		n, err := parseNumericComponent(fs)
		if err != nil {
			return Version{}, fmt.Errorf("invalid field %d in %q: %w", i, s, err)
		}
		fields[i] = n
	}

	return Version{fields: fields, prerelease: prerelease, build: build, raw: s}, nil
}

// MustParseVersion is ParseVersion but panics on error. It exists for
// tests and for constructing literal Versions in code (e.g. example
// registries), never for parsing untrusted input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseNumericComponent(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf("leading zero in numeric field %q", s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a non-negative integer: %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative numeric field %q", s)
	}
	return n, nil
}

func parseTags(s string, allowEmpty bool) ([]versionTag, error) {
	if s == "" {
		if allowEmpty {
			return nil, fmt.Errorf("empty tag list")
		}
		return nil, fmt.Errorf("empty tag list")
	}
	parts := strings.Split(s, ".")
	tags := make([]versionTag, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("empty tag element")
		}
		if !isAlphanumericDash(p) {
			return nil, fmt.Errorf("tag element %q contains forbidden characters", p)
		}
		if isAllDigits(p) {
			if len(p) > 1 && p[0] == '0' {
				return nil, fmt.Errorf("leading zero in numeric tag element %q", p)
			}
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("tag element %q too large", p)
			}
			tags[i] = versionTag{text: p, numeric: true, num: n}
		} else {
			tags[i] = versionTag{text: p}
		}
	}
	return tags, nil
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAlphanumericDash(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

// normalizedFields returns fields with trailing zeros trimmed, per the
// equality rule ("1.2.0" == "1.2"). Always returns at least one field.
func (v Version) normalizedFields() []int64 {
	n := len(v.fields)
	for n > 1 && v.fields[n-1] == 0 {
		n--
	}
	return v.fields[:n]
}

// HasPrerelease reports whether v carries a prerelease tag list.
func (v Version) HasPrerelease() bool {
	return len(v.prerelease) > 0
}

// String renders v in its display form. A Version returned by
// ParseVersion renders exactly as it was parsed (trailing zero fields and
// build tags included, so "1.0.0" stays "1.0.0"). A Version built without
// parsing renders its normalized fields, dot-joined, plus "-prerelease"
// and "+build" suffixes.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	var b strings.Builder
	fields := v.normalizedFields()
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatInt(f, 10))
	}
	if len(v.prerelease) > 0 {
		b.WriteByte('-')
		writeTags(&b, v.prerelease)
	}
	if len(v.build) > 0 {
		b.WriteByte('+')
		writeTags(&b, v.build)
	}
	return b.String()
}

func writeTags(b *strings.Builder, tags []versionTag) {
	for i, t := range tags {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(t.text)
	}
}

// Sort compares v against other, implementing the ordering spec.md §3
// describes: normalized fields first (numeric, positional, shorter field
// list treated as zero-padded), then prerelease ("no prerelease" outranks
// "has prerelease"), then positional prerelease comparison (numeric <
// alphanumeric on mixed kinds). Build tags never participate. Returns
// negative/zero/positive for less-than/equal/greater-than.
func (v Version) Sort(other Version) int {
	af, bf := v.normalizedFields(), other.normalizedFields()
	n := len(af)
	if len(bf) > n {
		n = len(bf)
	}
	for i := 0; i < n; i++ {
		var a, bb int64
		if i < len(af) {
			a = af[i]
		}
		if i < len(bf) {
			bb = bf[i]
		}
		if a != bb {
			if a < bb {
				return -1
			}
			return 1
		}
	}

	aPre, bPre := v.HasPrerelease(), other.HasPrerelease()
	if !aPre && !bPre {
		return 0
	}
	if !aPre {
		return 1 // release outranks prerelease
	}
	if !bPre {
		return -1
	}
	return compareTagLists(v.prerelease, other.prerelease)
}

// Equal implements field-equality after trailing-zero normalization and
// exact prerelease-list equality; build tags are ignored.
func (v Version) Equal(other Version) bool {
	af, bf := v.normalizedFields(), other.normalizedFields()
	if len(af) != len(bf) {
		return false
	}
	for i := range af {
		if af[i] != bf[i] {
			return false
		}
	}
	if len(v.prerelease) != len(other.prerelease) {
		return false
	}
	for i := range v.prerelease {
		if v.prerelease[i] != other.prerelease[i] {
			return false
		}
	}
	return true
}

// Less reports whether v orders strictly before other; used wherever an
// orderedMap needs a `less` function over Version keys.
func (v Version) Less(other Version) bool {
	return v.Sort(other) < 0
}

func compareTagLists(a, b []versionTag) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareTag(a[i], b[i]); c != 0 {
			return c
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}

func compareTag(a, b versionTag) int {
	switch {
	case a.numeric && b.numeric:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	case a.numeric && !b.numeric:
		return -1 // numeric identifiers have lower precedence
	case !a.numeric && b.numeric:
		return 1
	default:
		return strings.Compare(a.text, b.text)
	}
}
