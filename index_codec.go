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
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// indexBinaryMagic identifies the binary Index interchange format
// (SPEC_FULL.md §3). The format is hand-rolled on stdlib encoding/binary
// and bufio rather than an imported codec (msgpack/cbor/protobuf) because
// the wire order must reproduce the producer's ordered-map iteration
// order exactly, byte for byte — a property none of those generic codecs
// give for free over a Go map, and one a dozen lines of length-prefixed
// writes make trivial to guarantee directly (see DESIGN.md).
var indexBinaryMagic = [4]byte{'P', 'K', 'I', 'X'}

const indexBinaryFormatVersion = 1

// EncodeBinary writes idx to w in the self-describing, length-prefixed
// format described in spec.md §6: a deterministic walk of the ordered map
// producing package headers, version strings, and nested dependency maps
// in the producer's iteration order.
func (idx Index) EncodeBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(indexBinaryMagic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(indexBinaryFormatVersion); err != nil {
		return err
	}
	if err := writeUint32(bw, uint32(idx.Len())); err != nil {
		return err
	}

	var outerErr error
	idx.m.Each(func(pkg PackageName, p Package) bool {
		if err := writeBinaryString(bw, string(pkg)); err != nil {
			outerErr = err
			return false
		}
		if err := writeUint32(bw, uint32(p.Len())); err != nil {
			outerErr = err
			return false
		}
		versions := p.Versions()
		for _, v := range versions {
			deps, _ := p.Get(v)
			if err := writeBinaryString(bw, v.String()); err != nil {
				outerErr = err
				return false
			}
			if err := writeUint32(bw, uint32(deps.Len())); err != nil {
				outerErr = err
				return false
			}
			var depErr error
			deps.Each(func(depPkg PackageName, vc VersionConstraint) bool {
				if err := writeBinaryString(bw, string(depPkg)); err != nil {
					depErr = err
					return false
				}
				if err := writeBinaryString(bw, vc.String()); err != nil {
					depErr = err
					return false
				}
				return true
			})
			if depErr != nil {
				outerErr = depErr
				return false
			}
		}
		return true
	})
	if outerErr != nil {
		return outerErr
	}
	return bw.Flush()
}

// DecodeIndexBinary reads an Index previously written by EncodeBinary.
func DecodeIndexBinary(r io.Reader) (Index, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return Index{}, fmt.Errorf("index: reading magic: %w", err)
	}
	if magic != indexBinaryMagic {
		return Index{}, fmt.Errorf("index: bad magic %q", magic)
	}
	formatVersion, err := br.ReadByte()
	if err != nil {
		return Index{}, fmt.Errorf("index: reading format version: %w", err)
	}
	if formatVersion != indexBinaryFormatVersion {
		return Index{}, fmt.Errorf("index: unsupported format version %d", formatVersion)
	}

	pkgCount, err := readUint32(br)
	if err != nil {
		return Index{}, fmt.Errorf("index: reading package count: %w", err)
	}

	idx := NewIndex()
	for i := uint32(0); i < pkgCount; i++ {
		pkgName, err := readBinaryString(br)
		if err != nil {
			return Index{}, fmt.Errorf("index: reading package name: %w", err)
		}
		versionCount, err := readUint32(br)
		if err != nil {
			return Index{}, fmt.Errorf("index: reading version count for %s: %w", pkgName, err)
		}
		pkg := NewPackage()
		for j := uint32(0); j < versionCount; j++ {
			verStr, err := readBinaryString(br)
			if err != nil {
				return Index{}, fmt.Errorf("index: reading version for %s: %w", pkgName, err)
			}
			ver, err := ParseVersion(verStr)
			if err != nil {
				return Index{}, fmt.Errorf("index: parsing version %q for %s: %w", verStr, pkgName, err)
			}
			depCount, err := readUint32(br)
			if err != nil {
				return Index{}, fmt.Errorf("index: reading dependency count for %s %s: %w", pkgName, verStr, err)
			}
			deps := NewDependencies()
			for k := uint32(0); k < depCount; k++ {
				depName, err := readBinaryString(br)
				if err != nil {
					return Index{}, fmt.Errorf("index: reading dependency name: %w", err)
				}
				vcStr, err := readBinaryString(br)
				if err != nil {
					return Index{}, fmt.Errorf("index: reading constraint for %s: %w", depName, err)
				}
				vc, err := ParseVersionConstraint(vcStr)
				if err != nil {
					return Index{}, fmt.Errorf("index: parsing constraint %q for %s: %w", vcStr, depName, err)
				}
				deps = deps.Insert(PackageName(depName), vc)
			}
			pkg = pkg.Insert(ver, deps)
		}
		idx = idx.Insert(PackageName(pkgName), pkg)
	}
	return idx, nil
}

func writeUint32(w io.Writer, n uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeBinaryString(w io.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readBinaryString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// jsonDepEntry, jsonVersionEntry and jsonPackageEntry mirror the Index's
// ordered shape for JSON interchange. encoding/json does not preserve map
// key order when marshaling a Go map, so the encoder below marshals
// ordered slices of named entries rather than a map[string]any — the
// decoder reconstructs the ordered structure from the same slices.
type jsonDepEntry struct {
	Package    string `json:"package"`
	Constraint string `json:"constraint"`
}

type jsonVersionEntry struct {
	Version string         `json:"version"`
	Deps    []jsonDepEntry `json:"deps"`
}

type jsonPackageEntry struct {
	Package  string             `json:"package"`
	Versions []jsonVersionEntry `json:"versions"`
}

// EncodeJSON renders idx as JSON, preserving its ordered-map iteration
// order via an explicit slice-of-entries shape (spec.md §6).
func (idx Index) EncodeJSON(w io.Writer) error {
	var packages []jsonPackageEntry
	idx.m.Each(func(pkg PackageName, p Package) bool {
		entry := jsonPackageEntry{Package: string(pkg)}
		for _, v := range p.Versions() {
			deps, _ := p.Get(v)
			ve := jsonVersionEntry{Version: v.String()}
			deps.Each(func(depPkg PackageName, vc VersionConstraint) bool {
				ve.Deps = append(ve.Deps, jsonDepEntry{Package: string(depPkg), Constraint: vc.String()})
				return true
			})
			entry.Versions = append(entry.Versions, ve)
		}
		packages = append(packages, entry)
		return true
	})
	enc := json.NewEncoder(w)
	return enc.Encode(packages)
}

// DecodeIndexJSON reads an Index previously written by EncodeJSON.
func DecodeIndexJSON(r io.Reader) (Index, error) {
	var packages []jsonPackageEntry
	if err := json.NewDecoder(r).Decode(&packages); err != nil {
		return Index{}, fmt.Errorf("index: decoding JSON: %w", err)
	}
	idx := NewIndex()
	for _, pe := range packages {
		pkg := NewPackage()
		for _, ve := range pe.Versions {
			ver, err := ParseVersion(ve.Version)
			if err != nil {
				return Index{}, fmt.Errorf("index: parsing version %q for %s: %w", ve.Version, pe.Package, err)
			}
			deps := NewDependencies()
			for _, de := range ve.Deps {
				vc, err := ParseVersionConstraint(de.Constraint)
				if err != nil {
					return Index{}, fmt.Errorf("index: parsing constraint %q for %s: %w", de.Constraint, de.Package, err)
				}
				deps = deps.Insert(PackageName(de.Package), vc)
			}
			pkg = pkg.Insert(ver, deps)
		}
		idx = idx.Insert(PackageName(pe.Package), pkg)
	}
	return idx, nil
}
