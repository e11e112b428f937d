/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package semver implements Semantic Versioning 2.0.0 (https://semver.org)
// parsing, comparison, and range matching for prompt module versions.
//
// Version wraps github.com/blang/semver/v4 for parsing and precedence
// comparison. Range, the constraint language used in module dependency
// declarations, is hand-rolled on top: it supports exact versions,
// comparator expressions, caret and tilde shorthand, the wildcard "*", and
// AND/OR combinators, desugared according to a fixed table rather than any
// general-purpose range grammar.
package semver

import (
	"encoding/json"
	"fmt"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/model"
	bsemver "github.com/blang/semver/v4"

	"gopkg.in/yaml.v3"
)

var _ model.Model = (*Version)(nil)

// Version represents a semantic version according to Semantic Versioning
// 2.0.0, as used throughout promptpm to order and constrain module releases.
//
// Version supports the full SemVer 2.0.0 format:
// Major.Minor.Patch[-Prerelease][+Metadata].
//
// Ordering follows SemVer 2.0.0 rules: prerelease versions have lower
// precedence than the corresponding release version, prerelease identifiers
// are compared component by component (numeric identifiers as integers,
// alphanumeric identifiers lexically, numeric always lower precedence than
// alphanumeric, and a longer identifier list outranks an equal-prefix
// shorter one), and build metadata never affects precedence.
//
// The zero value corresponds to 0.0.0 and is not itself a meaningful module
// version; Validate rejects negative components but does not otherwise
// treat 0.0.0 as special.
type Version struct {
	Major int
	Minor int
	Patch int

	// Prerelease is an optional dot-separated identifier list, e.g. "rc.1".
	Prerelease string

	// Metadata is optional build metadata, ignored for precedence purposes.
	Metadata string
}

// ParseVersion parses a SemVer 2.0.0 version string into a Version value.
//
// An optional leading "v" is tolerated and stripped before parsing. On any
// parse failure (malformed core, non-integer component, invalid prerelease
// or metadata identifier, leading zero in a numeric component), ParseVersion
// returns a zero Version and a descriptive error.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")

	bv, err := bsemver.Parse(trimmed)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version format %q: %w", s, err)
	}

	return fromBlangSemver(bv), nil
}

// MustParseVersion is like ParseVersion but panics on error. It is intended
// for tests and compile-time-known version literals only.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical textual representation of the Version:
// "Major.Minor.Patch[-Prerelease][+Metadata]".
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Metadata != "" {
		s += "+" + v.Metadata
	}
	return s
}

// TypeName implements model.Identifiable.
func (v Version) TypeName() string { return "Version" }

// Redacted implements model.Loggable. Versions carry no sensitive data, so
// Redacted and String return the same representation.
func (v Version) Redacted() string { return v.String() }

// IsZero reports whether v is exactly 0.0.0 with no prerelease or metadata.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0 && v.Prerelease == "" && v.Metadata == ""
}

func (v Version) toBlangSemver() (bsemver.Version, error) {
	return bsemver.Parse(v.String())
}

func fromBlangSemver(bv bsemver.Version) Version {
	var prerelease string
	if len(bv.Pre) > 0 {
		parts := make([]string, len(bv.Pre))
		for i, p := range bv.Pre {
			parts[i] = p.String()
		}
		prerelease = strings.Join(parts, ".")
	}

	var metadata string
	if len(bv.Build) > 0 {
		metadata = strings.Join(bv.Build, ".")
	}

	return Version{
		Major:      int(bv.Major),
		Minor:      int(bv.Minor),
		Patch:      int(bv.Patch),
		Prerelease: prerelease,
		Metadata:   metadata,
	}
}

// Validate checks that Major, Minor, and Patch are non-negative and that the
// rendered string round-trips through blang/semver's parser, which enforces
// SemVer 2.0.0 identifier rules for Prerelease and Metadata.
func (v Version) Validate() error {
	if v.Major < 0 {
		return &dxerrors.ValidationError{Type: "Version", Field: "Major", Reason: "must be non-negative"}
	}
	if v.Minor < 0 {
		return &dxerrors.ValidationError{Type: "Version", Field: "Minor", Reason: "must be non-negative"}
	}
	if v.Patch < 0 {
		return &dxerrors.ValidationError{Type: "Version", Field: "Patch", Reason: "must be non-negative"}
	}
	if _, err := v.toBlangSemver(); err != nil {
		return &dxerrors.ValidationError{Type: "Version", Reason: err.Error(), Value: v.String()}
	}
	return nil
}

// Compare reports the SemVer 2.0.0 precedence ordering of v relative to
// other: -1 if v < other, 0 if equal, +1 if v > other. Build metadata never
// affects the result.
func (v Version) Compare(other Version) int {
	bv, errV := v.toBlangSemver()
	bo, errO := other.toBlangSemver()
	if errV != nil || errO != nil {
		return compareCoreFallback(v, other)
	}
	return bv.Compare(bo)
}

func compareCoreFallback(v, other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether v has lower precedence than other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal implements model.Comparable[Version]. Per SemVer 2.0.0, build
// metadata is ignored: "1.0.0+a" and "1.0.0+b" are Equal.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Greater reports whether v has higher precedence than other.
func (v Version) Greater(other Version) bool { return v.Compare(other) > 0 }

// MarshalJSON implements json.Marshaler, encoding v as its canonical string
// form. Validate is called first; an invalid Version is never serialized.
func (v Version) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler, decoding a canonical string
// form, optionally "v"-prefixed.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &dxerrors.UnmarshalError{Type: "Version", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler, encoding v as its canonical string
// form.
func (v Version) MarshalYAML() (interface{}, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler, decoding a scalar string in
// canonical form.
func (v *Version) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return &dxerrors.UnmarshalError{Type: "Version", Reason: err.Error()}
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
