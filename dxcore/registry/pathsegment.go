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

package registry

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/model"
	"gopkg.in/yaml.v3"
)

const (
	// PathSegmentMinLen is the minimum number of runes in a valid PathSegment.
	PathSegmentMinLen = 1

	// PathSegmentMaxLen is the maximum number of runes in a valid PathSegment.
	// This is a defensive limit, not imposed by the underlying filesystem.
	PathSegmentMaxLen = 256
)

// pathSegmentPattern matches a single filesystem-safe path component: it
// must start with a letter or digit (ruling out "." and ".." outright) and
// contain only letters, digits, '.', '_', '+', or '-' thereafter. Path
// separators ('/', '\\') are excluded by construction.
const pathSegmentPattern = `^[A-Za-z0-9][A-Za-z0-9._+-]*$`

// PathSegmentRegexp is the compiled regular expression used to validate
// registry path segments (module names and versions as used on disk).
var PathSegmentRegexp = regexp.MustCompile(pathSegmentPattern)

// PathSegment is a single filesystem path component used to build a
// registry module directory: <registry-root>/modules/<name>/<version>.
// It is the unit of trust boundary between module manifest content and the
// local filesystem layout — any module or dependency name/version that
// cannot be parsed into a PathSegment is rejected before the registry ever
// touches disk.
//
// Unlike a general-purpose revision expression, PathSegment is strict: it
// rejects "." and ".." outright (the leading-alphanumeric rule does that
// implicitly), rejects any path separator, and rejects any character
// outside [A-Za-z0-9._+-]. The zero value (empty string) is never valid;
// unlike Digest or a Git ref, there is no meaningful "absent" PathSegment.
type PathSegment string

// ParsePathSegment validates s as a safe, single-component filesystem path
// segment and returns it as a PathSegment. No normalization (case folding,
// trimming) is performed: module names and versions are taken verbatim from
// the manifest, matching the registry's on-disk layout exactly.
func ParsePathSegment(s string) (PathSegment, error) {
	seg := PathSegment(s)
	if err := seg.Validate(); err != nil {
		return "", err
	}
	return seg, nil
}

// String returns the segment's literal text.
func (p PathSegment) String() string { return string(p) }

// Redacted returns the segment's literal text; path segments carry no
// sensitive data.
func (p PathSegment) Redacted() string { return string(p) }

// TypeName implements model.Identifiable.
func (p PathSegment) TypeName() string { return "PathSegment" }

// IsZero reports whether the segment is empty.
func (p PathSegment) IsZero() bool { return p == "" }

// Equal reports whether p and other are the same segment.
func (p PathSegment) Equal(other PathSegment) bool { return p == other }

// Validate checks that p is a non-empty string containing only
// [A-Za-z0-9._+-], starting with a letter or digit, within length bounds,
// and containing no path separator.
func (p PathSegment) Validate() error {
	s := string(p)
	if s == "" {
		return &dxerrors.ValidationError{Type: "PathSegment", Reason: "must be a non-empty string"}
	}
	if s == "." || s == ".." {
		return &dxerrors.ValidationError{Type: "PathSegment", Reason: "contains invalid path segment", Value: s}
	}
	if strings.ContainsAny(s, `/\`) {
		return &dxerrors.ValidationError{Type: "PathSegment", Reason: "must not include path separators", Value: s}
	}
	if len(s) > PathSegmentMaxLen {
		return &dxerrors.ValidationError{Type: "PathSegment", Reason: fmt.Sprintf("must be at most %d characters", PathSegmentMaxLen), Value: s}
	}
	if !PathSegmentRegexp.MatchString(s) {
		return &dxerrors.ValidationError{Type: "PathSegment", Reason: "contains unsupported characters; use letters, numbers, '.', '_', '+', or '-'", Value: s}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p PathSegment) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", p.TypeName(), err)
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathSegment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cannot unmarshal JSON: %w", err)
	}
	parsed, err := ParsePathSegment(s)
	if err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	*p = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p PathSegment) MarshalYAML() (interface{}, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", p.TypeName(), err)
	}
	return string(p), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PathSegment) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("cannot unmarshal YAML: %w", err)
	}
	parsed, err := ParsePathSegment(s)
	if err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	*p = parsed
	return nil
}

var _ model.Model = (*PathSegment)(nil)
