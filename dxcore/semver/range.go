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

package semver

import (
	"fmt"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
)

// Comparator is a single constraint clause within a Range alternative, such
// as the ">=1.2.3" in "^1.2.3" after caret desugaring.
type Comparator struct {
	Op      Op
	Version Version
}

// Matches reports whether candidate satisfies this comparator.
func (c Comparator) Matches(candidate Version) bool {
	return c.Op.Matches(candidate, c.Version)
}

func (c Comparator) String() string {
	return c.Op.String() + c.Version.String()
}

// Range is a parsed dependency version range expression.
//
// Alternatives are OR-ed: a version satisfies the Range if it satisfies any
// one alternative. Each alternative is an AND of Comparators: a version
// satisfies an alternative only if it satisfies every comparator in it. An
// alternative with zero comparators (produced by "*" or an empty
// expression) matches every version.
type Range struct {
	Alternatives [][]Comparator

	// raw preserves the original expression text for logging and
	// round-tripping through manifests.
	raw string
}

// String returns the original range expression text the Range was parsed
// from.
func (r Range) String() string { return r.raw }

// ParseRange parses a dependency version range expression.
//
// Supported tokens:
//
//   - exact version: "1.2.3" (implicit "=")
//   - comparator: "<1.2.3", "<=1.2.3", ">1.2.3", ">=1.2.3", "=1.2.3"
//   - caret: "^1.2.3" desugars to ">=1.2.3 <2.0.0" (or a narrower upper
//     bound when Major is 0, matching npm-style caret semantics: the
//     leftmost nonzero component is held fixed)
//   - tilde: "~1.2.3" desugars to ">=1.2.3 <1.3.0"
//   - wildcard: "*" or an empty expression matches every version
//   - AND: tokens separated by whitespace or commas within one alternative
//   - OR: alternatives separated by "||"
func ParseRange(expression string) (Range, error) {
	normalized := strings.TrimSpace(expression)
	if normalized == "" || normalized == "*" {
		return Range{Alternatives: [][]Comparator{{}}, raw: expression}, nil
	}

	var alternatives [][]Comparator
	for _, alternativeText := range strings.Split(normalized, "||") {
		alternativeText = strings.TrimSpace(alternativeText)
		if alternativeText == "" {
			return Range{}, &dxerrors.ParseError{Type: "Range", Value: expression}
		}

		fields := strings.Fields(strings.ReplaceAll(alternativeText, ",", " "))
		if len(fields) == 0 {
			return Range{}, &dxerrors.ParseError{Type: "Range", Value: expression}
		}

		var comparators []Comparator
		for _, token := range fields {
			parsed, err := parseRangeToken(token)
			if err != nil {
				return Range{}, err
			}
			comparators = append(comparators, parsed...)
		}
		alternatives = append(alternatives, comparators)
	}

	return Range{Alternatives: alternatives, raw: expression}, nil
}

// Matches reports whether version satisfies the range.
func (r Range) Matches(version Version) bool {
	for _, alternative := range r.Alternatives {
		if matchesAll(alternative, version) {
			return true
		}
	}
	return false
}

func matchesAll(comparators []Comparator, candidate Version) bool {
	for _, c := range comparators {
		if !c.Matches(candidate) {
			return false
		}
	}
	return true
}

// SatisfiesRange parses expression and reports whether version satisfies it.
func SatisfiesRange(version Version, expression string) (bool, error) {
	r, err := ParseRange(expression)
	if err != nil {
		return false, err
	}
	return r.Matches(version), nil
}

func parseRangeToken(token string) ([]Comparator, error) {
	if token == "*" {
		return nil, nil
	}

	if strings.HasPrefix(token, "^") {
		base, err := ParseVersion(token[1:])
		if err != nil {
			return nil, err
		}
		return []Comparator{
			{Op: OpGte, Version: base},
			{Op: OpLt, Version: caretUpperBound(base)},
		}, nil
	}

	if strings.HasPrefix(token, "~") {
		base, err := ParseVersion(token[1:])
		if err != nil {
			return nil, err
		}
		upper := Version{Major: base.Major, Minor: base.Minor + 1, Patch: 0}
		return []Comparator{
			{Op: OpGte, Version: base},
			{Op: OpLt, Version: upper},
		}, nil
	}

	for _, opToken := range []string{OpGteStr, OpLteStr, OpGtStr, OpLtStr, OpEqStr} {
		if strings.HasPrefix(token, opToken) {
			versionText := token[len(opToken):]
			if versionText == "" {
				return nil, &dxerrors.ParseError{Type: "Range", Value: token}
			}
			v, err := ParseVersion(versionText)
			if err != nil {
				return nil, err
			}
			op, _ := ParseOp(opToken)
			return []Comparator{{Op: op, Version: v}}, nil
		}
	}

	v, err := ParseVersion(token)
	if err != nil {
		return nil, fmt.Errorf("invalid range token %q: %w", token, err)
	}
	return []Comparator{{Op: OpEq, Version: v}}, nil
}

// caretUpperBound implements npm-style caret desugaring: the upper bound
// increments the leftmost nonzero core component and zeroes the rest.
func caretUpperBound(base Version) Version {
	if base.Major > 0 {
		return Version{Major: base.Major + 1}
	}
	if base.Minor > 0 {
		return Version{Minor: base.Minor + 1}
	}
	return Version{Patch: base.Patch + 1}
}
