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
	dxerrors "dirpx.dev/promptpm/dxcore/errors"
)

// Op is a single version range comparator operator.
//
// A Comparator pairs an Op with a Version to express a constraint such as
// ">=1.2.3". Op values are produced only by the range parser; callers never
// construct a Comparator directly from user-facing code.
type Op int

const (
	// OpEq requires exact precedence equality: "=1.2.3".
	OpEq Op = iota
	// OpLt requires strictly lower precedence: "<1.2.3".
	OpLt
	// OpLte requires lower-or-equal precedence: "<=1.2.3".
	OpLte
	// OpGt requires strictly higher precedence: ">1.2.3".
	OpGt
	// OpGte requires higher-or-equal precedence: ">=1.2.3".
	OpGte
)

// String constants for Op values, used in range-expression re-rendering and
// diagnostics.
const (
	OpEqStr  = "="
	OpLtStr  = "<"
	OpLteStr = "<="
	OpGtStr  = ">"
	OpGteStr = ">="
)

// ParseOp converts a comparator token into an Op value. An empty string and
// "=" both map to OpEq, matching the range grammar's implicit-equality rule
// for bare version literals ("1.2.3" means "=1.2.3").
func ParseOp(s string) (Op, error) {
	switch s {
	case "", OpEqStr:
		return OpEq, nil
	case OpLtStr:
		return OpLt, nil
	case OpLteStr:
		return OpLte, nil
	case OpGtStr:
		return OpGt, nil
	case OpGteStr:
		return OpGte, nil
	default:
		return OpEq, &dxerrors.ParseError{Type: "Op", Value: s}
	}
}

// String returns the canonical token for the Op, or "unknown" for an
// out-of-range value.
func (o Op) String() string {
	switch o {
	case OpEq:
		return OpEqStr
	case OpLt:
		return OpLtStr
	case OpLte:
		return OpLteStr
	case OpGt:
		return OpGtStr
	case OpGte:
		return OpGteStr
	default:
		return "unknown"
	}
}

// Valid reports whether o is one of the defined Op constants.
func (o Op) Valid() bool {
	switch o {
	case OpEq, OpLt, OpLte, OpGt, OpGte:
		return true
	default:
		return false
	}
}

// Matches reports whether candidate satisfies the comparator "o bound",
// e.g. for OpGte, Matches(candidate, bound) is candidate.Compare(bound) >= 0.
func (o Op) Matches(candidate, bound Version) bool {
	cmp := candidate.Compare(bound)
	switch o {
	case OpEq:
		return cmp == 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	default:
		return false
	}
}
