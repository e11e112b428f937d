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

package semver_test

import (
	"testing"

	"dirpx.dev/promptpm/dxcore/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfiesRange(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		expression string
		want       bool
	}{
		{"wildcard matches anything", "9.9.9", "*", true},
		{"empty expression matches anything", "1.0.0", "", true},
		{"exact match", "1.2.3", "1.2.3", true},
		{"exact mismatch", "1.2.4", "1.2.3", false},
		{"gte", "2.0.0", ">=1.0.0", true},
		{"lt", "1.0.0", "<1.0.0", false},
		{"caret major nonzero", "1.9.9", "^1.2.3", true},
		{"caret major nonzero upper excluded", "2.0.0", "^1.2.3", false},
		{"caret major zero holds minor", "0.2.9", "^0.2.3", true},
		{"caret major zero minor bump excluded", "0.3.0", "^0.2.3", false},
		{"caret major and minor zero holds patch", "0.0.3", "^0.0.3", true},
		{"caret major and minor zero next patch excluded", "0.0.4", "^0.0.3", false},
		{"tilde allows patch bumps", "1.2.9", "~1.2.3", true},
		{"tilde excludes minor bump", "1.3.0", "~1.2.3", false},
		{"AND via space", "1.5.0", ">=1.0.0 <2.0.0", true},
		{"AND via comma", "1.5.0", ">=1.0.0,<2.0.0", true},
		{"AND fails one clause", "2.5.0", ">=1.0.0 <2.0.0", false},
		{"OR matches second alternative", "3.0.0", "1.2.3 || ^3.0.0", true},
		{"OR matches neither", "4.0.0", "1.2.3 || ^3.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := semver.MustParseVersion(tt.version)
			got, err := semver.SatisfiesRange(v, tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRange_InvalidExpression(t *testing.T) {
	tests := []string{
		"1.2.3 ||",
		">=",
		"not-a-version",
		"^",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := semver.ParseRange(expr)
			assert.Error(t, err)
		})
	}
}

func TestRange_String(t *testing.T) {
	r, err := semver.ParseRange("^1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "^1.2.3", r.String())
}
