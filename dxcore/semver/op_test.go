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

func TestParseOp(t *testing.T) {
	tests := []struct {
		input string
		want  semver.Op
	}{
		{"", semver.OpEq},
		{"=", semver.OpEq},
		{"<", semver.OpLt},
		{"<=", semver.OpLte},
		{">", semver.OpGt},
		{">=", semver.OpGte},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := semver.ParseOp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := semver.ParseOp("!=")
	assert.Error(t, err)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "=", semver.OpEq.String())
	assert.Equal(t, "<", semver.OpLt.String())
	assert.Equal(t, "<=", semver.OpLte.String())
	assert.Equal(t, ">", semver.OpGt.String())
	assert.Equal(t, ">=", semver.OpGte.String())
	assert.Equal(t, "unknown", semver.Op(99).String())
}

func TestOp_Matches(t *testing.T) {
	one := semver.MustParseVersion("1.0.0")
	two := semver.MustParseVersion("2.0.0")

	assert.True(t, semver.OpLt.Matches(one, two))
	assert.False(t, semver.OpGt.Matches(one, two))
	assert.True(t, semver.OpLte.Matches(one, one))
	assert.True(t, semver.OpGte.Matches(two, one))
	assert.True(t, semver.OpEq.Matches(one, one))
}
