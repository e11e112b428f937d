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
	"encoding/json"
	"testing"

	"dirpx.dev/promptpm/dxcore/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    semver.Version
		wantErr bool
	}{
		{"basic", "1.2.3", semver.Version{Major: 1, Minor: 2, Patch: 3}, false},
		{"v-prefixed", "v2.0.0", semver.Version{Major: 2, Minor: 0, Patch: 0}, false},
		{"prerelease", "1.0.0-alpha.1", semver.Version{Major: 1, Prerelease: "alpha.1"}, false},
		{"metadata", "1.0.0+build.123", semver.Version{Major: 1, Metadata: "build.123"}, false},
		{"prerelease and metadata", "2.0.0-rc.1+exp.sha.1", semver.Version{Major: 2, Prerelease: "rc.1", Metadata: "exp.sha.1"}, false},
		{"leading zero major", "01.0.0", semver.Version{}, true},
		{"leading zero prerelease", "1.0.0-01", semver.Version{}, true},
		{"missing patch", "1.2", semver.Version{}, true},
		{"empty", "", semver.Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := semver.ParseVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion_String(t *testing.T) {
	v := semver.Version{Major: 1, Minor: 2, Patch: 3, Prerelease: "rc.1", Metadata: "build.5"}
	assert.Equal(t, "1.2.3-rc.1+build.5", v.String())
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1.0.0", "1.0.0", 0},
		{"major less", "1.0.0", "2.0.0", -1},
		{"patch greater", "1.0.1", "1.0.0", 1},
		{"prerelease lower than release", "1.0.0-alpha", "1.0.0", -1},
		{"numeric prerelease orders as int", "1.0.0-alpha.2", "1.0.0-alpha.10", -1},
		{"numeric lower precedence than alpha", "1.0.0-1", "1.0.0-alpha", -1},
		{"longer prerelease list wins on equal prefix", "1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"build metadata ignored", "1.0.0+build1", "1.0.0+build2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := semver.MustParseVersion(tt.a)
			b := semver.MustParseVersion(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
		})
	}
}

func TestVersion_JSONRoundTrip(t *testing.T) {
	v := semver.MustParseVersion("1.2.3-rc.1+build.5")
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"1.2.3-rc.1+build.5"`, string(data))

	var decoded semver.Version
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, v.Equal(decoded))
}

func TestVersion_YAMLRoundTrip(t *testing.T) {
	v := semver.MustParseVersion("3.4.5")
	data, err := yaml.Marshal(v)
	require.NoError(t, err)

	var decoded semver.Version
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.True(t, v.Equal(decoded))
}

func TestVersion_Validate(t *testing.T) {
	assert.NoError(t, semver.Version{Major: 1}.Validate())
	assert.Error(t, semver.Version{Major: -1}.Validate())
}

func TestVersion_IsZero(t *testing.T) {
	assert.True(t, semver.Version{}.IsZero())
	assert.False(t, semver.MustParseVersion("0.0.0-alpha").IsZero())
}
