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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunList_Empty(t *testing.T) {
	result := runList(t.TempDir())
	require.True(t, result.OK)
	assert.Equal(t, 0, result.Data["count"])
	assert.Empty(t, result.Data["modules"])
}

func TestRunList_ReturnsInstalledModules(t *testing.T) {
	registryRoot := t.TempDir()
	installFixture(t, registryRoot, "formatter", "1.0.0")
	installFixture(t, registryRoot, "greeter", "1.0.0")

	result := runList(registryRoot)
	require.True(t, result.OK)
	assert.Equal(t, 2, result.Data["count"])
}

func TestRunList_RejectsRemoteRegistry(t *testing.T) {
	result := runList("http://example.com/registry")
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
}
