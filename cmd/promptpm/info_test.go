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
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/promptpm/dxcore/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installValidatableFixture(t *testing.T, registryRoot, version string) {
	t.Helper()
	reg, err := registry.NewLocalRegistry(registryRoot)
	require.NoError(t, err)

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "templates", "greet.tmpl"), []byte("Hello, {{name}}!"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "promptpm.yaml"), []byte(`
module:
  name: greeter
  version: `+version+`
  description: Greets a user by name.
prompt:
  template: templates/greet.tmpl
  placeholders:
    - name
interface:
  intent: Produce a short greeting.
  inputs:
    - name: name
      type: string
      description: The person to greet.
      required: true
  outputs:
    - type: string
      description: The greeting text.
`), 0o644))

	_, err = reg.Install("greeter", version, src)
	require.NoError(t, err)
}

func TestRunInfo_ListsEveryVersion(t *testing.T) {
	registryRoot := t.TempDir()
	installValidatableFixture(t, registryRoot, "1.0.0")
	installValidatableFixture(t, registryRoot, "1.1.0")

	result := runInfo("greeter", registryRoot)
	require.True(t, result.OK)
	assert.Equal(t, 2, result.Data["count"])
}

func TestRunInfo_NotFound(t *testing.T) {
	result := runInfo("missing", t.TempDir())
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
}

func TestRunInfo_RejectsRemoteRegistry(t *testing.T) {
	result := runInfo("greeter", "https://example.com/registry")
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
}
