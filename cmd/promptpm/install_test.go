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

func installFixture(t *testing.T, registryRoot, name, version string) {
	t.Helper()
	reg, err := registry.NewLocalRegistry(registryRoot)
	require.NoError(t, err)

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "templates", "greet.tmpl"), []byte("hello {{name}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "promptpm.yaml"), []byte(
		"module:\n  name: "+name+"\n  version: "+version+"\n  description: Test fixture.\n"+
			"prompt:\n  template: templates/greet.tmpl\n  placeholders:\n    - name\n"+
			"interface:\n  intent: Greet someone.\n  inputs:\n    - name: name\n      type: string\n"+
			"      description: The person to greet.\n      required: true\n"+
			"  outputs:\n    - type: string\n      description: The greeting text.\n"), 0o644))

	_, err = reg.Install(name, version, src)
	require.NoError(t, err)
}

func TestRunInstall_ResolvesDependencies(t *testing.T) {
	registryRoot := t.TempDir()
	installFixture(t, registryRoot, "formatter", "1.0.0")

	moduleDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "promptpm.yaml"), []byte(`
module:
  name: greeter
  version: 1.0.0
  description: Greets a user by name.
prompt:
  template: template.prompt
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
dependencies:
  - name: formatter
    version: "^1.0.0"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "template.prompt"), []byte("Hello {{name}}"), 0o644))

	result := runInstall(moduleDir, registryRoot)
	require.True(t, result.OK)
	assert.Equal(t, "install", result.Operation)
	assert.Equal(t, 1, result.Data["count"])
}

func TestRunInstall_MissingDependency(t *testing.T) {
	registryRoot := t.TempDir()
	moduleDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "promptpm.yaml"), []byte(`
module:
  name: greeter
  version: 1.0.0
  description: Greets a user by name.
prompt:
  template: template.prompt
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
dependencies:
  - name: formatter
    version: "^1.0.0"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "template.prompt"), []byte("Hello {{name}}"), 0o644))

	result := runInstall(moduleDir, registryRoot)
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
}

func TestRunInstall_RejectsRemoteRegistry(t *testing.T) {
	result := runInstall(t.TempDir(), "https://example.com/registry")
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
}
