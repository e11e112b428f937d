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

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModule(t *testing.T, dir, yaml, templateName, templateContent string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promptpm.yaml"), []byte(yaml), 0o644))
	if templateName != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, templateName), []byte(templateContent), 0o644))
	}
}

const validModuleYAML = `
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
tests:
  - name: greets_by_name
    inputs:
      name: Ada
    assertions:
      - contains: Ada
`

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, validModuleYAML, "template.prompt", "Hello {{name}}")

	result := runValidate(dir)
	require.True(t, result.OK)
	assert.Equal(t, "validate", result.Operation)
	assert.Equal(t, dir, result.Data["path"])
}

// TestRunValidate_UndeclaredPlaceholder exercises S5: an undeclared
// placeholder must produce a message containing the exact, capitalized
// substring the original tool emits.
func TestRunValidate_UndeclaredPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, `
module:
  name: greeter
  version: 1.0.0
  description: Greets a user.
prompt:
  template: template.prompt
  placeholders:
    - nickname
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
`, "template.prompt", "Hello {{name}}")

	result := runValidate(dir)
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
	assert.Equal(t, dxerrors.CodeValidationError, result.Error.Code)
	assert.Contains(t, result.Error.Message, "Undeclared placeholders used in template: nickname")
}

func TestRunValidate_MissingManifest(t *testing.T) {
	result := runValidate(t.TempDir())
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
}
