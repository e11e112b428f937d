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

func writePublishableModule(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "greet.tmpl"), []byte("Hello, {{name}}!"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promptpm.yaml"), []byte(runnableGreeterModule), 0o644))
}

func TestRunPublish_Success(t *testing.T) {
	registryRoot := t.TempDir()
	moduleDir := t.TempDir()
	writePublishableModule(t, moduleDir)

	result := runPublish(moduleDir, registryRoot)
	require.True(t, result.OK)
	assert.Equal(t, "publish", result.Operation)
	assert.Equal(t, "greeter", result.Data["name"])
	assert.Equal(t, "1.0.0", result.Data["version"])
}

// TestRunPublish_Conflict exercises S2: publishing the same (name, version)
// twice must fail with a message containing the literal substring "already
// exists".
func TestRunPublish_Conflict(t *testing.T) {
	registryRoot := t.TempDir()
	moduleDir := t.TempDir()
	writePublishableModule(t, moduleDir)

	first := runPublish(moduleDir, registryRoot)
	require.True(t, first.OK)

	second := runPublish(moduleDir, registryRoot)
	require.False(t, second.OK)
	require.NotNil(t, second.Error)
	assert.Equal(t, dxerrors.CodePublishConflict, second.Error.Code)
	assert.Contains(t, second.Error.Message, "already exists")
}

func TestRunPublish_FailingTestsBlockPublish(t *testing.T) {
	registryRoot := t.TempDir()
	moduleDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(moduleDir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "templates", "greet.tmpl"), []byte("Hello, {{unused}}!"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(moduleDir, "promptpm.yaml"), []byte(runnableGreeterModule), 0o644))

	result := runPublish(moduleDir, registryRoot)
	require.False(t, result.OK)
	require.NotNil(t, result.Error)
	assert.Equal(t, dxerrors.CodeTestFailure, result.Error.Code)

	entries, err := os.ReadDir(registryRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
