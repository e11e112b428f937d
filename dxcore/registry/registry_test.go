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

package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModuleFixture(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "module.yaml"), []byte("name: greeter\nversion: 1.0.0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "prompt.tmpl"), []byte("hello {{name}}"), 0o644))
}

func TestLocalRegistry_InstallAndLookup(t *testing.T) {
	regRoot := t.TempDir()
	srcDir := t.TempDir()
	writeModuleFixture(t, srcDir)

	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	installed, err := reg.Install("greeter", "1.0.0", srcDir)
	require.NoError(t, err)
	assert.Equal(t, "greeter", installed.Name)
	assert.Equal(t, "1.0.0", installed.Version)
	assert.DirExists(t, installed.Path)
	assert.FileExists(t, filepath.Join(installed.Path, registry.ManifestFilename))

	looked, err := reg.Lookup("greeter", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, installed.Path, looked.Path)
}

func TestLocalRegistry_InstallTwice_Conflicts(t *testing.T) {
	regRoot := t.TempDir()
	srcDir := t.TempDir()
	writeModuleFixture(t, srcDir)

	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	_, err = reg.Install("greeter", "1.0.0", srcDir)
	require.NoError(t, err)

	_, err = reg.Install("greeter", "1.0.0", srcDir)
	require.Error(t, err)
	var conflict *dxerrors.PublishConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Message, "already exists")
}

func TestLocalRegistry_Lookup_NotInstalled(t *testing.T) {
	reg, err := registry.NewLocalRegistry(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Lookup("missing", "1.0.0")
	require.Error(t, err)
	var depErr *dxerrors.DependencyError
	assert.ErrorAs(t, err, &depErr)
}

func TestLocalRegistry_Lookup_DetectsTamper(t *testing.T) {
	regRoot := t.TempDir()
	srcDir := t.TempDir()
	writeModuleFixture(t, srcDir)

	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	installed, err := reg.Install("greeter", "1.0.0", srcDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(installed.Path, "templates", "prompt.tmpl"), []byte("tampered"), 0o644))

	_, err = reg.Lookup("greeter", "1.0.0")
	require.Error(t, err)
	var depErr *dxerrors.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, depErr.Message, "Immutability check failed")
	assert.Contains(t, depErr.Message, "changed files")
}

func TestLocalRegistry_Lookup_DetectsMissingFile(t *testing.T) {
	regRoot := t.TempDir()
	srcDir := t.TempDir()
	writeModuleFixture(t, srcDir)

	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	installed, err := reg.Install("greeter", "1.0.0", srcDir)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(installed.Path, "templates", "prompt.tmpl")))

	_, err = reg.Lookup("greeter", "1.0.0")
	require.Error(t, err)
	var depErr *dxerrors.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, depErr.Message, "missing files")
}

func TestLocalRegistry_ListByNameAndListInstalled(t *testing.T) {
	regRoot := t.TempDir()
	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	for _, v := range []string{"2.0.0", "1.0.0", "1.5.0"} {
		src := t.TempDir()
		writeModuleFixture(t, src)
		_, err := reg.Install("greeter", v, src)
		require.NoError(t, err)
	}
	other := t.TempDir()
	writeModuleFixture(t, other)
	_, err = reg.Install("aardvark", "0.1.0", other)
	require.NoError(t, err)

	byName, err := reg.ListByName("greeter")
	require.NoError(t, err)
	require.Len(t, byName, 3)
	assert.Equal(t, []string{"1.0.0", "1.5.0", "2.0.0"}, []string{byName[0].Version, byName[1].Version, byName[2].Version})

	all, err := reg.ListInstalled()
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "aardvark", all[0].Name)
}

func TestLocalRegistry_HasVersion(t *testing.T) {
	regRoot := t.TempDir()
	srcDir := t.TempDir()
	writeModuleFixture(t, srcDir)

	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	ok, err := reg.HasVersion("greeter", "1.0.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = reg.Install("greeter", "1.0.0", srcDir)
	require.NoError(t, err)

	ok, err = reg.HasVersion("greeter", "1.0.0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalRegistry_Install_RejectsSymlinks(t *testing.T) {
	regRoot := t.TempDir()
	srcDir := t.TempDir()
	writeModuleFixture(t, srcDir)
	require.NoError(t, os.Symlink(filepath.Join(srcDir, "module.yaml"), filepath.Join(srcDir, "link.yaml")))

	reg, err := registry.NewLocalRegistry(regRoot)
	require.NoError(t, err)

	_, err = reg.Install("greeter", "1.0.0", srcDir)
	require.Error(t, err)
	var depErr *dxerrors.DependencyError
	assert.ErrorAs(t, err, &depErr)

	assert.NoDirExists(t, filepath.Join(regRoot, registry.ModulesDirname, "greeter", "1.0.0.tmp"))
}

func TestLocalRegistry_Install_RejectsInvalidPathSegment(t *testing.T) {
	reg, err := registry.NewLocalRegistry(t.TempDir())
	require.NoError(t, err)

	_, err = reg.Install("../escape", "1.0.0", t.TempDir())
	require.Error(t, err)
}
