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

// Package registry implements a local, filesystem-only, content-addressed
// store of installed prompt modules. Every installed (name, version) pair
// gets its own directory under <root>/modules/<name>/<version>/, and is
// immutable once installed: a companion manifest records the sha256 of
// every file in the directory, and every lookup re-verifies it.
//
// There is no network layer here. "Publishing" a module is simply copying
// its validated source tree into the registry; "installing" a dependency
// is reading it back out. The registry's only job is to make that copy
// atomic, deterministic, and tamper-evident.
package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/model"
)

// ModulesDirname is the subdirectory of the registry root that holds every
// installed module, one directory per name, one subdirectory per version.
const ModulesDirname = "modules"

// InstalledModule identifies a module's location within a LocalRegistry
// once it has been installed and its immutability manifest verified.
type InstalledModule struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Path    string `json:"path" yaml:"path"`
}

// TypeName implements model.Identifiable.
func (m InstalledModule) TypeName() string { return "InstalledModule" }

// String implements model.Loggable.
func (m InstalledModule) String() string {
	return fmt.Sprintf("InstalledModule{Name:%s, Version:%s, Path:%s}", m.Name, m.Version, m.Path)
}

// Redacted implements model.Loggable. Filesystem paths under the registry
// root carry no sensitive data.
func (m InstalledModule) Redacted() string { return m.String() }

// IsZero reports whether m is the zero value.
func (m InstalledModule) IsZero() bool {
	return m.Name == "" && m.Version == "" && m.Path == ""
}

// Validate checks that every field of an InstalledModule is populated.
func (m InstalledModule) Validate() error {
	if m.Name == "" {
		return &dxerrors.ValidationError{Type: "InstalledModule", Field: "Name", Reason: "must not be empty"}
	}
	if m.Version == "" {
		return &dxerrors.ValidationError{Type: "InstalledModule", Field: "Version", Reason: "must not be empty"}
	}
	if m.Path == "" {
		return &dxerrors.ValidationError{Type: "InstalledModule", Field: "Path", Reason: "must not be empty"}
	}
	return nil
}

var _ model.Model = (*InstalledModule)(nil)

// LocalRegistry is a directory on disk holding installed prompt modules.
// RootPath is the registry root (conventionally .promptpm_registry);
// ModulesRoot is RootPath/modules.
type LocalRegistry struct {
	RootPath    string
	ModulesRoot string
}

// NewLocalRegistry creates (if necessary) and opens a local registry rooted
// at rootPath.
func NewLocalRegistry(rootPath string) (*LocalRegistry, error) {
	modulesRoot := filepath.Join(rootPath, ModulesDirname)
	if err := os.MkdirAll(modulesRoot, 0o755); err != nil {
		return nil, &dxerrors.InternalError{
			Path:    modulesRoot,
			Message: fmt.Sprintf("cannot create registry root: %v", err),
		}
	}
	return &LocalRegistry{RootPath: rootPath, ModulesRoot: modulesRoot}, nil
}

func (r *LocalRegistry) moduleDirectory(name, version PathSegment) string {
	return filepath.Join(r.ModulesRoot, string(name), string(version))
}

// Install copies the validated module tree rooted at modulePath into the
// registry under <name>/<version>, computing and writing an immutability
// manifest as the final step. The (name, version) pair is immutable once
// installed: a second Install for the same pair fails with a
// PublishConflictError without touching the existing directory.
//
// Installation is staged: files are first copied into a sibling
// "<dest>.tmp" directory, the manifest is written there, and only then is
// the staging directory atomically renamed to its final location. Any
// failure along the way removes the staging directory before returning.
func (r *LocalRegistry) Install(name, version, modulePath string) (InstalledModule, error) {
	nameSeg, err := ParsePathSegment(name)
	if err != nil {
		return InstalledModule{}, err
	}
	versionSeg, err := ParsePathSegment(version)
	if err != nil {
		return InstalledModule{}, err
	}

	dest := r.moduleDirectory(nameSeg, versionSeg)
	if _, err := os.Stat(dest); err == nil {
		return InstalledModule{}, &dxerrors.PublishConflictError{
			Path:    dest,
			Message: fmt.Sprintf("Published version already exists: %s@%s is already installed and immutable", name, version),
			Hint:    "choose a new version, or remove the existing install if this is intentional",
		}
	} else if !os.IsNotExist(err) {
		return InstalledModule{}, &dxerrors.InternalError{Path: dest, Message: fmt.Sprintf("cannot stat destination: %v", err)}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return InstalledModule{}, &dxerrors.InternalError{Path: dest, Message: fmt.Sprintf("cannot create parent directory: %v", err)}
	}

	staging := dest + ".tmp"
	if err := os.RemoveAll(staging); err != nil {
		return InstalledModule{}, &dxerrors.InternalError{Path: staging, Message: fmt.Sprintf("cannot clear stale staging directory: %v", err)}
	}

	if err := r.install(modulePath, staging, string(nameSeg), string(versionSeg)); err != nil {
		_ = os.RemoveAll(staging)
		return InstalledModule{}, err
	}

	if err := os.Rename(staging, dest); err != nil {
		_ = os.RemoveAll(staging)
		return InstalledModule{}, &dxerrors.InternalError{Path: dest, Message: fmt.Sprintf("cannot finalize install: %v", err)}
	}

	return InstalledModule{Name: string(nameSeg), Version: string(versionSeg), Path: dest}, nil
}

func (r *LocalRegistry) install(modulePath, staging, name, version string) error {
	if err := copyTreeDeterministic(modulePath, staging); err != nil {
		return err
	}

	manifest, err := buildManifest(staging, name, version)
	if err != nil {
		return err
	}
	if err := manifest.Validate(); err != nil {
		return err
	}
	return writeManifest(staging, manifest)
}

// copyTreeDeterministic copies every regular file from src into dst,
// walking src in the same deterministic, symlink-rejecting order the
// registry uses everywhere else. Directory structure is recreated as
// needed; file permissions are preserved.
func copyTreeDeterministic(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return &dxerrors.InternalError{Path: dst, Message: fmt.Sprintf("cannot create staging directory: %v", err)}
	}

	files, err := walkFilesSorted(src)
	if err != nil {
		return err
	}

	for _, full := range files {
		rel, err := relPosix(src, full)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return &dxerrors.InternalError{Path: destPath, Message: fmt.Sprintf("cannot create directory: %v", err)}
		}
		if err := copyFile(full, destPath); err != nil {
			return &dxerrors.InternalError{Path: destPath, Message: fmt.Sprintf("cannot copy file: %v", err)}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Lookup returns the installed module for (name, version), verifying its
// immutability manifest before returning. A DependencyError is returned if
// the module is not installed or fails verification.
func (r *LocalRegistry) Lookup(name, version string) (InstalledModule, error) {
	nameSeg, err := ParsePathSegment(name)
	if err != nil {
		return InstalledModule{}, err
	}
	versionSeg, err := ParsePathSegment(version)
	if err != nil {
		return InstalledModule{}, err
	}

	dir := r.moduleDirectory(nameSeg, versionSeg)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return InstalledModule{}, &dxerrors.DependencyError{
			Path:    dir,
			Message: fmt.Sprintf("module %s@%s is not installed", name, version),
			Hint:    "run install for this module and version first",
		}
	}

	if err := verifyManifest(dir, string(nameSeg), string(versionSeg)); err != nil {
		return InstalledModule{}, err
	}

	return InstalledModule{Name: string(nameSeg), Version: string(versionSeg), Path: dir}, nil
}

// HasVersion reports whether (name, version) is installed, without
// surfacing verification errors to the caller as a hard failure.
func (r *LocalRegistry) HasVersion(name, version string) (bool, error) {
	_, err := r.Lookup(name, version)
	if err == nil {
		return true, nil
	}
	var depErr *dxerrors.DependencyError
	if errors.As(err, &depErr) {
		return false, nil
	}
	return false, err
}

// ListByName returns every installed version of name, sorted by the raw
// directory name, each verified against its own manifest.
func (r *LocalRegistry) ListByName(name string) ([]InstalledModule, error) {
	nameSeg, err := ParsePathSegment(name)
	if err != nil {
		return nil, err
	}

	nameDir := filepath.Join(r.ModulesRoot, string(nameSeg))
	entries, err := os.ReadDir(nameDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &dxerrors.InternalError{Path: nameDir, Message: fmt.Sprintf("cannot list versions: %v", err)}
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)

	modules := make([]InstalledModule, 0, len(versions))
	for _, version := range versions {
		m, err := r.Lookup(string(nameSeg), version)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// ListInstalled returns every installed module across every name, sorted
// by name then version.
func (r *LocalRegistry) ListInstalled() ([]InstalledModule, error) {
	entries, err := os.ReadDir(r.ModulesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &dxerrors.InternalError{Path: r.ModulesRoot, Message: fmt.Sprintf("cannot list registry: %v", err)}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var modules []InstalledModule
	for _, name := range names {
		byName, err := r.ListByName(name)
		if err != nil {
			return nil, err
		}
		modules = append(modules, byName...)
	}
	return modules, nil
}
