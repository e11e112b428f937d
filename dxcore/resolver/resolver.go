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

// Package resolver resolves a prompt module's transitive dependency graph
// against a local registry: a deterministic depth-first walk that detects
// cycles and picks, for every declared (name, range) pair, the highest
// installed version satisfying the range.
//
// There is no lockfile and no SAT solving: each dependency's declared range
// is resolved independently against whatever is currently installed, and
// the same inputs always produce the same resolution order.
package resolver

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/registry"
	"dirpx.dev/promptpm/dxcore/schema"
	"dirpx.dev/promptpm/dxcore/semver"
)

// ResolvedDependency is one entry of a module's flattened, dependency-first
// resolution order.
type ResolvedDependency struct {
	Name    string
	Version string
	Path    string
}

// DependencyResolver resolves dependency graphs against a fixed registry.
type DependencyResolver struct {
	Registry *registry.LocalRegistry
}

// NewDependencyResolver returns a resolver backed by reg.
func NewDependencyResolver(reg *registry.LocalRegistry) *DependencyResolver {
	return &DependencyResolver{Registry: reg}
}

// ResolveForModule loads and validates the module at modulePath, then
// resolves its full transitive dependency set. The returned slice is in
// dependency-first order: every dependency appears before any module that
// depends on it, and the root module itself is never included.
func (r *DependencyResolver) ResolveForModule(modulePath string) ([]ResolvedDependency, error) {
	module, err := schema.LoadAndValidate(modulePath)
	if err != nil {
		return nil, err
	}

	var (
		resolved []ResolvedDependency
		visiting []string
		visited  = make(map[string]bool)
	)

	deps, err := normalizeDependencies(module.Dependencies, module.SourcePath)
	if err != nil {
		return nil, err
	}

	for _, dep := range deps {
		installed, err := r.selectInstalledVersion(dep.Name, dep.Version, module.SourcePath)
		if err != nil {
			return nil, err
		}
		if err := r.visit(installed, &resolved, &visiting, visited); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

func (r *DependencyResolver) visit(
	module registry.InstalledModule,
	resolved *[]ResolvedDependency,
	visiting *[]string,
	visited map[string]bool,
) error {
	nodeID := fmt.Sprintf("%s@%s", module.Name, module.Version)
	if visited[nodeID] {
		return nil
	}

	for _, v := range *visiting {
		if v == nodeID {
			cycle := append(append([]string{}, *visiting...), nodeID)
			return &dxerrors.DependencyError{
				Message: fmt.Sprintf("cyclic dependency detected: %s", strings.Join(cycle, " -> ")),
			}
		}
	}

	*visiting = append(*visiting, nodeID)
	defer func() { *visiting = (*visiting)[:len(*visiting)-1] }()

	loaded, err := schema.LoadAndValidate(module.Path)
	if err != nil {
		return err
	}

	deps, err := normalizeDependencies(loaded.Dependencies, nodeID)
	if err != nil {
		return err
	}

	for _, dep := range deps {
		installed, err := r.selectInstalledVersion(dep.Name, dep.Version, nodeID)
		if err != nil {
			return err
		}
		if err := r.visit(installed, resolved, visiting, visited); err != nil {
			return err
		}
	}

	visited[nodeID] = true
	absPath, err := filepath.Abs(module.Path)
	if err != nil {
		absPath = module.Path
	}
	*resolved = append(*resolved, ResolvedDependency{Name: module.Name, Version: module.Version, Path: absPath})

	return nil
}

func (r *DependencyResolver) selectInstalledVersion(name, versionRange, parent string) (registry.InstalledModule, error) {
	candidates, err := r.Registry.ListByName(name)
	if err != nil {
		return registry.InstalledModule{}, err
	}
	if len(candidates) == 0 {
		return registry.InstalledModule{}, &dxerrors.DependencyError{
			Message: fmt.Sprintf("dependency not found for %s: %s (%s)", parent, name, versionRange),
			Hint:    "publish or install the dependency before resolving this module",
		}
	}

	type candidate struct {
		version   semver.Version
		installed registry.InstalledModule
	}
	var matching []candidate

	for _, c := range candidates {
		parsed, err := semver.ParseVersion(c.Version)
		if err != nil {
			return registry.InstalledModule{}, &dxerrors.DependencyError{
				Message: fmt.Sprintf("invalid semantic version while resolving %s (%s) for %s: %v", name, versionRange, parent, err),
			}
		}
		ok, err := semver.SatisfiesRange(parsed, versionRange)
		if err != nil {
			return registry.InstalledModule{}, &dxerrors.DependencyError{
				Message: fmt.Sprintf("invalid version range while resolving %s for %s: %v", name, parent, err),
			}
		}
		if ok {
			matching = append(matching, candidate{version: parsed, installed: c})
		}
	}

	if len(matching) == 0 {
		return registry.InstalledModule{}, &dxerrors.DependencyError{
			Message: fmt.Sprintf("no installed versions satisfy dependency for %s: %s (%s)", parent, name, versionRange),
			Hint:    "install a version of this dependency that satisfies the declared range",
		}
	}

	sort.SliceStable(matching, func(i, j int) bool {
		if cmp := matching[i].version.Compare(matching[j].version); cmp != 0 {
			return cmp < 0
		}
		return matching[i].installed.Version < matching[j].installed.Version
	})

	return matching[len(matching)-1].installed, nil
}

func normalizeDependencies(raw []schema.DependencySpec, owner string) ([]schema.DependencySpec, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	parsed := make([]schema.DependencySpec, 0, len(raw))
	for index, dep := range raw {
		name := strings.TrimSpace(dep.Name)
		version := strings.TrimSpace(dep.Version)
		if name == "" {
			return nil, &dxerrors.DependencyError{Message: fmt.Sprintf("dependency.name is required in %s at index %d", owner, index)}
		}
		if version == "" {
			return nil, &dxerrors.DependencyError{Message: fmt.Sprintf("dependency.version is required in %s at index %d", owner, index)}
		}
		parsed = append(parsed, schema.DependencySpec{Name: name, Version: version})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].Name != parsed[j].Name {
			return parsed[i].Name < parsed[j].Name
		}
		return parsed[i].Version < parsed[j].Version
	})

	return parsed, nil
}
