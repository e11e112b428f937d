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
	"path/filepath"

	"dirpx.dev/promptpm/dxcore/registry"
	"dirpx.dev/promptpm/dxcore/resolver"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	var localJSON, localPretty bool

	cmd := &cobra.Command{
		Use:   "install [path]",
		Short: "Resolve a prompt module's dependency graph against the local registry",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			emitAndExit(runInstall(path, flags.registryPath), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")

	return cmd
}

func runInstall(path, registryPath string) payload.Payload {
	const operation = "install"

	absModulePath, _ := filepath.Abs(path)

	if err := validateRegistryPath(registryPath); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, "pass a local directory to --registry"), nil)
	}

	reg, err := registry.NewLocalRegistry(registryPath)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, ""), nil)
	}

	resolved, err := resolver.NewDependencyResolver(reg).ResolveForModule(path)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absModulePath, ""), nil)
	}

	installed := make([]map[string]any, 0, len(resolved))
	for _, dep := range resolved {
		installed = append(installed, map[string]any{
			"name":    dep.Name,
			"version": dep.Version,
			"path":    dep.Path,
		})
	}

	return payload.Success(operation, map[string]any{
		"module_path":   absModulePath,
		"registry_path": registryPath,
		"installed":     installed,
		"count":         len(installed),
	})
}
