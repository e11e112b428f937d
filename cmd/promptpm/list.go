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
	"dirpx.dev/promptpm/dxcore/registry"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var localJSON, localPretty bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every module installed in the local registry",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			emitAndExit(runList(flags.registryPath), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")

	return cmd
}

func runList(registryPath string) payload.Payload {
	const operation = "list"

	if err := validateRegistryPath(registryPath); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, "pass a local directory to --registry"), nil)
	}

	reg, err := registry.NewLocalRegistry(registryPath)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, ""), nil)
	}

	installed, err := reg.ListInstalled()
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, ""), nil)
	}

	modules := make([]map[string]any, 0, len(installed))
	for _, m := range installed {
		modules = append(modules, map[string]any{
			"name":    m.Name,
			"version": m.Version,
			"source":  m.Path,
		})
	}

	return payload.Success(operation, map[string]any{
		"registry_path": registryPath,
		"count":         len(modules),
		"modules":       modules,
	})
}
