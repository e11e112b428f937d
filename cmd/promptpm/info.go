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
	"fmt"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/registry"
	"dirpx.dev/promptpm/dxcore/schema"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	var localJSON, localPretty bool

	cmd := &cobra.Command{
		Use:   "info <module_name>",
		Short: "Show every installed version of a module, with its metadata and interface",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			emitAndExit(runInfo(args[0], flags.registryPath), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")

	return cmd
}

func runInfo(name, registryPath string) payload.Payload {
	const operation = "info"

	if err := validateRegistryPath(registryPath); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, "pass a local directory to --registry"), nil)
	}

	reg, err := registry.NewLocalRegistry(registryPath)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, ""), nil)
	}

	installed, err := reg.ListByName(name)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, ""), nil)
	}
	if len(installed) == 0 {
		notFound := &dxerrors.DependencyError{
			Path:    registryPath,
			Message: fmt.Sprintf("no installed versions found for module %q", name),
			Hint:    "publish this module first, or check the module name",
		}
		return payload.Failure(operation, payload.ErrorInfoFromErr(notFound, registryPath, notFound.Hint), nil)
	}

	versions := make([]map[string]any, 0, len(installed))
	for _, m := range installed {
		module, err := schema.LoadAndValidate(m.Path)
		if err != nil {
			return payload.Failure(operation, payload.ErrorInfoFromErr(err, m.Path, ""), nil)
		}
		versions = append(versions, map[string]any{
			"name":      m.Name,
			"version":   m.Version,
			"source":    m.Path,
			"metadata":  module.Module,
			"interface": module.Interface,
		})
	}

	return payload.Success(operation, map[string]any{
		"registry_path": registryPath,
		"name":          name,
		"count":         len(versions),
		"versions":      versions,
	})
}
