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
	"path/filepath"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/registry"
	"dirpx.dev/promptpm/dxcore/schema"
	"dirpx.dev/promptpm/dxcore/testrunner"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

func newPublishCmd() *cobra.Command {
	var localJSON, localPretty bool

	cmd := &cobra.Command{
		Use:   "publish [path]",
		Short: "Validate, test, and install a prompt module into the local registry",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			emitAndExit(runPublish(path, flags.registryPath), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")

	return cmd
}

// runPublish mirrors the order the original tool enforces: load and
// validate the module, run its test suite, and only after the suite
// passes check whether (name, version) is already installed. A module
// that fails its own tests never reaches the publish-conflict check.
func runPublish(path, registryPath string) payload.Payload {
	const operation = "publish"

	absModulePath, _ := filepath.Abs(path)

	module, err := schema.LoadAndValidate(path)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absModulePath, ""), nil)
	}

	testResult, err := testrunner.RunPromptModuleTests(path)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absModulePath, ""), nil)
	}
	if testResult.Failed > 0 {
		errInfo := &payload.ErrorInfo{
			Code:    dxerrors.CodeTestFailure,
			Message: "module has failing tests; fix them before publishing",
			Hint:    "run `promptpm test` for the full failure list",
			Path:    absModulePath,
		}
		return payload.Failure(operation, errInfo, testResultData(path, testResult))
	}

	if err := validateRegistryPath(registryPath); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, "pass a local directory to --registry"), nil)
	}

	reg, err := registry.NewLocalRegistry(registryPath)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, registryPath, ""), nil)
	}

	if exists, err := reg.HasVersion(module.Module.Name, module.Module.Version); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absModulePath, ""), nil)
	} else if exists {
		conflictErr := &dxerrors.PublishConflictError{
			Path:    absModulePath,
			Message: fmt.Sprintf("Published version already exists: %s@%s", module.Module.Name, module.Module.Version),
			Hint:    "bump the version in promptpm.yaml before publishing again",
		}
		return payload.Failure(operation, payload.ErrorInfoFromErr(conflictErr, absModulePath, conflictErr.Hint), nil)
	}

	installed, err := reg.Install(module.Module.Name, module.Module.Version, path)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absModulePath, ""), nil)
	}

	return payload.Success(operation, map[string]any{
		"module_path":    absModulePath,
		"registry_path":  registryPath,
		"name":           installed.Name,
		"version":        installed.Version,
		"published_path": installed.Path,
		"identifier":     fmt.Sprintf("%s@%s", installed.Name, installed.Version),
		"tests": map[string]any{
			"total":  testResult.Total,
			"passed": testResult.Passed,
			"failed": testResult.Failed,
		},
	})
}
