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
	"os"
	"path/filepath"
	"sort"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

const initModuleYAMLTemplate = `module:
  name: %s
  version: %s
  description: A prompt module scaffolded by promptpm init.
prompt:
  template: template.prompt
  placeholders:
    - document
interface:
  intent: Summarize a technical document.
  inputs:
    - name: document
      type: string
      description: The source document to summarize.
      required: true
  outputs:
    - type: structured_summary
      description: A structured summary of the document.
tests:
  - name: basic
    inputs:
      document: document.txt
    assertions:
      - contains: Summary
`

const initTemplateContent = "Summary:\n{{document}}\n"

func newInitCmd() *cobra.Command {
	var (
		localJSON, localPretty bool
		name, version          string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Scaffold a new prompt module in an empty directory",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			emitAndExit(runInit(path, name, version), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")
	cmd.Flags().StringVar(&name, "name", "", "module name (defaults to the directory name)")
	cmd.Flags().StringVar(&version, "version", "0.1.0", "initial module version")

	return cmd
}

func runInit(path, name, version string) payload.Payload {
	const operation = "init"

	absPath, err := filepath.Abs(path)
	if err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, path, ""), nil)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(
			&dxerrors.InternalError{Path: absPath, Message: fmt.Sprintf("cannot create module directory: %v", err)}, absPath, ""), nil)
	}

	yamlPath := filepath.Join(absPath, "promptpm.yaml")
	templatePath := filepath.Join(absPath, "template.prompt")
	testsDir := filepath.Join(absPath, "tests")

	conflicts := existingPaths(map[string]string{
		"promptpm.yaml":   yamlPath,
		"template.prompt": templatePath,
		"tests/":          testsDir,
	})
	if len(conflicts) > 0 {
		err := &dxerrors.ValidationError{
			Type:   "ModuleScaffold",
			Reason: fmt.Sprintf("refusing to overwrite existing files: %s", joinSorted(conflicts)),
		}
		hint := "Run `promptpm init` in an empty module directory or remove conflicting files."
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absPath, hint), nil)
	}

	if name == "" {
		name = filepath.Base(absPath)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = "prompt-module"
		}
	}

	if err := os.WriteFile(yamlPath, []byte(fmt.Sprintf(initModuleYAMLTemplate, name, version)), 0o644); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(
			&dxerrors.InternalError{Path: yamlPath, Message: fmt.Sprintf("cannot write promptpm.yaml: %v", err)}, yamlPath, ""), nil)
	}
	if err := os.WriteFile(templatePath, []byte(initTemplateContent), 0o644); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(
			&dxerrors.InternalError{Path: templatePath, Message: fmt.Sprintf("cannot write template.prompt: %v", err)}, templatePath, ""), nil)
	}
	if err := os.MkdirAll(testsDir, 0o755); err != nil {
		return payload.Failure(operation, payload.ErrorInfoFromErr(
			&dxerrors.InternalError{Path: testsDir, Message: fmt.Sprintf("cannot create tests directory: %v", err)}, testsDir, ""), nil)
	}

	return payload.Success(operation, map[string]any{
		"path":    absPath,
		"created": []string{"promptpm.yaml", "template.prompt", "tests/"},
		"module":  map[string]any{"name": name, "version": version},
	})
}

func existingPaths(named map[string]string) []string {
	var present []string
	for label, path := range named {
		if _, err := os.Stat(path); err == nil {
			present = append(present, label)
		}
	}
	sort.Strings(present)
	return present
}

func joinSorted(items []string) string {
	sorted := append([]string{}, items...)
	sort.Strings(sorted)
	out := ""
	for i, item := range sorted {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
