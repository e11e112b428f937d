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

	"dirpx.dev/promptpm/dxcore/schema"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var localJSON, localPretty bool

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a prompt module's definition against the schema",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			emitAndExit(runValidate(path), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")

	return cmd
}

func runValidate(path string) payload.Payload {
	const operation = "validate"

	module, err := schema.LoadAndValidate(path)
	if err != nil {
		absPath, _ := filepath.Abs(path)
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absPath, "fix the reported issue and re-run promptpm validate"), nil)
	}

	return payload.Success(operation, map[string]any{
		"path":   path,
		"source": module.SourcePath,
	})
}
