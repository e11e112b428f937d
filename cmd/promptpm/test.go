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

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/testrunner"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	var localJSON, localPretty bool

	cmd := &cobra.Command{
		Use:   "test [path]",
		Short: "Render a prompt module's template and run its deterministic test suite",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mode := mergedOutputMode(localJSON, localPretty)
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			emitAndExit(runTest(path), mode)
		},
	}

	cmd.Flags().BoolVar(&localJSON, "json", false, "emit a single compact JSON payload")
	cmd.Flags().BoolVar(&localPretty, "pretty", false, "emit a human-oriented multi-line summary")

	return cmd
}

func runTest(path string) payload.Payload {
	const operation = "test"

	result, err := testrunner.RunPromptModuleTests(path)
	if err != nil {
		absPath, _ := filepath.Abs(path)
		return payload.Failure(operation, payload.ErrorInfoFromErr(err, absPath, ""), nil)
	}

	data := testResultData(path, result)

	if result.Failed > 0 {
		absPath, _ := filepath.Abs(path)
		errInfo := &payload.ErrorInfo{
			Code:    dxerrors.CodeTestFailure,
			Message: "one or more test cases failed",
			Hint:    "inspect the failures list for the failing assertions",
			Path:    absPath,
		}
		return payload.Failure(operation, errInfo, data)
	}

	return payload.Success(operation, data)
}

func testResultData(path string, result testrunner.TestRunResult) map[string]any {
	results := make([]map[string]any, 0, len(result.Results))
	var failures []map[string]any

	for _, r := range result.Results {
		status := "passed"
		if !r.Passed {
			status = "failed"
		}
		results = append(results, map[string]any{
			"name":          r.Name,
			"status":        status,
			"failure_count": len(r.Failures),
		})
		for _, f := range r.Failures {
			failures = append(failures, map[string]any{
				"test_name":       f.TestName,
				"assertion_index": f.AssertionIndex,
				"assertion_type":  f.AssertionType,
				"message":         f.Message,
				"expected":        f.Expected,
				"actual":          f.Actual,
			})
		}
	}
	if failures == nil {
		failures = []map[string]any{}
	}

	return map[string]any{
		"module_path": path,
		"total":       result.Total,
		"passed":      result.Passed,
		"failed":      result.Failed,
		"results":     results,
		"failures":    failures,
	}
}
