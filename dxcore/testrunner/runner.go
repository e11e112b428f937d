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

// Package testrunner deterministically renders a prompt module's template
// against each declared test case's inputs and evaluates that test case's
// assertions against the rendered text. There is no model invocation: a
// template is plain text with "{{key}}" or "{key}" placeholders, and
// rendering is pure string substitution.
package testrunner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/schema"
)

// TestCaseResult is the outcome of rendering and asserting one test case.
type TestCaseResult struct {
	Name     string
	Passed   bool
	Failures []AssertionFailure
}

// TestRunResult is the aggregate outcome of running every test case
// declared by a module.
type TestRunResult struct {
	Total   int
	Passed  int
	Failed  int
	Results []TestCaseResult
}

type parsedTestCase struct {
	name          string
	inputs        map[string]any
	assertions    []map[string]any
	originalIndex int
}

// RunPromptModuleTests loads and validates the module at modulePath, then
// renders and evaluates every declared test case in deterministic order
// (sorted by name, then by declaration order for ties).
func RunPromptModuleTests(modulePath string) (TestRunResult, error) {
	module, err := schema.LoadAndValidate(modulePath)
	if err != nil {
		return TestRunResult{}, err
	}

	parsedTests, err := parseTests(module.Tests)
	if err != nil {
		return TestRunResult{}, err
	}

	template, err := loadTemplate(module.SourcePath, module.Prompt)
	if err != nil {
		return TestRunResult{}, err
	}

	moduleRoot := filepath.Dir(module.SourcePath)

	results := make([]TestCaseResult, 0, len(parsedTests))
	for _, tc := range parsedTests {
		rendered, err := renderTemplate(template, tc.inputs, moduleRoot)
		if err != nil {
			return TestRunResult{}, err
		}
		failures, err := evaluateAssertions(tc.name, rendered, tc.assertions)
		if err != nil {
			return TestRunResult{}, err
		}
		results = append(results, TestCaseResult{Name: tc.name, Passed: len(failures) == 0, Failures: failures})
	}

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	return TestRunResult{
		Total:   len(results),
		Passed:  passed,
		Failed:  len(results) - passed,
		Results: results,
	}, nil
}

func loadTemplate(sourcePath string, prompt schema.PromptBlock) (string, error) {
	if prompt.Template == "" {
		return "", &dxerrors.ValidationError{Type: "PromptBlock", Field: "Template", Reason: "must be a non-empty string"}
	}

	moduleRoot := filepath.Dir(sourcePath)
	templatePath := filepath.Join(moduleRoot, prompt.Template)

	info, err := os.Stat(templatePath)
	if err != nil || info.IsDir() {
		return "", &dxerrors.ValidationError{Type: "PromptBlock", Field: "Template", Reason: fmt.Sprintf("template file not found: %s", templatePath)}
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", &dxerrors.InternalError{Path: templatePath, Message: "cannot read template: " + err.Error()}
	}
	return string(data), nil
}

func parseTests(raw []schema.TestCase) ([]parsedTestCase, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	parsed := make([]parsedTestCase, 0, len(raw))
	for index, tc := range raw {
		name := strings.TrimSpace(tc.Name)
		if name == "" {
			return nil, &dxerrors.ValidationError{Type: "TestCase", Reason: fmt.Sprintf("tests[%d].name must be a non-empty string", index)}
		}
		if tc.Assertions == nil {
			return nil, &dxerrors.ValidationError{Type: "TestCase", Reason: fmt.Sprintf("tests[%d].assertions must be a list", index)}
		}
		for assertionIndex, assertion := range tc.Assertions {
			if len(assertion) != 1 {
				return nil, &dxerrors.ValidationError{
					Type:   "TestCase",
					Reason: fmt.Sprintf("tests[%d].assertions[%d] must define exactly one assertion", index, assertionIndex),
				}
			}
		}

		inputs := tc.Inputs
		if inputs == nil {
			inputs = map[string]any{}
		}

		parsed = append(parsed, parsedTestCase{
			name:          name,
			inputs:        inputs,
			assertions:    tc.Assertions,
			originalIndex: index,
		})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].name != parsed[j].name {
			return parsed[i].name < parsed[j].name
		}
		return parsed[i].originalIndex < parsed[j].originalIndex
	})

	return parsed, nil
}

func renderTemplate(template string, inputs map[string]any, moduleRoot string) (string, error) {
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rendered := template
	for _, key := range keys {
		value := resolveInputValue(inputs[key], moduleRoot)
		text, err := stringifyValue(value)
		if err != nil {
			return "", &dxerrors.InternalError{Message: fmt.Sprintf("cannot stringify input %q: %v", key, err)}
		}
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", text)
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", text)
	}
	return rendered, nil
}

func resolveInputValue(value any, moduleRoot string) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	candidate := filepath.Join(moduleRoot, s)
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return s
	}
	data, err := os.ReadFile(candidate)
	if err != nil {
		return s
	}
	return string(data)
}

// stringifyValue renders a non-string input value as compact JSON.
// encoding/json already marshals map keys in sorted order, matching the
// deterministic output the template renderer needs for reproducible tests.
func stringifyValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
