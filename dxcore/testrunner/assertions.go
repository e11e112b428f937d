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

package testrunner

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
)

const previewLimit = 120

// AssertionFailure records one failed assertion within a test case.
type AssertionFailure struct {
	TestName       string
	AssertionIndex int
	AssertionType  string
	Message        string
	Expected       string
	Actual         string
}

func evaluateAssertions(testName, output string, assertions []map[string]any) ([]AssertionFailure, error) {
	var failures []AssertionFailure

	for index, assertion := range assertions {
		assertionType, value, err := singleKey(assertion)
		if err != nil {
			return nil, &dxerrors.ValidationError{
				Type:   "TestCase",
				Reason: fmt.Sprintf("assertions[%d] must define exactly one assertion in test %q", index, testName),
			}
		}

		var failure *AssertionFailure
		switch assertionType {
		case "contains":
			failure, err = evaluateContains(testName, index, output, value, true)
		case "excludes":
			failure, err = evaluateContains(testName, index, output, value, false)
		case "max_length":
			failure, err = evaluateMaxLength(testName, index, output, value)
		case "structure":
			failure, err = evaluateStructure(testName, index, output, value)
		default:
			err = &dxerrors.ValidationError{
				Type:   "TestCase",
				Reason: fmt.Sprintf("unsupported assertion type in test %q at index %d: %q", testName, index, assertionType),
			}
		}
		if err != nil {
			return nil, err
		}
		if failure != nil {
			failures = append(failures, *failure)
		}
	}

	return failures, nil
}

func singleKey(m map[string]any) (string, any, error) {
	if len(m) != 1 {
		return "", nil, fmt.Errorf("expected exactly one key, got %d", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, fmt.Errorf("unreachable")
}

func evaluateContains(testName string, index int, output string, value any, wantContains bool) (*AssertionFailure, error) {
	needle, ok := value.(string)
	if !ok {
		assertionType := "excludes"
		if wantContains {
			assertionType = "contains"
		}
		return nil, &dxerrors.ValidationError{
			Type:   "TestCase",
			Reason: fmt.Sprintf("%s assertion must be a string in test %q at index %d", assertionType, testName, index),
		}
	}

	present := strings.Contains(output, needle)
	if present == wantContains {
		return nil, nil
	}

	assertionType := "excludes"
	message := fmt.Sprintf("expected output to exclude %q", needle)
	if wantContains {
		assertionType = "contains"
		message = fmt.Sprintf("expected output to contain %q", needle)
	}

	return &AssertionFailure{
		TestName:       testName,
		AssertionIndex: index,
		AssertionType:  assertionType,
		Message:        message,
		Expected:       needle,
		Actual:         preview(output),
	}, nil
}

func evaluateMaxLength(testName string, index int, output string, value any) (*AssertionFailure, error) {
	limit, ok := asNonNegativeInt(value)
	if !ok {
		return nil, &dxerrors.ValidationError{
			Type:   "TestCase",
			Reason: fmt.Sprintf("max_length assertion must be a non-negative integer in test %q at index %d", testName, index),
		}
	}

	actualLength := len([]rune(output))
	if actualLength <= limit {
		return nil, nil
	}

	return &AssertionFailure{
		TestName:       testName,
		AssertionIndex: index,
		AssertionType:  "max_length",
		Message:        fmt.Sprintf("expected output length <= %d, got %d", limit, actualLength),
		Expected:       fmt.Sprintf("%d", limit),
		Actual:         fmt.Sprintf("%d", actualLength),
	}, nil
}

func evaluateStructure(testName string, index int, output string, value any) (*AssertionFailure, error) {
	expectedType := JSONObject
	var requiredKeys []string

	switch v := value.(type) {
	case string:
		parsed, err := ParseStructureType(v)
		if err != nil {
			return nil, &dxerrors.ValidationError{
				Type:   "TestCase",
				Reason: fmt.Sprintf("unsupported structure type in test %q at index %d: %q", testName, index, v),
			}
		}
		expectedType = parsed
	case map[string]any:
		typeName := jsonObjectStr
		if raw, ok := v["type"]; ok {
			s, ok := raw.(string)
			if !ok {
				return nil, &dxerrors.ValidationError{
					Type:   "TestCase",
					Reason: fmt.Sprintf("structure assertion type must be a string in test %q at index %d", testName, index),
				}
			}
			typeName = s
		}
		parsed, err := ParseStructureType(typeName)
		if err != nil {
			return nil, &dxerrors.ValidationError{
				Type:   "TestCase",
				Reason: fmt.Sprintf("unsupported structure type in test %q at index %d: %q", testName, index, typeName),
			}
		}
		expectedType = parsed

		if raw, ok := v["required_keys"]; ok && raw != nil {
			list, ok := raw.([]any)
			if !ok {
				return nil, &dxerrors.ValidationError{
					Type:   "TestCase",
					Reason: fmt.Sprintf("structure.required_keys must be a list in test %q at index %d", testName, index),
				}
			}
			for _, item := range list {
				key, ok := item.(string)
				if !ok || key == "" {
					return nil, &dxerrors.ValidationError{
						Type:   "TestCase",
						Reason: fmt.Sprintf("structure.required_keys entries must be non-empty strings in test %q at index %d", testName, index),
					}
				}
				requiredKeys = append(requiredKeys, key)
			}
		}
	default:
		return nil, &dxerrors.ValidationError{
			Type:   "TestCase",
			Reason: fmt.Sprintf("structure assertion must be a string or mapping in test %q at index %d", testName, index),
		}
	}

	var parsedOutput any
	if err := json.Unmarshal([]byte(output), &parsedOutput); err != nil {
		return &AssertionFailure{
			TestName: testName, AssertionIndex: index, AssertionType: "structure",
			Message: "expected valid JSON output", Expected: expectedType.String(), Actual: preview(output),
		}, nil
	}

	switch expectedType {
	case JSONObject:
		obj, ok := parsedOutput.(map[string]any)
		if !ok {
			return &AssertionFailure{
				TestName: testName, AssertionIndex: index, AssertionType: "structure",
				Message: "expected JSON object output", Expected: "object", Actual: jsonTypeName(parsedOutput),
			}, nil
		}
		if len(requiredKeys) > 0 {
			var missing []string
			for _, key := range requiredKeys {
				if _, ok := obj[key]; !ok {
					missing = append(missing, key)
				}
			}
			if len(missing) > 0 {
				present := make([]string, 0, len(obj))
				for k := range obj {
					present = append(present, k)
				}
				sort.Strings(present)
				expectedJSON, _ := json.Marshal(requiredKeys)
				actualJSON, _ := json.Marshal(present)
				return &AssertionFailure{
					TestName: testName, AssertionIndex: index, AssertionType: "structure",
					Message:  fmt.Sprintf("missing required JSON keys: %s", strings.Join(missing, ", ")),
					Expected: string(expectedJSON), Actual: string(actualJSON),
				}, nil
			}
		}
	case JSONArray:
		if _, ok := parsedOutput.([]any); !ok {
			return &AssertionFailure{
				TestName: testName, AssertionIndex: index, AssertionType: "structure",
				Message: "expected JSON array output", Expected: "array", Actual: jsonTypeName(parsedOutput),
			}, nil
		}
	}

	return nil, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	case string:
		return "str"
	case float64:
		return "float"
	case bool:
		return "bool"
	case nil:
		return "NoneType"
	default:
		return "unknown"
	}
}

func asNonNegativeInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, v >= 0
	case int64:
		return int(v), v >= 0
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), v >= 0
	default:
		return 0, false
	}
}

func preview(value string) string {
	normalized := strings.ReplaceAll(value, "\n", `\n`)
	runes := []rune(normalized)
	if len(runes) <= previewLimit {
		return normalized
	}
	return string(runes[:previewLimit]) + "..."
}
