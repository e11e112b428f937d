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

package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Mode selects how Format renders a Payload.
type Mode int

const (
	// ModeDefault is the compact "OK ..." / "ERROR ..." line format.
	ModeDefault Mode = iota
	// ModeJSON renders compact, key-sorted JSON on a single line.
	ModeJSON
	// ModePretty renders a multi-line, human-oriented summary.
	ModePretty
)

// ResolveMode picks a Mode from the --json and --pretty flags. --json wins
// if both are set.
func ResolveMode(jsonOutput, prettyOutput bool) Mode {
	if jsonOutput {
		return ModeJSON
	}
	if prettyOutput {
		return ModePretty
	}
	return ModeDefault
}

// Emit writes the formatted payload to w, unless quiet is set and the
// payload represents success (quiet suppresses non-error output only).
func Emit(w io.Writer, p Payload, mode Mode, quiet bool) {
	if quiet && p.OK {
		return
	}
	fmt.Fprintln(w, Format(p, mode))
}

// Format renders p in the given mode.
func Format(p Payload, mode Mode) string {
	switch mode {
	case ModeJSON:
		return formatJSON(p)
	case ModePretty:
		return formatPretty(p)
	default:
		return formatDefault(p)
	}
}

func formatJSON(p Payload) string {
	data, err := json.Marshal(p.ToMap())
	if err != nil {
		return fmt.Sprintf(`{"ok":false,"operation":%q,"error":{"code":"INTERNAL_ERROR","message":%q}}`, p.Operation, err.Error())
	}
	return string(data)
}

func encode(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(data)
}

func formatDefault(p Payload) string {
	if p.OK {
		data := p.Data
		if isPathSourceOnly(data) {
			return fmt.Sprintf("OK path=%s source=%s", encode(data["path"]), encode(data["source"]))
		}
		if data != nil {
			return fmt.Sprintf("OK data=%s", encode(data))
		}
		return fmt.Sprintf("OK payload=%s", encode(p.ToMap()))
	}

	if p.Error == nil {
		return fmt.Sprintf("ERROR payload=%s", encode(p.ToMap()))
	}

	line := fmt.Sprintf(
		"ERROR code=%s path=%s message=%s hint=%s",
		encode(p.Error.Code), encode(p.Error.Path), encode(p.Error.Message), encode(p.Error.Hint),
	)
	if p.Operation == "test" {
		if failures, ok := p.Data["failures"]; ok {
			line += fmt.Sprintf(" failures=%s", encode(failures))
		}
	}
	return line
}

func isPathSourceOnly(data map[string]any) bool {
	if data == nil || len(data) > 2 {
		return false
	}
	_, hasPath := data["path"]
	_, hasSource := data["source"]
	return hasPath && hasSource
}

func formatPretty(p Payload) string {
	if p.OK {
		data := p.Data
		if isPathSourceOnly(data) {
			return strings.Join([]string{
				"Validation succeeded",
				fmt.Sprintf("path: %v", data["path"]),
				fmt.Sprintf("source: %v", data["source"]),
			}, "\n")
		}

		switch p.Operation {
		case "install":
			return prettyInstallSuccess(data)
		case "test":
			return prettyTestSuccess(data)
		}

		return prettyJSON(p.ToMap())
	}

	return prettyFailure(p)
}

func prettyInstallSuccess(data map[string]any) string {
	lines := []string{
		"Install succeeded",
		fmt.Sprintf("module_path: %v", data["module_path"]),
		fmt.Sprintf("registry_path: %v", data["registry_path"]),
		fmt.Sprintf("installed_count: %v", data["count"]),
	}
	if deps, ok := data["installed"].([]map[string]any); ok {
		for _, dep := range deps {
			lines = append(lines, fmt.Sprintf("- %v@%v", dep["name"], dep["version"]))
		}
	}
	return strings.Join(lines, "\n")
}

func prettyTestSuccess(data map[string]any) string {
	lines := []string{
		"Test run succeeded",
		fmt.Sprintf("module_path: %v", data["module_path"]),
		fmt.Sprintf("total: %v", data["total"]),
		fmt.Sprintf("passed: %v", data["passed"]),
		fmt.Sprintf("failed: %v", data["failed"]),
	}
	if results, ok := data["results"].([]map[string]any); ok {
		for _, result := range results {
			status := fmt.Sprintf("%v", result["status"])
			lines = append(lines, fmt.Sprintf("- %s %v", strings.ToUpper(status), result["name"]))
		}
	}
	return strings.Join(lines, "\n")
}

func prettyFailure(p Payload) string {
	header := "Validation failed"
	switch p.Operation {
	case "install":
		header = "Install failed"
	case "test":
		header = "Test run failed"
	}

	code, message, hint, path := "UNKNOWN_ERROR", "", "", ""
	if p.Error != nil {
		code, message, hint, path = p.Error.Code, p.Error.Message, p.Error.Hint, p.Error.Path
	}

	lines := []string{
		header,
		fmt.Sprintf("code: %s", code),
		fmt.Sprintf("path: %s", path),
		fmt.Sprintf("message: %s", message),
		fmt.Sprintf("hint: %s", hint),
	}

	if p.Operation == "test" {
		if failures, ok := p.Data["failures"].([]map[string]any); ok {
			for _, failure := range failures {
				lines = append(lines, fmt.Sprintf(
					"- %v[%v] %v: %v",
					failure["test_name"], failure["assertion_index"], failure["assertion_type"], failure["message"],
				))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// prettyJSON is the pretty-mode fallback for success payloads whose
// operation has no dedicated summary rendering. encoding/json sorts map
// keys on its own, so no explicit sort is needed here.
func prettyJSON(v map[string]any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
