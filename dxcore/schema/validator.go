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

package schema

import (
	"fmt"
	"sort"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
)

func validatePromptModule(m *PromptModule) error {
	if missing := missingTopLevelFields(m.topLevelKeys); len(missing) > 0 {
		sort.Strings(missing)
		return &dxerrors.ValidationError{
			Type:   "PromptModule",
			Reason: fmt.Sprintf("missing required top-level fields: %s", joinStrings(missing)),
			Value:  m.SourcePath,
		}
	}

	if err := validateModuleMetadata(m.Module); err != nil {
		return err
	}
	if err := validateInterface(m.Interface); err != nil {
		return err
	}
	if err := validatePromptBlock(m.Prompt, m.Interface); err != nil {
		return err
	}
	return nil
}

func validateModuleMetadata(meta ModuleMetadata) error {
	if meta.Name == "" {
		return &dxerrors.ValidationError{Type: "ModuleMetadata", Field: "Name", Reason: "must be a non-empty string"}
	}
	if meta.Version == "" {
		return &dxerrors.ValidationError{Type: "ModuleMetadata", Field: "Version", Reason: "must be a non-empty string"}
	}
	if meta.Description == "" {
		return &dxerrors.ValidationError{Type: "ModuleMetadata", Field: "Description", Reason: "is required"}
	}
	return nil
}

func validatePromptBlock(prompt PromptBlock, iface InterfaceSpec) error {
	if prompt.Template == "" {
		return &dxerrors.ValidationError{Type: "PromptBlock", Field: "Template", Reason: "is required"}
	}
	if prompt.Placeholders == nil {
		return &dxerrors.ValidationError{Type: "PromptBlock", Field: "Placeholders", Reason: "must be a list"}
	}

	declared := make(map[string]bool, len(iface.Inputs))
	for _, in := range iface.Inputs {
		declared[in.Name] = true
	}

	var undeclared []string
	for _, placeholder := range prompt.Placeholders {
		if !declared[placeholder] {
			undeclared = append(undeclared, placeholder)
		}
	}
	if len(undeclared) > 0 {
		sort.Strings(undeclared)
		return &dxerrors.ValidationError{
			Type:   "PromptBlock",
			Field:  "Placeholders",
			Reason: fmt.Sprintf("Undeclared placeholders used in template: %s", joinStrings(undeclared)),
		}
	}
	return nil
}

func validateInterface(iface InterfaceSpec) error {
	if iface.Intent == "" {
		return &dxerrors.ValidationError{Type: "InterfaceSpec", Field: "Intent", Reason: "is required"}
	}
	if iface.Inputs == nil {
		return &dxerrors.ValidationError{Type: "InterfaceSpec", Field: "Inputs", Reason: "must be a list"}
	}
	if iface.Outputs == nil {
		return &dxerrors.ValidationError{Type: "InterfaceSpec", Field: "Outputs", Reason: "must be a list"}
	}

	for i, in := range iface.Inputs {
		if err := validateInput(i, in); err != nil {
			return err
		}
	}
	for i, out := range iface.Outputs {
		if err := validateOutput(i, out); err != nil {
			return err
		}
	}
	return nil
}

func validateInput(index int, in InputSpec) error {
	if in.Name == "" {
		return &dxerrors.ValidationError{Type: "InputSpec", Field: "Name", Reason: fmt.Sprintf("is required (inputs[%d])", index)}
	}
	if in.Type == "" {
		return &dxerrors.ValidationError{Type: "InputSpec", Field: "Type", Reason: fmt.Sprintf("is required (inputs[%d])", index)}
	}
	if in.Description == "" {
		return &dxerrors.ValidationError{Type: "InputSpec", Field: "Description", Reason: fmt.Sprintf("is required (inputs[%d])", index)}
	}
	return nil
}

func validateOutput(index int, out OutputSpec) error {
	if out.Type == "" {
		return &dxerrors.ValidationError{Type: "OutputSpec", Field: "Type", Reason: fmt.Sprintf("is required (outputs[%d])", index)}
	}
	if out.Description == "" {
		return &dxerrors.ValidationError{Type: "OutputSpec", Field: "Description", Reason: fmt.Sprintf("is required (outputs[%d])", index)}
	}
	return nil
}

func joinStrings(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
