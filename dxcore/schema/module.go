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

// Package schema loads prompt module definitions (promptpm.yaml or
// promptpm.toml) from disk and validates them against the module
// specification: required metadata, a template reference, a declared
// semantic interface, and the cross-check that every placeholder used by
// the prompt is declared as an interface input.
package schema

import (
	"fmt"

	"dirpx.dev/promptpm/dxcore/model"
)

// ModuleMetadata is the "module" block of a prompt module definition.
type ModuleMetadata struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Version     string `json:"version" yaml:"version" toml:"version"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// PromptBlock is the "prompt" block of a prompt module definition. Template
// is a path, relative to the module's source file, to the prompt template
// on disk; it is never inline text.
type PromptBlock struct {
	Template     string   `json:"template" yaml:"template" toml:"template"`
	Placeholders []string `json:"placeholders" yaml:"placeholders" toml:"placeholders"`
}

// InputSpec describes one declared input of a module's semantic interface.
type InputSpec struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Type        string `json:"type" yaml:"type" toml:"type"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Required    bool   `json:"required" yaml:"required" toml:"required"`
}

// OutputSpec describes one declared output of a module's semantic interface.
type OutputSpec struct {
	Type        string `json:"type" yaml:"type" toml:"type"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// InterfaceSpec is the "interface" block of a prompt module definition.
type InterfaceSpec struct {
	Intent  string       `json:"intent" yaml:"intent" toml:"intent"`
	Inputs  []InputSpec  `json:"inputs" yaml:"inputs" toml:"inputs"`
	Outputs []OutputSpec `json:"outputs" yaml:"outputs" toml:"outputs"`
}

// DependencySpec is one entry of a module's "dependencies" list: a module
// name and a version range expression understood by dxcore/semver.
type DependencySpec struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Version string `json:"version" yaml:"version" toml:"version"`
}

// TestCase is one entry of a module's "tests" list: a set of named inputs
// to render the template with, and a list of assertions to evaluate
// against the rendered output. Each assertion map holds exactly one key
// (its assertion type) mapped to its configuration value.
type TestCase struct {
	Name       string           `yaml:"name" toml:"name"`
	Inputs     map[string]any   `yaml:"inputs" toml:"inputs"`
	Assertions []map[string]any `yaml:"assertions" toml:"assertions"`
}

// PromptModule is a fully loaded, not-yet-validated prompt module
// definition, together with the path it was loaded from.
type PromptModule struct {
	SourcePath   string
	topLevelKeys map[string]bool

	Module       ModuleMetadata
	Prompt       PromptBlock
	Interface    InterfaceSpec
	Dependencies []DependencySpec
	Tests        []TestCase
}

// TypeName implements model.Identifiable.
func (m *PromptModule) TypeName() string { return "PromptModule" }

// String implements model.Loggable.
func (m *PromptModule) String() string {
	return fmt.Sprintf("PromptModule{Name:%s, Version:%s, Source:%s}", m.Module.Name, m.Module.Version, m.SourcePath)
}

// Redacted implements model.Loggable. Module definitions carry no secrets.
func (m *PromptModule) Redacted() string { return m.String() }

// IsZero reports whether m was never populated.
func (m *PromptModule) IsZero() bool { return m.SourcePath == "" }

// Validate validates the module per the rules in validator.go.
func (m *PromptModule) Validate() error { return validatePromptModule(m) }

var _ model.Model = (*PromptModule)(nil)

func missingTopLevelFields(present map[string]bool) []string {
	required := []string{"module", "prompt", "interface"}
	var missing []string
	for _, field := range required {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	return missing
}
