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
	"os"
	"path/filepath"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// YAMLFilename is the preferred module definition filename; it is tried
	// before TOMLFilename.
	YAMLFilename = "promptpm.yaml"

	// TOMLFilename is the fallback module definition filename.
	TOMLFilename = "promptpm.toml"
)

type rawDocument struct {
	Module       ModuleMetadata   `yaml:"module" toml:"module"`
	Prompt       PromptBlock      `yaml:"prompt" toml:"prompt"`
	Interface    InterfaceSpec    `yaml:"interface" toml:"interface"`
	Dependencies []DependencySpec `yaml:"dependencies" toml:"dependencies"`
	Tests        []TestCase       `yaml:"tests" toml:"tests"`
}

// LoadPromptModule reads promptpm.yaml (preferred) or promptpm.toml from
// dir and decodes it into a PromptModule. Loading does not validate the
// result; call Validate on the returned module, or use LoadAndValidate.
func LoadPromptModule(dir string) (*PromptModule, error) {
	yamlPath := filepath.Join(dir, YAMLFilename)
	tomlPath := filepath.Join(dir, TOMLFilename)

	switch {
	case fileExists(yamlPath):
		return loadDocument(yamlPath, yaml.Unmarshal)
	case fileExists(tomlPath):
		return loadDocument(tomlPath, toml.Unmarshal)
	default:
		return nil, &dxerrors.ValidationError{
			Type:   "PromptModule",
			Reason: "missing promptpm.yaml or promptpm.toml",
			Value:  dir,
		}
	}
}

// LoadAndValidate loads the module definition in dir and validates it,
// returning the first validation error encountered if any.
func LoadAndValidate(dir string) (*PromptModule, error) {
	module, err := LoadPromptModule(dir)
	if err != nil {
		return nil, err
	}
	if err := module.Validate(); err != nil {
		return nil, err
	}
	return module, nil
}

type unmarshalFunc func(data []byte, v any) error

func loadDocument(path string, unmarshal unmarshalFunc) (*PromptModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dxerrors.InternalError{Path: path, Message: "cannot read module definition: " + err.Error()}
	}

	var generic map[string]any
	if err := unmarshal(data, &generic); err != nil {
		return nil, &dxerrors.ValidationError{Type: "PromptModule", Reason: "cannot parse module definition: " + err.Error(), Value: path}
	}
	if generic == nil {
		return nil, &dxerrors.ValidationError{Type: "PromptModule", Reason: "module definition must be a mapping", Value: path}
	}

	var doc rawDocument
	if err := unmarshal(data, &doc); err != nil {
		return nil, &dxerrors.ValidationError{Type: "PromptModule", Reason: "cannot parse module definition: " + err.Error(), Value: path}
	}

	present := make(map[string]bool, len(generic))
	for key := range generic {
		present[key] = true
	}

	return &PromptModule{
		SourcePath:   path,
		topLevelKeys: present,
		Module:       doc.Module,
		Prompt:       doc.Prompt,
		Interface:    doc.Interface,
		Dependencies: doc.Dependencies,
		Tests:        doc.Tests,
	}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
