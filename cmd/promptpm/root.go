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

// Command promptpm manages a local, filesystem-only registry of prompt
// modules: declarative template packages with a semantic interface and a
// deterministic, self-contained test suite. There is no network layer, no
// authentication, and no model invocation anywhere in this tool; every
// operation reads from and writes to the local filesystem only.
package main

import (
	"fmt"
	"os"
	"strings"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// version is promptpm's own build version, surfaced through the root
// command's --version flag.
const version = "0.1.0"

// globalFlags mirrors the root persistent flag group every subcommand reads
// from, merging its own local --json/--pretty with these.
type globalFlags struct {
	jsonOutput   bool
	prettyOutput bool
	quiet        bool
	configPath   string
	registryPath string
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:     "promptpm {[flags]|SUBCOMMAND...}",
	Short:   "A local, content-addressed package manager for prompt modules",
	Version: version,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},

	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flags.configPath == "" {
			return nil
		}
		cfg, err := loadConfigFile(flags.configPath)
		if err != nil {
			return err
		}
		applyConfigDefaults(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "emit a single compact JSON payload")
	rootCmd.PersistentFlags().BoolVar(&flags.prettyOutput, "pretty", false, "emit a human-oriented multi-line summary")
	rootCmd.PersistentFlags().BoolVar(&flags.quiet, "quiet", false, "suppress output on success")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML configuration file supplying default flag values")
	rootCmd.PersistentFlags().StringVar(&flags.registryPath, "registry", ".promptpm_registry", "path to the local module registry")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInfoCmd())
}

// configFile is the shape of a --config YAML document. Every field is a
// pointer so that an absent key in the file is distinguishable from an
// explicit zero value, and only supplies a default: a flag the user passed
// on the command line always wins over the config file.
type configFile struct {
	Registry *string `yaml:"registry"`
	JSON     *bool   `yaml:"json"`
	Pretty   *bool   `yaml:"pretty"`
	Quiet    *bool   `yaml:"quiet"`
}

func loadConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dxerrors.DependencyError{
			Path:    path,
			Message: fmt.Sprintf("failed to read configuration file: %v", err),
			Hint:    "check that the path passed to --config exists and is readable",
		}
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &dxerrors.DependencyError{
			Path:    path,
			Message: fmt.Sprintf("failed to parse configuration file: %v", err),
			Hint:    "--config expects a YAML document with registry/json/pretty/quiet keys",
		}
	}
	return &cfg, nil
}

// applyConfigDefaults overwrites flags.* with values from cfg for every
// persistent flag the user did not explicitly pass on the command line.
// Flags already set on the command line always win over the config file.
func applyConfigDefaults(cfg *configFile) {
	changed := rootCmd.PersistentFlags().Changed
	if cfg.Registry != nil && !changed("registry") {
		flags.registryPath = *cfg.Registry
	}
	if cfg.JSON != nil && !changed("json") {
		flags.jsonOutput = *cfg.JSON
	}
	if cfg.Pretty != nil && !changed("pretty") {
		flags.prettyOutput = *cfg.Pretty
	}
	if cfg.Quiet != nil && !changed("quiet") {
		flags.quiet = *cfg.Quiet
	}
}

// mergedOutputMode resolves the output mode from a subcommand's own local
// --json/--pretty flags, falling back to the persistent root flags when the
// local ones were not set.
func mergedOutputMode(localJSON, localPretty bool) payload.Mode {
	return payload.ResolveMode(localJSON || flags.jsonOutput, localPretty || flags.prettyOutput)
}

// emitAndExit renders p in the resolved output mode and terminates the
// process with the exit code that corresponds to p's outcome. Every
// subcommand funnels through this instead of returning an error to cobra,
// so that the process exit code carries the full taxonomy (validation,
// test failure, dependency error, publish conflict, internal error) rather
// than cobra's binary success/failure.
func emitAndExit(p payload.Payload, mode payload.Mode) {
	payload.Emit(os.Stdout, p, mode, flags.quiet)
	os.Exit(payload.ExitCode(p))
}

// validateRegistryPath rejects anything that looks like a remote URL.
// promptpm's registry is a local filesystem path only; there is no network
// layer to fetch a remote one.
func validateRegistryPath(path string) error {
	if strings.Contains(path, "://") || strings.HasPrefix(path, "http:") || strings.HasPrefix(path, "https:") {
		return &dxerrors.DependencyError{
			Path:    path,
			Message: fmt.Sprintf("registry must be a local filesystem path, got %q", path),
			Hint:    "pass a local directory to --registry; promptpm has no network layer",
		}
	}
	return nil
}
