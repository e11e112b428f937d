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

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/dxcore/model"
	"gopkg.in/yaml.v3"
)

// ManifestFilename is the name of the immutability manifest written into
// every installed module directory. It records the sha256 of every other
// file in the tree so that lookups can detect tampering or bit rot.
const ManifestFilename = ".promptpm_immutable.json"

// ManifestAlgorithm is the only digest algorithm the registry understands.
const ManifestAlgorithm = "sha256"

// FileDigest is one entry in an ImmutabilityManifest: the POSIX-style
// relative path of a file within the module tree and its sha256 digest.
type FileDigest struct {
	Path   string `json:"path" yaml:"path"`
	SHA256 Digest `json:"sha256" yaml:"sha256"`
}

// ImmutabilityManifest records the expected digest of every file in an
// installed module's directory, aside from the manifest file itself. It is
// written once at install time and never modified afterward; lookups
// recompute digests and compare against it to detect drift.
type ImmutabilityManifest struct {
	Name      string       `json:"name" yaml:"name"`
	Version   string       `json:"version" yaml:"version"`
	Algorithm string       `json:"algorithm" yaml:"algorithm"`
	Files     []FileDigest `json:"files" yaml:"files"`
}

// TypeName implements model.Identifiable.
func (m ImmutabilityManifest) TypeName() string { return "ImmutabilityManifest" }

// String implements model.Loggable.
func (m ImmutabilityManifest) String() string {
	return fmt.Sprintf("ImmutabilityManifest{Name:%s, Version:%s, Files:%d}", m.Name, m.Version, len(m.Files))
}

// Redacted implements model.Loggable. Manifests carry no sensitive data.
func (m ImmutabilityManifest) Redacted() string { return m.String() }

// IsZero reports whether m is the zero value.
func (m ImmutabilityManifest) IsZero() bool {
	return m.Name == "" && m.Version == "" && m.Algorithm == "" && len(m.Files) == 0
}

// Validate checks that the manifest's required fields are present and that
// the algorithm is the one this registry understands.
func (m ImmutabilityManifest) Validate() error {
	if m.Name == "" {
		return &dxerrors.ValidationError{Type: "ImmutabilityManifest", Field: "Name", Reason: "must not be empty"}
	}
	if m.Version == "" {
		return &dxerrors.ValidationError{Type: "ImmutabilityManifest", Field: "Version", Reason: "must not be empty"}
	}
	if m.Algorithm != ManifestAlgorithm {
		return &dxerrors.ValidationError{Type: "ImmutabilityManifest", Field: "Algorithm", Reason: "unsupported algorithm", Value: m.Algorithm}
	}
	seen := make(map[string]bool, len(m.Files))
	for _, f := range m.Files {
		if f.Path == "" {
			return &dxerrors.ValidationError{Type: "ImmutabilityManifest", Field: "Files", Reason: "file path must be a non-empty string"}
		}
		if len(f.SHA256) != DigestHexSize {
			return &dxerrors.ValidationError{Type: "ImmutabilityManifest", Field: "Files", Reason: "sha256 must be a 64-char string", Value: f.Path}
		}
		if seen[f.Path] {
			return &dxerrors.ValidationError{Type: "ImmutabilityManifest", Field: "Files", Reason: "duplicate path", Value: f.Path}
		}
		seen[f.Path] = true
	}
	return nil
}

// MarshalJSON encodes the manifest with sorted keys and compact separators,
// matching the byte-stable format the registry writes to disk.
func (m ImmutabilityManifest) MarshalJSON() ([]byte, error) {
	type entry struct {
		Algorithm string       `json:"algorithm"`
		Files     []FileDigest `json:"files"`
		Name      string       `json:"name"`
		Version   string       `json:"version"`
	}
	return json.Marshal(entry{Algorithm: m.Algorithm, Files: m.Files, Name: m.Name, Version: m.Version})
}

// UnmarshalJSON decodes a manifest document.
func (m *ImmutabilityManifest) UnmarshalJSON(data []byte) error {
	type alias ImmutabilityManifest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return &dxerrors.UnmarshalError{Type: "ImmutabilityManifest", Data: data, Reason: err.Error()}
	}
	*m = ImmutabilityManifest(a)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m ImmutabilityManifest) MarshalYAML() (interface{}, error) {
	type alias ImmutabilityManifest
	return alias(m), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *ImmutabilityManifest) UnmarshalYAML(value *yaml.Node) error {
	type alias ImmutabilityManifest
	var a alias
	if err := value.Decode(&a); err != nil {
		return &dxerrors.UnmarshalError{Type: "ImmutabilityManifest", Reason: err.Error()}
	}
	*m = ImmutabilityManifest(a)
	return nil
}

var _ model.Model = (*ImmutabilityManifest)(nil)

// buildManifest walks root (already excluding the manifest file, which does
// not yet exist at this point in the install flow) and computes a digest
// for every file, producing a manifest with entries sorted by path.
func buildManifest(root, name, version string) (ImmutabilityManifest, error) {
	files, err := walkFilesSorted(root)
	if err != nil {
		return ImmutabilityManifest{}, err
	}

	entries := make([]FileDigest, 0, len(files))
	for _, full := range files {
		rel, err := relPosix(root, full)
		if err != nil {
			return ImmutabilityManifest{}, err
		}
		if rel == ManifestFilename {
			continue
		}
		digest, err := digestFile(full)
		if err != nil {
			return ImmutabilityManifest{}, err
		}
		entries = append(entries, FileDigest{Path: rel, SHA256: digest})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return ImmutabilityManifest{Name: name, Version: version, Algorithm: ManifestAlgorithm, Files: entries}, nil
}

func digestFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ComputeDigest(f)
}

// writeManifest serializes the manifest as sorted-key compact JSON with a
// trailing newline, matching the format produced across every registry
// implementation this one interoperates with on disk.
func writeManifest(root string, manifest ImmutabilityManifest) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(root, ManifestFilename), data, 0o644)
}

// verifyManifest recomputes digests for every file under root and compares
// them against the on-disk manifest, returning a single DependencyError
// describing every missing, extra, and changed file if any are found.
func verifyManifest(root, name, version string) error {
	manifestPath := filepath.Join(root, ManifestFilename)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return &dxerrors.DependencyError{
			Path:    manifestPath,
			Message: fmt.Sprintf("immutability manifest missing for published module: %s@%s", name, version),
			Hint:    "the registry entry is corrupt; reinstall or republish the module",
		}
	}

	var manifest ImmutabilityManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return &dxerrors.DependencyError{
			Path:    manifestPath,
			Message: fmt.Sprintf("invalid immutability manifest for %s@%s: %v", name, version, err),
		}
	}

	if manifest.Name != name || manifest.Version != version {
		return &dxerrors.DependencyError{
			Path:    manifestPath,
			Message: fmt.Sprintf("immutability manifest identity mismatch for %s@%s", name, version),
		}
	}
	if manifest.Algorithm != ManifestAlgorithm {
		return &dxerrors.DependencyError{
			Path:    manifestPath,
			Message: fmt.Sprintf("unsupported immutability hash algorithm for %s@%s: %q", name, version, manifest.Algorithm),
		}
	}

	expected := make(map[string]Digest, len(manifest.Files))
	for _, f := range manifest.Files {
		if f.Path == "" {
			return &dxerrors.DependencyError{Path: manifestPath, Message: fmt.Sprintf("invalid immutability manifest for %s@%s: file path must be a non-empty string", name, version)}
		}
		if len(f.SHA256) != DigestHexSize {
			return &dxerrors.DependencyError{Path: manifestPath, Message: fmt.Sprintf("invalid immutability manifest for %s@%s: sha256 must be a 64-char string", name, version)}
		}
		if _, dup := expected[f.Path]; dup {
			return &dxerrors.DependencyError{Path: manifestPath, Message: fmt.Sprintf("invalid immutability manifest for %s@%s: duplicate path %q", name, version, f.Path)}
		}
		expected[f.Path] = f.SHA256
	}

	files, err := walkFilesSorted(root)
	if err != nil {
		return err
	}

	actual := make(map[string]Digest, len(files))
	for _, full := range files {
		rel, err := relPosix(root, full)
		if err != nil {
			return err
		}
		if rel == ManifestFilename {
			continue
		}
		digest, err := digestFile(full)
		if err != nil {
			return err
		}
		actual[rel] = digest
	}

	var missing, extra, changed []string
	for path := range expected {
		if _, ok := actual[path]; !ok {
			missing = append(missing, path)
		}
	}
	for path := range actual {
		if _, ok := expected[path]; !ok {
			extra = append(extra, path)
		}
	}
	for path, digest := range expected {
		if actualDigest, ok := actual[path]; ok && actualDigest != digest {
			changed = append(changed, path)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	sort.Strings(changed)

	if len(missing) > 0 || len(extra) > 0 || len(changed) > 0 {
		var details []string
		if len(missing) > 0 {
			details = append(details, "missing files: "+joinComma(missing))
		}
		if len(extra) > 0 {
			details = append(details, "extra files: "+joinComma(extra))
		}
		if len(changed) > 0 {
			details = append(details, "changed files: "+joinComma(changed))
		}
		return &dxerrors.DependencyError{
			Path:    root,
			Message: fmt.Sprintf("Immutability check failed for published module %s@%s: %s", name, version, joinSemicolon(details)),
			Hint:    "the installed module's files no longer match its manifest; reinstall or republish it",
		}
	}

	return nil
}

func joinComma(items []string) string {
	return joinWith(items, ", ")
}

func joinSemicolon(items []string) string {
	return joinWith(items, "; ")
}

func joinWith(items []string, sep string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += sep
		}
		out += item
	}
	return out
}
