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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"dirpx.dev/promptpm/dxcore/model"
	"gopkg.in/yaml.v3"
)

const (
	// DigestHexSize is the number of hexadecimal characters in a SHA-256
	// digest, as written into immutability manifests.
	DigestHexSize = 64

	// DigestShortLen is the default length for abbreviated digests used in
	// display contexts.
	DigestShortLen = 7

	// digestChunkSize is the read buffer size used when hashing files, taken
	// from the registry's file-walking algorithm: files are digested in
	// 64 KiB chunks rather than read fully into memory.
	digestChunkSize = 64 * 1024
)

var digestHexRegexp = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Digest is a SHA-256 content digest, used exclusively by the local registry
// to fingerprint installed module files in an immutability manifest. Unlike
// a general-purpose object id, Digest supports only SHA-256: the registry's
// manifest format fixes "sha256" as its sole algorithm.
//
// The zero value (empty string) represents "no digest computed" and is
// considered valid by Validate; it is never written into a manifest.
type Digest string

// ComputeDigest reads r to completion and returns its SHA-256 digest,
// reading in fixed-size chunks rather than buffering the entire content in
// memory.
func ComputeDigest(r io.Reader) (Digest, error) {
	h := sha256.New()
	buf := make([]byte, digestChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("compute digest: %w", err)
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}

// String returns the digest's lowercase hex representation.
func (d Digest) String() string { return string(d) }

// Redacted returns an abbreviated form of the digest for logging.
func (d Digest) Redacted() string { return d.Short() }

// TypeName implements model.Identifiable.
func (d Digest) TypeName() string { return "Digest" }

// IsZero reports whether no digest has been computed.
func (d Digest) IsZero() bool { return d == "" }

// Equal reports whether d and other are the same digest.
func (d Digest) Equal(other Digest) bool { return d == other }

// Short returns the first DigestShortLen characters, or the full digest if
// it is shorter than that.
func (d Digest) Short() string {
	s := string(d)
	if len(s) < DigestShortLen {
		return s
	}
	return s[:DigestShortLen]
}

// Validate reports whether d is either empty or a well-formed 64-character
// lowercase hex SHA-256 digest.
func (d Digest) Validate() error {
	if d.IsZero() {
		return nil
	}
	s := string(d)
	if len(s) != DigestHexSize {
		return fmt.Errorf("digest %q has invalid length: %d (expected %d)", s, len(s), DigestHexSize)
	}
	if !digestHexRegexp.MatchString(s) {
		return fmt.Errorf("digest %q contains invalid characters (must be lowercase hexadecimal)", s)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Digest) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", d.TypeName(), err)
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cannot unmarshal JSON: %w", err)
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Digest) MarshalYAML() (interface{}, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", d.TypeName(), err)
	}
	return string(d), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Digest) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("cannot unmarshal YAML: %w", err)
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return fmt.Errorf("unmarshaled model is invalid: %w", err)
	}
	*d = parsed
	return nil
}

// ParseDigest normalizes (trims, lowercases) and validates s as a Digest.
func ParseDigest(s string) (Digest, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	d := Digest(normalized)
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("invalid digest: %w", err)
	}
	return d, nil
}

var _ model.Model = (*Digest)(nil)
