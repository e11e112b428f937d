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

// Package payload shapes and formats the result of a promptpm command.
// Every command produces exactly one Payload, which is then rendered in
// one of three deterministic output modes (json, pretty, default) and
// mapped to a process exit code.
package payload

import dxerrors "dirpx.dev/promptpm/dxcore/errors"

// ErrorInfo is the "error" block of a failed Payload.
type ErrorInfo struct {
	Code    string
	Message string
	Hint    string
	Path    string
}

// Payload is the result of running a single promptpm command.
type Payload struct {
	OK        bool
	Operation string
	Data      map[string]any
	Error     *ErrorInfo
}

// Success builds a successful payload for operation carrying data.
func Success(operation string, data map[string]any) Payload {
	return Payload{OK: true, Operation: operation, Data: data}
}

// Failure builds a failed payload for operation carrying err and, if
// present, any partial data gathered before the failure (used by "test"
// and "publish" to attach failure diagnostics alongside the error).
func Failure(operation string, err *ErrorInfo, data map[string]any) Payload {
	return Payload{OK: false, Operation: operation, Error: err, Data: data}
}

// ErrorInfoFromErr builds an ErrorInfo from err, preferring its taxonomy
// code via dxcore/errors.Coder and falling back to INTERNAL_ERROR for
// anything that doesn't implement it.
func ErrorInfoFromErr(err error, path, hint string) *ErrorInfo {
	code := dxerrors.CodeInternalError
	if coder, ok := err.(dxerrors.Coder); ok {
		code = coder.Code()
	}
	message := err.Error()
	if message == "" {
		message = "unexpected internal error"
	}
	return &ErrorInfo{Code: code, Message: message, Hint: hint, Path: path}
}

// ToMap renders p as the generic map that both JSON and pretty formatting
// operate on. Marshaling a map[string]any produces alphabetically sorted
// keys, which is what gives the "json" output mode its deterministic,
// sort_keys-equivalent shape.
func (p Payload) ToMap() map[string]any {
	m := map[string]any{
		"ok":        p.OK,
		"operation": p.Operation,
	}
	if p.Data != nil {
		m["data"] = p.Data
	}
	if p.Error != nil {
		m["error"] = map[string]any{
			"code":    p.Error.Code,
			"message": p.Error.Message,
			"hint":    p.Error.Hint,
			"path":    p.Error.Path,
		}
	}
	return m
}

// ExitCode maps a taxonomy code to a process exit code. Success always
// exits 0, regardless of operation.
func ExitCode(p Payload) int {
	if p.OK {
		return 0
	}
	if p.Error == nil {
		return ExitInternalError
	}
	switch p.Error.Code {
	case dxerrors.CodeValidationError:
		return ExitValidationError
	case dxerrors.CodeTestFailure:
		return ExitTestFailure
	case dxerrors.CodeDependencyError:
		return ExitDependencyError
	case dxerrors.CodePublishConflict:
		return ExitPublishConflict
	default:
		return ExitInternalError
	}
}

// Process exit codes, stable across every command.
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitTestFailure     = 2
	ExitDependencyError = 3
	ExitPublishConflict = 4
	ExitInternalError   = 5
)
