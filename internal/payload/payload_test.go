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

package payload_test

import (
	"testing"

	dxerrors "dirpx.dev/promptpm/dxcore/errors"
	"dirpx.dev/promptpm/internal/payload"
	"github.com/stretchr/testify/assert"
)

func TestSuccess_ToMap(t *testing.T) {
	p := payload.Success("validate", map[string]any{"path": ".", "source": "promptpm.yaml"})
	m := p.ToMap()
	assert.Equal(t, true, m["ok"])
	assert.Equal(t, "validate", m["operation"])
	assert.NotContains(t, m, "error")
}

func TestFailure_ToMap(t *testing.T) {
	errInfo := &payload.ErrorInfo{Code: dxerrors.CodeValidationError, Message: "bad module", Hint: "fix it", Path: "promptpm.yaml"}
	p := payload.Failure("validate", errInfo, nil)
	m := p.ToMap()
	assert.Equal(t, false, m["ok"])
	errMap, ok := m["error"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, dxerrors.CodeValidationError, errMap["code"])
}

func TestErrorInfoFromErr_UsesCoder(t *testing.T) {
	err := &dxerrors.DependencyError{Path: "foo", Message: "missing dependency", Hint: "install it"}
	info := payload.ErrorInfoFromErr(err, "foo", "install it")
	assert.Equal(t, dxerrors.CodeDependencyError, info.Code)
	assert.Equal(t, "foo", info.Path)
}

func TestErrorInfoFromErr_FallsBackToInternalError(t *testing.T) {
	err := assert.AnError
	info := payload.ErrorInfoFromErr(err, "", "")
	assert.Equal(t, dxerrors.CodeInternalError, info.Code)
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		p    payload.Payload
		want int
	}{
		{"success", payload.Success("validate", nil), payload.ExitSuccess},
		{"validation", payload.Failure("validate", &payload.ErrorInfo{Code: dxerrors.CodeValidationError}, nil), payload.ExitValidationError},
		{"test-failure", payload.Failure("test", &payload.ErrorInfo{Code: dxerrors.CodeTestFailure}, nil), payload.ExitTestFailure},
		{"dependency", payload.Failure("install", &payload.ErrorInfo{Code: dxerrors.CodeDependencyError}, nil), payload.ExitDependencyError},
		{"publish-conflict", payload.Failure("publish", &payload.ErrorInfo{Code: dxerrors.CodePublishConflict}, nil), payload.ExitPublishConflict},
		{"internal", payload.Failure("publish", &payload.ErrorInfo{Code: dxerrors.CodeInternalError}, nil), payload.ExitInternalError},
		{"no-error-block", payload.Payload{OK: false}, payload.ExitInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, payload.ExitCode(tc.p))
		})
	}
}
