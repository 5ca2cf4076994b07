// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
)

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeNotFound, "status command not found", exec.ErrNotFound)

	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected exec.ErrNotFound to be wrapped")
	}
}

func TestNewWithContext(t *testing.T) {
	err := NewWithContext(ErrCodeInvalidRequest, "empty command", map[string]any{
		"amp": "systemd",
	})

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
	if err.Context["amp"] != "systemd" {
		t.Errorf("expected amp context to be systemd")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeInvalidRequest, "empty command"),
			expected: "[INVALID_REQUEST] empty command",
		},
		{
			name:     "error with cause",
			err:      WrapWithContext(ErrCodeUnavailable, "systemctl failed", errors.New("exit status 1"), nil),
			expected: "[SERVICE_UNAVAILABLE] systemctl failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ErrCodeInternal},
		{"plain error", errors.New("boom"), ErrCodeInternal},
		{"structured", New(ErrCodeTimeout, "slow"), ErrCodeTimeout},
		{"wrapped structured", fmt.Errorf("update: %w", New(ErrCodeNotFound, "missing")), ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}
