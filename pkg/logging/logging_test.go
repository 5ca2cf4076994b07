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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewLoggerAddsModuleAndVersion(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "amp-systemd", "v1.2.3", slog.LevelInfo)

	l.Info("started", "port", 8080)
	l.Debug("dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "started", rec["msg"])
	assert.Equal(t, "amp-systemd", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.EqualValues(t, 8080, rec["port"])
	assert.NotContains(t, rec, "source")
}

func TestNewLoggerDebugHasSource(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "amp-systemd", "dev", slog.LevelDebug)

	l.Debug("parsing output")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Contains(t, rec, "source")
}

func TestSetDefaultStructuredLoggerReadsEnv(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		env       string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"error", false, false},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			SetDefaultStructuredLogger("amp-systemd", "dev")

			ctx := context.Background()
			assert.Equal(t, tt.wantDebug, slog.Default().Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantInfo, slog.Default().Enabled(ctx, slog.LevelInfo))
		})
	}
}
