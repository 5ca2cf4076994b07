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

// Package logging provides structured logging utilities for AMP components.
//
// This package wraps the standard library slog package with defaults shared by
// the CLI and the server: JSON output on stderr, module and version attributes
// on every record, LOG_LEVEL based level selection and source location for
// debug logs.
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("amp-systemd", "v1.0.0")
//	    slog.Info("application started")
//	}
//
// Setting an explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("amp-systemd", version, "debug")
//
// Bridging to a standard library logger (e.g. http.Server.ErrorLog):
//
//	stdLogger := logging.NewLogLogger(slog.LevelError, false)
//
// # Log Levels
//
// Supported level names (case-insensitive): debug, info, warn, warning,
// error. Anything else resolves to info.
package logging
