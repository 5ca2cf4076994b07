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

// Package defaults provides centralized configuration constants.
//
// Timeouts and default values used across the AMP runtime live here so that
// the collector, the server and the CLI agree on them.
package defaults

import "time"

const (
	// CollectorTimeout bounds a single external status command run.
	// A zero timeout in AMP configuration disables the bound.
	CollectorTimeout = 10 * time.Second

	// AMPRefreshInterval is the minimum time between two AMP updates
	// when the configuration does not set one.
	AMPRefreshInterval = 60 * time.Second

	// AMPPollInterval is how often the host loop asks AMPs to update.
	// The per-AMP refresh gate decides whether an update actually runs.
	AMPPollInterval = 2 * time.Second
)

const (
	// SystemctlCommand is the status command used by the systemd AMP
	// when no systemctl_cmd option is configured.
	SystemctlCommand = "systemctl --plain"

	// ResultSeparator replaces newlines in a one-line AMP result.
	ResultSeparator = " "
)

const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
