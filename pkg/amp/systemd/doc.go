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

// Package systemd implements the systemd AMP.
//
// The AMP periodically runs the service manager status command, by default
// `systemctl --plain`, tallies units per LOAD and ACTIVE state and keeps a
// short report:
//
//	Services
//	loaded: 201
//	active: 197
//	failed: 2
//
// Labels appear in the order they are first seen in the command output.
//
// # Usage
//
//	cfg := amp.NewConfig(systemd.Name)
//	cfg.Set(systemd.OptionCommand, "/usr/bin/systemctl --plain")
//
//	collector, err := systemd.NewCollector(cfg)
//	if err != nil {
//	    return err
//	}
//	report := collector.Update(ctx)
//
// Update only runs the command when the refresh gate allows it and returns
// the previous report otherwise. Command failures are logged at debug level
// and leave the previous report in place.
//
// # Output Compatibility
//
// ParseStatus drops the first line and the last eight lines of the command
// output without inspecting them. This matches the layout of
// `systemctl --plain`: a column header, the unit table, then a legend and
// summary block. Other commands, other systemctl versions or localized output
// may produce wrong or empty counts.
//
// SplitCommand splits the configured command on whitespace only. Quoted
// arguments are not supported.
//
// # Sources
//
// The source option selects where counts come from:
//   - systemctl (default): run systemctl_cmd and parse its output
//   - dbus: list units through the systemd D-Bus API (set all: true to
//     include inactive units)
//
// # Timeouts
//
// The command runs under the AMP timeout (10 seconds unless configured).
// A timeout of 0 lets the command run until it exits.
package systemd
