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

// Package cli implements the amp-systemd command-line interface.
//
// # Commands
//
// check - run the systemd AMP once and print its report:
//
//	amp-systemd check [--config FILE] [--systemctl-cmd CMD] [--source systemctl|dbus]
//	                  [--one-line] [--separator S] [--format text|json|yaml] [--output FILE]
//
// serve - poll the AMP and serve its result over HTTP:
//
//	amp-systemd serve [--config FILE] [--address ADDR] [--port N] [--poll-interval D]
//
// # Global Flags
//
//   - --log-level: debug, info, warn or error (env LOG_LEVEL)
//
// # Environment
//
//   - AMP_CONFIG: AMP configuration file
//   - AMP_SYSTEMCTL_CMD: status command overriding systemctl_cmd
//   - PORT: server port
//
// # Exit Codes
//
//   - 0: success
//   - 1: error (invalid configuration, no report could be produced)
package cli
