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

// Package amp provides the base every Application Monitoring Process (AMP)
// plugin builds on.
//
// An AMP checks one external application or service and keeps a short text
// summary of its state. The base supplies the three collaborators an AMP
// needs from its host:
//
//   - Config: per-AMP settings loaded from YAML, with Get(key) for
//     plugin-specific options such as systemctl_cmd.
//   - A refresh gate: ShouldUpdate reports true at most once per refresh
//     interval, so expensive checks do not run on every host tick.
//   - A result store: SetResult and Result keep the last good summary.
//
// # Configuration
//
//	amps:
//	  systemd:
//	    enable: true
//	    regex: \/usr\/lib\/systemd\/systemd
//	    refresh: 60
//	    one_line: true
//	    systemctl_cmd: /usr/bin/systemctl --plain
//
// refresh and timeout are expressed in seconds.
//
// # Polling
//
// Poll drives a set of Updaters on a fixed tick until its context is done:
//
//	err := amp.Poll(ctx, defaults.AMPPollInterval, collector)
package amp
