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

// Package server exposes AMP results over HTTP.
//
// # Architecture
//
// The server runs two loops under one errgroup:
//
//   - the AMP poller (amp.Poll), which asks every AMP to update on a fixed
//     tick, each AMP deciding through its refresh gate whether to run
//   - the HTTP server, which only ever reads stored results and never waits
//     for a running status command
//
// API requests go through rate limiting (golang.org/x/time/rate token bucket),
// request ID tracking, panic recovery, logging and Prometheus metrics.
//
// # Endpoints
//
//	GET /                 server name, version and routes
//	GET /health           liveness
//	GET /ready            readiness
//	GET /metrics          Prometheus metrics
//	GET /v1/amps          every AMP with its current result
//	GET /v1/amps/{name}   one AMP
//
// # Usage
//
//	collector, _ := systemd.NewCollector(cfg)
//	s := server.New(
//	    server.WithName("amp-systemd"),
//	    server.WithVersion(version),
//	    server.WithAMPs(collector),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS environment variables override the
// defaults returned by NewConfig.
package server
