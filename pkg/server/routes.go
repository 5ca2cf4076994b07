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

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/systemd-amp/pkg/errors"
	"github.com/NVIDIA/systemd-amp/pkg/serializer"
)

// AMPResponse is the API view of one AMP.
type AMPResponse struct {
	Name    string     `json:"name"`
	Result  string     `json:"result"`
	Updated *time.Time `json:"updated,omitempty"`
}

// AMPListResponse is the response of GET /v1/amps.
type AMPListResponse struct {
	AMPs []AMPResponse `json:"amps"`
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware
	mux.HandleFunc("/v1/amps", s.withMiddleware(s.handleAMPs))
	mux.HandleFunc("/v1/amps/{name}", s.withMiddleware(s.handleAMP))

	return mux
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
			"route not found", false, map[string]any{"path": r.URL.Path})
		return
	}

	slog.Debug("handling default route",
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.name,
		Version:   s.version,
		Ready:     s.isReady(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes: []string{
			"GET /v1/amps",
			"GET /v1/amps/{name}",
			"GET /health",
			"GET /ready",
			"GET /metrics",
		},
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleAMPs handles GET /v1/amps
func (s *Server) handleAMPs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}

	resp := AMPListResponse{AMPs: make([]AMPResponse, 0, len(s.order))}
	for _, name := range s.order {
		resp.AMPs = append(resp.AMPs, s.ampResponse(name))
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleAMP handles GET /v1/amps/{name}
func (s *Server) handleAMP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}

	name := r.PathValue("name")
	if _, ok := s.amps[name]; !ok {
		writeError(w, r, http.StatusNotFound, errors.ErrCodeNotFound,
			"AMP not found", false, map[string]any{"name": name})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s.ampResponse(name))
}

func (s *Server) ampResponse(name string) AMPResponse {
	u := s.amps[name]
	resp := AMPResponse{
		Name:   name,
		Result: u.Result(),
	}
	if ts := u.Updated(); !ts.IsZero() {
		utc := ts.UTC()
		resp.Updated = &utc
	}
	return resp
}
