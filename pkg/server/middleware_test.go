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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

func TestRequestIDMiddleware(t *testing.T) {
	s := &Server{config: NewConfig(), rateLimiter: rate.NewLimiter(100, 200)}

	tests := []struct {
		name     string
		header   string
		keepSame bool
	}{
		{"generates when missing", "", false},
		{"keeps valid uuid", uuid.New().String(), true},
		{"replaces invalid id", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
				captured = r.Context().Value(contextKeyRequestID).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-Id", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			_, err := uuid.Parse(captured)
			assert.NoError(t, err)
			assert.Equal(t, captured, rec.Header().Get("X-Request-Id"))
			if tt.keepSame {
				assert.Equal(t, tt.header, captured)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	s := &Server{config: cfg, rateLimiter: rate.NewLimiter(cfg.RateLimit, cfg.RateLimitBurst)}

	handler := s.rateLimitMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/v1/amps", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/v1/amps", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, string(errors.ErrCodeRateLimitExceeded), decodeError(t, rec).Code)
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := &Server{config: NewConfig(), rateLimiter: rate.NewLimiter(100, 200)}

	handler := s.panicRecoveryMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler(rec, httptest.NewRequest(http.MethodGet, "/v1/amps", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(errors.ErrCodeInternal), decodeError(t, rec).Code)
}

func TestResponseWriterStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusNotFound, rw.Status())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
