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
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/systemd-amp/pkg/amp"
	"github.com/NVIDIA/systemd-amp/pkg/logging"
)

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported on the default route.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the version reported on the default route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithAMPs registers AMPs to poll and serve. Names must be unique; a later
// AMP replaces an earlier one with the same name.
func WithAMPs(updaters ...amp.Updater) Option {
	return func(s *Server) {
		for _, u := range updaters {
			if _, ok := s.amps[u.Name()]; !ok {
				s.order = append(s.order, u.Name())
			}
			s.amps[u.Name()] = u
		}
	}
}

// Server serves AMP results over HTTP.
type Server struct {
	name    string
	version string
	config  *Config

	amps  map[string]amp.Updater
	order []string

	httpServer  *http.Server
	rateLimiter *rate.Limiter

	mu    sync.RWMutex
	ready bool
}

// New creates a new server instance.
func New(opts ...Option) *Server {
	s := &Server{
		name:    "server",
		version: "undefined",
		config:  NewConfig(),
		amps:    make(map[string]amp.Updater),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.setupRoutes(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelError, false),
	}

	return s
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Run polls the AMPs and serves HTTP until ctx is canceled or SIGINT/SIGTERM
// is received, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("server config",
		slog.String("address", s.httpServer.Addr),
		slog.Any("rateLimit", s.config.RateLimit),
		slog.Int("rateLimitBurst", s.config.RateLimitBurst),
		slog.Duration("pollInterval", s.config.PollInterval),
		slog.Duration("shutdownTimeout", s.config.ShutdownTimeout),
		slog.Any("amps", s.order),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		updaters := make([]amp.Updater, 0, len(s.order))
		for _, name := range s.order {
			updaters = append(updaters, s.amps[name])
		}
		return amp.Poll(gctx, s.config.PollInterval, updaters...)
	})

	g.Go(func() error {
		return s.serve(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func (s *Server) serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.setReady(true)

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errCh:
		s.setReady(false)
		return err
	}
}

func (s *Server) shutdown() error {
	s.setReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
