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

package systemd

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NVIDIA/systemd-amp/pkg/amp"
	"github.com/NVIDIA/systemd-amp/pkg/defaults"
	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

// Name is the AMP name and its configuration section.
const Name = "systemd"

// Configuration options read through amp.Config.Get.
const (
	OptionCommand = "systemctl_cmd"
	OptionSource  = "source"
	OptionAll     = "all"
)

// Source names accepted by the source option.
const (
	SourceSystemctl = "systemctl"
	SourceDBus      = "dbus"
)

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for update diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSource replaces the source selected from configuration.
func WithSource(src Source) Option {
	return func(c *Collector) {
		if src != nil {
			c.source = src
		}
	}
}

// WithSeparator sets the separator that replaces newlines in a one_line
// result. The default is a single space.
func WithSeparator(sep string) Option {
	return func(c *Collector) {
		c.separator = sep
	}
}

// WithRunner sets the command runner of the systemctl source.
// It has no effect on other sources.
func WithRunner(r Runner) Option {
	return func(c *Collector) {
		if s, ok := c.source.(*SystemctlSource); ok {
			s.Runner = r
		}
	}
}

// Collector is the systemd AMP. It tallies units per load and active state
// and keeps a short text report of the counts.
type Collector struct {
	*amp.Base

	source    Source
	timeout   time.Duration
	separator string
	logger    *slog.Logger

	// update serialises Update calls
	update sync.Mutex

	mu     sync.RWMutex
	counts *StatusCounts
}

// NewCollector creates the systemd AMP from cfg. A nil cfg uses defaults.
func NewCollector(cfg *amp.Config, opts ...Option) (*Collector, error) {
	if cfg == nil {
		cfg = amp.NewConfig(Name)
	}

	src, err := sourceFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	c := &Collector{
		Base:      amp.NewBase(Name, cfg),
		source:    src,
		timeout:   cfg.TimeoutDuration(),
		separator: defaults.ResultSeparator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func sourceFromConfig(cfg *amp.Config) (Source, error) {
	switch s := cfg.Get(OptionSource); s {
	case "", SourceSystemctl:
		cmd := cfg.Get(OptionCommand)
		if cmd == "" {
			cmd = defaults.SystemctlCommand
		}
		return &SystemctlSource{Command: cmd}, nil
	case SourceDBus:
		return &DBusSource{All: cfg.Get(OptionAll) == "true"}, nil
	default:
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "unknown systemd AMP source",
			map[string]any{"source": s})
	}
}

// Update runs the status source if the refresh gate allows it and returns
// the current report. On failure the error is logged at debug level and the
// previous report is returned unchanged.
func (c *Collector) Update(ctx context.Context) string {
	c.update.Lock()
	defer c.update.Unlock()

	if !c.ShouldUpdate() {
		return c.Result()
	}

	attrs := []any{"amp", c.Name(), "source", c.source.Name()}
	if s, ok := c.source.(*SystemctlSource); ok {
		attrs = append(attrs, "command", s.Command)
	}
	c.logger.Debug("updating AMP", attrs...)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	counts, err := c.source.Fetch(ctx)
	updateDuration.WithLabelValues(c.Name(), c.source.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		updateFailures.WithLabelValues(c.Name(), string(errors.CodeOf(err))).Inc()
		c.logger.Debug("error while updating AMP",
			"amp", c.Name(),
			"source", c.source.Name(),
			"error", err,
		)
		return c.Result()
	}

	c.mu.Lock()
	c.counts = counts
	c.mu.Unlock()

	recordCounts(c.Name(), counts)
	c.SetResult(Render(counts), c.separator)

	return c.Result()
}

// Counts returns a copy of the counts of the last successful update, or
// nil before the first one.
func (c *Collector) Counts() *StatusCounts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.counts == nil {
		return nil
	}
	return c.counts.Clone()
}

// StatusCount is one entry of a Report.
type StatusCount struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count"`
}

// Report is a serializable view of the collector state.
type Report struct {
	Name    string        `json:"name" yaml:"name"`
	Result  string        `json:"result" yaml:"result"`
	Updated time.Time     `json:"updated" yaml:"updated"`
	Counts  []StatusCount `json:"counts" yaml:"counts"`
}

// String returns the report text.
func (r *Report) String() string {
	return r.Result
}

// Report returns the current state, counts in order of first occurrence.
func (c *Collector) Report() *Report {
	r := &Report{
		Name:    c.Name(),
		Result:  c.Result(),
		Updated: c.Updated(),
		Counts:  []StatusCount{},
	}
	if counts := c.Counts(); counts != nil {
		for _, label := range counts.Labels() {
			r.Counts = append(r.Counts, StatusCount{Status: label, Count: counts.Get(label)})
		}
	}
	return r
}
