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

package amp

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Updater is implemented by every AMP.
type Updater interface {
	// Name returns the AMP name.
	Name() string
	// Update refreshes the AMP if its gate allows and returns the current result.
	// It never fails: problems are logged and the previous result stands.
	Update(ctx context.Context) string
	// Result returns the current result without updating.
	Result() string
	// Updated returns the time of the last successful update.
	Updated() time.Time
}

// Base implements the configuration accessor, the refresh gate and the
// result store shared by AMPs. It is safe for concurrent use.
type Base struct {
	cfg  *Config
	gate *rate.Sometimes

	mu      sync.RWMutex
	result  string
	updated time.Time
}

// NewBase creates a Base for cfg. A nil cfg is replaced by defaults for name.
func NewBase(name string, cfg *Config) *Base {
	if cfg == nil {
		cfg = NewConfig(name)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	b := &Base{cfg: cfg}
	if iv := cfg.RefreshInterval(); iv > 0 {
		// Interval-only Sometimes runs on the first call and then at most
		// once per interval.
		b.gate = &rate.Sometimes{Interval: iv}
	}
	return b
}

// Name returns the AMP name.
func (b *Base) Name() string {
	return b.cfg.Name
}

// Config returns the AMP configuration.
func (b *Base) Config() *Config {
	return b.cfg
}

// Get returns a configuration option as a string.
func (b *Base) Get(key string) string {
	return b.cfg.Get(key)
}

// ShouldUpdate reports whether the AMP should refresh now. It returns true
// at most once per refresh interval and never when the AMP is disabled.
// The interval restarts on every call that returns true, whatever the
// outcome of the update that follows.
func (b *Base) ShouldUpdate() bool {
	if !b.cfg.Enable {
		return false
	}
	if b.gate == nil {
		return true
	}
	due := false
	b.gate.Do(func() { due = true })
	return due
}

// SetResult stores text as the current result. When the AMP is configured
// as one_line, every newline in text is replaced by separator.
func (b *Base) SetResult(text, separator string) {
	if b.cfg.OneLine {
		text = strings.ReplaceAll(text, "\n", separator)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.result = text
	b.updated = time.Now()
}

// Result returns the current result, empty until the first successful update.
func (b *Base) Result() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.result
}

// Updated returns the time of the last successful update.
func (b *Base) Updated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updated
}
