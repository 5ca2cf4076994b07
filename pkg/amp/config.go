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
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/systemd-amp/pkg/defaults"
	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

// Config holds the settings of a single AMP.
type Config struct {
	// Name identifies the AMP, filled from the section key when loaded.
	Name string `json:"name" yaml:"-"`

	Enable bool   `json:"enable" yaml:"enable"`
	Regex  string `json:"regex,omitempty" yaml:"regex,omitempty"`

	// OneLine joins the result lines with the separator given to SetResult.
	// It is off unless set.
	OneLine bool `json:"oneLine" yaml:"one_line"`

	// Refresh is the minimum number of seconds between two updates.
	Refresh int `json:"refresh" yaml:"refresh"`

	// Timeout bounds a single update in seconds. Zero means no timeout.
	Timeout int `json:"timeout" yaml:"timeout"`

	// Options carries every other key of the section.
	Options map[string]any `json:"options,omitempty" yaml:",inline"`
}

// NewConfig returns a Config for name with default settings.
func NewConfig(name string) *Config {
	return &Config{
		Name:    name,
		Enable:  true,
		Refresh: int(defaults.AMPRefreshInterval / time.Second),
		Timeout: int(defaults.CollectorTimeout / time.Second),
		Options: make(map[string]any),
	}
}

// Get returns the option stored under key as a string, or "" when unset.
func (c *Config) Get(key string) string {
	if c == nil || c.Options == nil {
		return ""
	}
	v, ok := c.Options[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set stores an option value.
func (c *Config) Set(key string, value any) {
	if c.Options == nil {
		c.Options = make(map[string]any)
	}
	c.Options[key] = value
}

// RefreshInterval returns Refresh as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh) * time.Second
}

// TimeoutDuration returns Timeout as a duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks the configuration for values the AMP cannot run with.
func (c *Config) Validate() error {
	if c.Refresh < 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "refresh cannot be negative",
			map[string]any{"amp": c.Name, "refresh": c.Refresh})
	}
	if c.Timeout < 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "timeout cannot be negative",
			map[string]any{"amp": c.Name, "timeout": c.Timeout})
	}
	if c.Regex != "" {
		if _, err := regexp.Compile(c.Regex); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid regex", err,
				map[string]any{"amp": c.Name, "regex": c.Regex})
		}
	}
	return nil
}

// File is the on-disk layout of an AMP configuration file.
type File struct {
	AMPs map[string]*Config `yaml:"amps"`
}

// Lookup returns the configuration for name, or the defaults when the file
// has no such section.
func (f *File) Lookup(name string) *Config {
	if f != nil {
		if c, ok := f.AMPs[name]; ok && c != nil {
			return c
		}
	}
	return NewConfig(name)
}

// Parse decodes and validates an AMP configuration document. Settings absent
// from a section keep their defaults.
func Parse(b []byte) (*File, error) {
	var raw struct {
		AMPs map[string]yaml.Node `yaml:"amps"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to parse AMP configuration", err)
	}

	f := &File{AMPs: make(map[string]*Config, len(raw.AMPs))}
	for name, node := range raw.AMPs {
		c := NewConfig(name)
		if err := node.Decode(c); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to decode AMP section", err,
				map[string]any{"amp": name})
		}
		c.Name = name
		if c.Options == nil {
			c.Options = make(map[string]any)
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		f.AMPs[name] = c
	}
	return f, nil
}

// LoadFile reads and parses the AMP configuration file at path.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "config file path cannot be empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "config file not found", err,
				map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to read config file", err,
			map[string]any{"path": path})
	}
	return Parse(b)
}
