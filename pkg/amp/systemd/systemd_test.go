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
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/systemd-amp/pkg/amp"
	"github.com/NVIDIA/systemd-amp/pkg/defaults"
	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

func newTestConfig(refresh int, oneLine bool) *amp.Config {
	cfg := amp.NewConfig(Name)
	cfg.Refresh = refresh
	cfg.OneLine = oneLine
	cfg.Set(OptionCommand, "/usr/bin/systemctl --plain")
	return cfg
}

func newTestCollector(t *testing.T, cfg *amp.Config, r Runner, logBuf *bytes.Buffer) *Collector {
	t.Helper()
	opts := []Option{WithRunner(r)}
	if logBuf != nil {
		opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	c, err := NewCollector(cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestCollectorUpdate(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput("systemd-logind.service loaded active running User Login Management")}
	c := newTestCollector(t, newTestConfig(0, false), r, nil)

	got := c.Update(context.Background())

	assert.Equal(t, "Services\nloaded: 1\nactive: 1\n", got)
	assert.Equal(t, got, c.Result())
	assert.Equal(t, [][]string{{"/usr/bin/systemctl", "--plain"}}, r.calls)
	assert.Equal(t, map[string]int{"loaded": 1, "active": 1}, c.Counts().Map())
	assert.Equal(t, 1.0, testutil.ToFloat64(unitsByStatus.WithLabelValues(Name, "loaded")))
}

func TestCollectorUpdateDefaults(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput("systemd-logind.service loaded active running User Login Management")}
	c, err := NewCollector(nil, WithRunner(r))
	require.NoError(t, err)

	assert.Equal(t, "Services\nloaded: 1\nactive: 1\n", c.Update(context.Background()))
	assert.Equal(t, [][]string{{"systemctl", "--plain"}}, r.calls)
}

func TestCollectorUpdateConcurrent(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput("systemd-logind.service loaded active running User Login Management")}
	c := newTestCollector(t, newTestConfig(3600, false), r, nil)

	const callers = 16
	results := make([]string, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Update(context.Background())
		}()
	}
	wg.Wait()

	assert.Len(t, r.calls, 1, "one gate decision must run the command once")
	for _, got := range results {
		assert.Equal(t, "Services\nloaded: 1\nactive: 1\n", got)
	}
}

func TestCollectorUpdateLogsCommand(t *testing.T) {
	t.Run("default systemctl command", func(t *testing.T) {
		var logs bytes.Buffer
		cfg := amp.NewConfig(Name)
		cfg.Refresh = 0
		c := newTestCollector(t, cfg, &fakeRunner{out: systemctlOutput()}, &logs)

		c.Update(context.Background())
		assert.Contains(t, logs.String(), `command="systemctl --plain"`)
	})

	t.Run("dbus source has no command", func(t *testing.T) {
		var logs bytes.Buffer
		src := &DBusSource{Dial: func(context.Context) (UnitLister, error) { return &fakeLister{}, nil }}
		c, err := NewCollector(newTestConfig(0, false),
			WithSource(src),
			WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		)
		require.NoError(t, err)

		c.Update(context.Background())
		assert.Contains(t, logs.String(), "source=dbus")
		assert.NotContains(t, logs.String(), "command=")
	})
}

func TestCollectorUpdateTwoUnits(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput(
		"systemd-logind.service loaded active running User Login Management",
		"cron.service loaded active running Regular background program processing daemon",
		"x",
	)}
	c := newTestCollector(t, newTestConfig(0, false), r, nil)

	assert.Equal(t, "Services\nloaded: 2\nactive: 2\n", c.Update(context.Background()))
}

func TestCollectorUpdateOneLine(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput("systemd-logind.service loaded active running User Login Management")}
	c := newTestCollector(t, newTestConfig(0, true), r, nil)

	assert.Equal(t, "Services loaded: 1 active: 1 ", c.Update(context.Background()))
}

func TestCollectorUpdateSeparator(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput("systemd-logind.service loaded active running User Login Management")}
	c, err := NewCollector(newTestConfig(0, true), WithRunner(r), WithSeparator(" | "))
	require.NoError(t, err)

	assert.Equal(t, "Services | loaded: 1 | active: 1 | ", c.Update(context.Background()))
}

func TestCollectorUpdateGateDenied(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput("cron.service loaded active running cron")}
	c := newTestCollector(t, newTestConfig(3600, false), r, nil)

	first := c.Update(context.Background())
	require.Len(t, r.calls, 1)

	r.out = systemctlOutput(
		"cron.service loaded active running cron",
		"ssh.service loaded active running ssh",
	)
	second := c.Update(context.Background())

	assert.Len(t, r.calls, 1, "gate must prevent a second run")
	assert.Equal(t, first, second)
}

func TestCollectorUpdateDisabled(t *testing.T) {
	cfg := newTestConfig(0, false)
	cfg.Enable = false
	r := &fakeRunner{out: systemctlOutput("cron.service loaded active running cron")}
	c := newTestCollector(t, cfg, r, nil)

	assert.Equal(t, "", c.Update(context.Background()))
	assert.Empty(t, r.calls)
	assert.Nil(t, c.Counts())
}

func TestCollectorUpdateFailureKeepsReport(t *testing.T) {
	var logs bytes.Buffer
	r := &fakeRunner{out: systemctlOutput("cron.service loaded active running cron")}
	c := newTestCollector(t, newTestConfig(0, false), r, &logs)

	good := c.Update(context.Background())
	require.Equal(t, "Services\nloaded: 1\nactive: 1\n", good)

	before := testutil.ToFloat64(updateFailures.WithLabelValues(Name, string(errors.ErrCodeNotFound)))
	r.err = &exec.Error{Name: "/usr/bin/systemctl", Err: exec.ErrNotFound}

	got := c.Update(context.Background())

	assert.Equal(t, good, got)
	assert.Equal(t, good, c.Result())
	assert.Len(t, r.calls, 2)
	assert.Contains(t, logs.String(), "error while updating AMP")
	assert.Contains(t, logs.String(), "NOT_FOUND")
	assert.Equal(t, before+1, testutil.ToFloat64(updateFailures.WithLabelValues(Name, string(errors.ErrCodeNotFound))))
}

func TestCollectorUpdateFailureBeforeFirstReport(t *testing.T) {
	r := &fakeRunner{err: &exec.Error{Name: "systemctl", Err: exec.ErrNotFound}}
	c := newTestCollector(t, newTestConfig(0, false), r, &bytes.Buffer{})

	assert.Equal(t, "", c.Update(context.Background()))
	assert.Nil(t, c.Counts())
}

func TestCollectorEmptyOutput(t *testing.T) {
	c := newTestCollector(t, newTestConfig(0, false), &fakeRunner{out: ""}, nil)

	assert.Equal(t, "Services\n", c.Update(context.Background()))
}

func TestCollectorTimeout(t *testing.T) {
	cfg := newTestConfig(0, false)
	cfg.Timeout = 1
	r := &fakeRunner{block: true}
	c := newTestCollector(t, cfg, r, &bytes.Buffer{})

	before := testutil.ToFloat64(updateFailures.WithLabelValues(Name, string(errors.ErrCodeTimeout)))
	assert.Equal(t, "", c.Update(context.Background()))
	assert.Equal(t, before+1, testutil.ToFloat64(updateFailures.WithLabelValues(Name, string(errors.ErrCodeTimeout))))
}

func TestNewCollectorSources(t *testing.T) {
	t.Run("default command", func(t *testing.T) {
		c, err := NewCollector(nil)
		require.NoError(t, err)
		src, ok := c.source.(*SystemctlSource)
		require.True(t, ok)
		assert.Equal(t, defaults.SystemctlCommand, src.Command)
		assert.Equal(t, defaults.CollectorTimeout, c.timeout)
		assert.Equal(t, Name, c.Name())
	})

	t.Run("dbus", func(t *testing.T) {
		cfg := amp.NewConfig(Name)
		cfg.Set(OptionSource, SourceDBus)
		cfg.Set(OptionAll, true)
		c, err := NewCollector(cfg)
		require.NoError(t, err)
		src, ok := c.source.(*DBusSource)
		require.True(t, ok)
		assert.True(t, src.All)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := amp.NewConfig(Name)
		cfg.Set(OptionSource, "upstart")
		_, err := NewCollector(cfg)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	})

	t.Run("explicit source", func(t *testing.T) {
		l := &fakeLister{units: testUnits}
		src := &DBusSource{Dial: func(context.Context) (UnitLister, error) { return l, nil }}
		cfg := newTestConfig(0, false)
		c, err := NewCollector(cfg, WithSource(src))
		require.NoError(t, err)
		assert.Equal(t, "Services\nloaded: 3\nactive: 1\nfailed: 1\ninactive: 1\n", c.Update(context.Background()))
	})
}

func TestCollectorReport(t *testing.T) {
	r := &fakeRunner{out: systemctlOutput(
		"ssh.service loaded active running ssh",
		"nfs.service loaded failed failed nfs",
	)}
	c := newTestCollector(t, newTestConfig(0, true), r, nil)

	empty := c.Report()
	assert.Equal(t, Name, empty.Name)
	assert.Empty(t, empty.Counts)

	c.Update(context.Background())
	rep := c.Report()
	assert.Equal(t, "Services loaded: 2 active: 1 failed: 1 ", rep.String())
	assert.Equal(t, []StatusCount{
		{Status: "loaded", Count: 2},
		{Status: "active", Count: 1},
		{Status: "failed", Count: 1},
	}, rep.Counts)
	assert.False(t, rep.Updated.IsZero())
}

func TestCollectorImplementsUpdater(t *testing.T) {
	var _ amp.Updater = (*Collector)(nil)
}
