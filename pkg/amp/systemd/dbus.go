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

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

// UnitLister lists the units known to the service manager.
type UnitLister interface {
	ListUnitsContext(ctx context.Context) ([]dbus.UnitStatus, error)
	Close()
}

// DialFunc opens a UnitLister.
type DialFunc func(ctx context.Context) (UnitLister, error)

// DialSystemd connects to the systemd D-Bus API.
func DialSystemd(ctx context.Context) (UnitLister, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DBusSource tallies units over the systemd D-Bus API instead of parsing
// command output. It counts the load and active state of every unit the
// same way ParseStatus counts the LOAD and ACTIVE columns.
type DBusSource struct {
	// All includes inactive units, like `systemctl --all`.
	All bool
	// Dial opens the connection. DialSystemd is used when nil.
	Dial DialFunc
}

// Name implements Source.
func (s *DBusSource) Name() string {
	return "dbus"
}

// Fetch implements Source. A connection is opened and closed per call.
func (s *DBusSource) Fetch(ctx context.Context) (*StatusCounts, error) {
	dial := s.Dial
	if dial == nil {
		dial = DialSystemd
	}

	conn, err := dial(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to connect to systemd", err)
	}
	defer conn.Close()

	units, err := conn.ListUnitsContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to list units", err)
	}

	return CountUnits(units, s.All), nil
}

// CountUnits tallies load and active states. Unless all is set, units that
// systemctl hides by default (inactive or following another unit, with no
// pending job) are skipped.
func CountUnits(units []dbus.UnitStatus, all bool) *StatusCounts {
	counts := NewStatusCounts()
	for _, u := range units {
		if !all && !listedByDefault(u) {
			continue
		}
		counts.Inc(u.LoadState)
		counts.Inc(u.ActiveState)
	}
	return counts
}

func listedByDefault(u dbus.UnitStatus) bool {
	if u.JobId != 0 {
		return true
	}
	return u.ActiveState != "inactive" && u.Followed == ""
}
