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
	"log/slog"
	"time"

	"github.com/NVIDIA/systemd-amp/pkg/errors"
)

// Poll calls Update on every updater once immediately and then on every
// tick of interval, until ctx is done. Updaters run one after the other.
func Poll(ctx context.Context, interval time.Duration, updaters ...Updater) error {
	if interval <= 0 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "poll interval must be positive",
			map[string]any{"interval": interval.String()})
	}

	slog.Info("polling AMPs", "count", len(updaters), "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, u := range updaters {
			if ctx.Err() != nil {
				break
			}
			u.Update(ctx)
		}

		select {
		case <-ctx.Done():
			slog.Debug("AMP polling stopped", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}
