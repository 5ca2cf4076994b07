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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "amp_systemd_units",
			Help: "Number of units per load or active state at the last successful update",
		},
		[]string{"amp", "status"},
	)

	updateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amp_update_duration_seconds",
			Help:    "Time spent fetching AMP data in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"amp", "source"},
	)

	updateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amp_update_failures_total",
			Help: "Total number of AMP updates abandoned because of an error",
		},
		[]string{"amp", "code"},
	)
)

// recordCounts replaces the unit gauges of amp with counts.
func recordCounts(amp string, counts *StatusCounts) {
	unitsByStatus.DeletePartialMatch(prometheus.Labels{"amp": amp})
	for _, label := range counts.Labels() {
		unitsByStatus.WithLabelValues(amp, label).Set(float64(counts.Get(label)))
	}
}
