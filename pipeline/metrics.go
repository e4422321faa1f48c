// Copyright 2025 DealDesk
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

package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks pipeline run outcomes and per-stage latency.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics creates pipeline metrics registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealdesk_pipeline_runs_total",
				Help: "Total pipeline runs by outcome",
			},
			[]string{"status"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dealdesk_pipeline_stage_duration_seconds",
				Help:    "Duration of each pipeline stage",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"stage"},
		),
	}
}

// RunCompleted records a successful run.
func (m *Metrics) RunCompleted() {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues("completed").Inc()
}

// RunFailed records an aborted run.
func (m *Metrics) RunFailed() {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues("failed").Inc()
}

// ObserveStage records one stage's duration. Stage is "load", a role name,
// "synthesis", or "persist".
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
