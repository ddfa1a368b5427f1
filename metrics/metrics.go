// Copyright 2025 vexec Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label constants.
const (
	// LblType is the label for a sub-type of a metric.
	LblType = "type"
)

// Metrics
var (
	ExecutorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vexec",
			Subsystem: "executor",
			Name:      "opened_total",
			Help:      "Counter of opened executors, by type.",
		}, []string{LblType})

	TopNChunksProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vexec",
			Subsystem: "executor",
			Name:      "topn_chunks_processed_total",
			Help:      "Counter of input chunks consumed by top-n executors.",
		})

	TopNRowsEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vexec",
			Subsystem: "executor",
			Name:      "topn_rows_emitted_total",
			Help:      "Counter of result rows emitted by top-n executors.",
		})

	TopNQuotaExceeded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vexec",
			Subsystem: "executor",
			Name:      "topn_quota_exceeded_total",
			Help:      "Counter of top-n runs aborted by the memory quota.",
		})

	TopNDrainDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vexec",
			Subsystem: "executor",
			Name:      "topn_drain_duration_seconds",
			Help:      "Bucketed histogram of the time spent ordering retained rows for drain.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 24), // 10us ~ 167s
		})
)

// RegisterMetrics registers the vexec metrics with prometheus.
func RegisterMetrics() {
	prometheus.MustRegister(ExecutorCounter)
	prometheus.MustRegister(TopNChunksProcessed)
	prometheus.MustRegister(TopNRowsEmitted)
	prometheus.MustRegister(TopNQuotaExceeded)
	prometheus.MustRegister(TopNDrainDuration)
}
