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

package executor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vexecdb/vexec/metrics"
)

// metrics vars
var (
	executorCounterTopNExec     prometheus.Counter
	executorCounterLimitExec    prometheus.Counter
	executorCounterListScanExec prometheus.Counter

	topNChunksProcessed prometheus.Counter
	topNRowsEmitted     prometheus.Counter
	topNQuotaExceeded   prometheus.Counter
	topNDrainDuration   prometheus.Observer
)

func init() {
	InitMetricsVars()
}

// InitMetricsVars init executor metrics vars.
func InitMetricsVars() {
	executorCounterTopNExec = metrics.ExecutorCounter.WithLabelValues("TopNExec")
	executorCounterLimitExec = metrics.ExecutorCounter.WithLabelValues("LimitExec")
	executorCounterListScanExec = metrics.ExecutorCounter.WithLabelValues("ListScanExec")

	topNChunksProcessed = metrics.TopNChunksProcessed
	topNRowsEmitted = metrics.TopNRowsEmitted
	topNQuotaExceeded = metrics.TopNQuotaExceeded
	topNDrainDuration = metrics.TopNDrainDuration
}
