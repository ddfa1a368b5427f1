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
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// RuntimeStats collects one executor's execution counters. All methods
// are safe for concurrent use, readers may observe a pipeline while it
// runs.
type RuntimeStats struct {
	// loop is the number of Next calls.
	loop atomic.Int32
	// consume is the total wall time spent in Next.
	consume atomic.Duration
	// rows is the total number of rows returned.
	rows atomic.Int64
}

// Record records one Next call's time cost and the number of rows it
// returned.
func (s *RuntimeStats) Record(d time.Duration, rowNum int) {
	s.loop.Inc()
	s.consume.Add(d)
	s.rows.Add(int64(rowNum))
}

// Rows returns the total number of rows this executor returned.
func (s *RuntimeStats) Rows() int64 {
	return s.rows.Load()
}

// Loops returns the number of Next calls on this executor.
func (s *RuntimeStats) Loops() int32 {
	return s.loop.Load()
}

// Time returns the total wall time spent in this executor's Next.
func (s *RuntimeStats) Time() time.Duration {
	return s.consume.Load()
}

// String implements fmt.Stringer.
func (s *RuntimeStats) String() string {
	return fmt.Sprintf("time:%v, loops:%d, rows:%d", s.consume.Load(), s.loop.Load(), s.rows.Load())
}
