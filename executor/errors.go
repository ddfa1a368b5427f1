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
	"github.com/pingcap/errors"
)

// Configuration errors, returned at construction time.
var (
	// ErrLimitNotPositive is returned when the row limit of a top-n is
	// zero or negative.
	ErrLimitNotPositive = errors.New("top-n limit must be positive")
	// ErrNoProjections is returned when a top-n is built without output
	// columns.
	ErrNoProjections = errors.New("top-n requires at least one projection")
	// ErrNoOrdering is returned when a top-n is built without a key
	// comparator.
	ErrNoOrdering = errors.New("top-n requires a key comparator")
	// ErrKeyColumnOutOfRange is returned when the ranking column does
	// not exist in the child schema.
	ErrKeyColumnOutOfRange = errors.New("top-n key column out of range")
	// ErrNegativeQuota is returned for a negative memory quota. A zero
	// quota is accepted and fails the run once a row is retained.
	ErrNegativeQuota = errors.New("memory quota must be non-negative")
)

// Runtime errors.
var (
	// ErrMemoryQuotaExceeded is returned when the retained rows no
	// longer fit the memory quota.
	ErrMemoryQuotaExceeded = errors.New("memory quota exceeded")
	// ErrCursorDesync reports an internal inconsistency: a selected row
	// position could not be reached by the chunk cursors.
	ErrCursorDesync = errors.New("chunk cursor out of sync with selected positions")
	// ErrExecutorClosed is returned when rows are pulled from a closed
	// executor.
	ErrExecutorClosed = errors.New("executor already closed")
)
