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
	"context"

	"github.com/vexecdb/vexec/util/chunk"
	"github.com/vexecdb/vexec/util/memory"
	"github.com/vexecdb/vexec/util/stringutil"
)

// ListScanExec is a leaf executor reading rows out of an in-memory
// chunk.List. Reopening it rewinds to the first row, the list itself
// is never modified.
type ListScanExec struct {
	baseExecutor

	data   *chunk.List
	chkIdx int
	rowIdx int

	memTracker *memory.Tracker
}

var _ Executor = &ListScanExec{}

// NewListScanExec builds a ListScanExec serving the given list. The
// sizes control how the parent allocates its pull chunks.
func NewListScanExec(data *chunk.List, initCap, maxChunkSize int) *ListScanExec {
	return &ListScanExec{
		baseExecutor: newBaseExecutor(stringutil.StringerStr("ListScan"), data.FieldTypes(), initCap, maxChunkSize),
		data:         data,
	}
}

// Open implements the Executor Open interface.
func (e *ListScanExec) Open(ctx context.Context) error {
	e.chkIdx, e.rowIdx = 0, 0
	e.memTracker = memory.NewTracker(memory.LabelForScanSource, -1)
	e.data.GetMemTracker().AttachTo(e.memTracker)
	executorCounterListScanExec.Inc()
	return nil
}

// Next implements the Executor Next interface. Rows are copied into
// req in list order, honoring the required row count of the chunk.
func (e *ListScanExec) Next(ctx context.Context, req *chunk.Chunk) error {
	req.Reset()
	if e.data == nil {
		return nil
	}
	for !req.IsFull() && e.chkIdx < e.data.NumChunks() {
		chk := e.data.GetChunk(e.chkIdx)
		numRows := min(req.RequiredRows()-req.NumRows(), chk.NumRows()-e.rowIdx)
		req.Append(chk, e.rowIdx, e.rowIdx+numRows)
		e.rowIdx += numRows
		if e.rowIdx >= chk.NumRows() {
			e.chkIdx++
			e.rowIdx = 0
		}
	}
	return nil
}

// Close implements the Executor Close interface.
func (e *ListScanExec) Close() error {
	if e.memTracker != nil {
		e.data.GetMemTracker().Detach()
		e.memTracker = nil
	}
	e.data = nil
	return nil
}

// MemTracker returns the tracker holding the scanned list's bytes.
func (e *ListScanExec) MemTracker() *memory.Tracker {
	return e.memTracker
}
