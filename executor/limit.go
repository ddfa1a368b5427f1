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

	"github.com/pingcap/errors"

	"github.com/vexecdb/vexec/util/chunk"
	"github.com/vexecdb/vexec/util/stringutil"
)

// LimitExec skips the first offset rows of its child and returns at
// most count rows after that.
type LimitExec struct {
	baseExecutor

	begin  uint64
	end    uint64
	cursor uint64

	// meetFirstBatch tracks whether the batch holding the first wanted
	// row has been reached.
	meetFirstBatch bool

	childResult *chunk.Chunk
}

var _ Executor = &LimitExec{}

// NewLimitExec builds a LimitExec returning rows [offset, offset+count)
// of the child's output.
func NewLimitExec(child Executor, offset, count uint64) *LimitExec {
	base := child.base()
	return &LimitExec{
		baseExecutor: newBaseExecutor(stringutil.StringerStr("Limit"), child.Schema(), base.initCap, base.maxChunkSize, child),
		begin:        offset,
		end:          offset + count,
	}
}

// Open implements the Executor Open interface.
func (e *LimitExec) Open(ctx context.Context) error {
	if err := e.baseExecutor.Open(ctx); err != nil {
		return errors.Trace(err)
	}
	e.childResult = NewFirstChunk(e.children[0])
	e.cursor = 0
	e.meetFirstBatch = e.begin == 0
	executorCounterLimitExec.Inc()
	return nil
}

// Next implements the Executor Next interface.
func (e *LimitExec) Next(ctx context.Context, req *chunk.Chunk) error {
	req.Reset()
	if e.cursor >= e.end {
		return nil
	}
	for !e.meetFirstBatch {
		// Transfer req's required rows to childResult, then adjust it in
		// childResult.
		e.childResult = e.childResult.SetRequiredRows(req.RequiredRows(), e.maxChunkSize)
		if err := Next(ctx, e.children[0], e.adjustRequiredRows(e.childResult)); err != nil {
			return errors.Trace(err)
		}
		batchSize := uint64(e.childResult.NumRows())
		// No more data.
		if batchSize == 0 {
			return nil
		}
		if newCursor := e.cursor + batchSize; newCursor >= e.begin {
			e.meetFirstBatch = true
			begin, end := e.begin-e.cursor, batchSize
			if newCursor > e.end {
				end = e.end - e.cursor
			}
			e.cursor += end
			if begin == end {
				break
			}
			req.Append(e.childResult, int(begin), int(end))
			return nil
		}
		e.cursor += batchSize
	}
	e.childResult.Reset()
	e.childResult = e.childResult.SetRequiredRows(req.RequiredRows(), e.maxChunkSize)
	e.adjustRequiredRows(e.childResult)
	if err := Next(ctx, e.children[0], e.childResult); err != nil {
		return errors.Trace(err)
	}
	batchSize := uint64(e.childResult.NumRows())
	// No more data.
	if batchSize == 0 {
		return nil
	}
	if e.cursor+batchSize > e.end {
		e.childResult.TruncateTo(int(e.end - e.cursor))
		batchSize = e.end - e.cursor
	}
	e.cursor += batchSize
	req.SwapColumns(e.childResult)
	return nil
}

// Close implements the Executor Close interface.
func (e *LimitExec) Close() error {
	e.childResult = nil
	return e.baseExecutor.Close()
}

// adjustRequiredRows cuts the child's required rows down to what the
// limit can still use: the rows left before end, plus the rows to skip
// before begin when the first wanted batch is still ahead.
func (e *LimitExec) adjustRequiredRows(chk *chunk.Chunk) *chunk.Chunk {
	// The upper bound of rows this executor may still read.
	limitTotal := int(e.end - e.cursor)

	var limitRequired int
	if e.cursor < e.begin {
		limitRequired = int(e.begin) - int(e.cursor) + chk.RequiredRows()
	} else {
		limitRequired = chk.RequiredRows()
	}

	return chk.SetRequiredRows(min(limitTotal, limitRequired), e.maxChunkSize)
}
