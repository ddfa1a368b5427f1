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
	"container/heap"
	"context"
	"sort"
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"go.uber.org/zap"

	"github.com/vexecdb/vexec/types"
	"github.com/vexecdb/vexec/util/chunk"
	"github.com/vexecdb/vexec/util/logutil"
	"github.com/vexecdb/vexec/util/memory"
	"github.com/vexecdb/vexec/util/stringutil"
)

const (
	// candidateOverhead estimates the bookkeeping bytes per retained
	// row, on top of the row data itself. It is a deliberately rough
	// number.
	candidateOverhead = 100
	// maxInitialHeapCap caps preallocated heap capacity so a huge row
	// limit does not reserve memory before any row arrives.
	maxInitialHeapCap = 10000
)

// topNPhase is the lifecycle stage of a TopNExec.
type topNPhase int

const (
	phaseNotStarted topNPhase = iota
	phaseComputing
	phaseDraining
	phaseDone
	phaseClosed
)

// keyRef points at one row of the chunk being processed. Only the key
// is decoded; the row stays in the source chunk unless the reference
// survives the merge. The key datum may alias the chunk storage.
type keyRef struct {
	key types.Datum
	pos int
}

// candidate is a retained row: the key plus the materialized row
// datums, owned by the executor and independent of any source chunk.
// size is the storage width of the row, cached for memory accounting.
type candidate struct {
	key  types.Datum
	row  []types.Datum
	size int64
}

// refHeap is a min-heap of in-chunk references ordered by key, so the
// weakest reference sits at the root and is evicted first.
type refHeap struct {
	items []keyRef
	cmp   types.Comparator
}

func (h *refHeap) Len() int { return len(h.items) }

func (h *refHeap) Less(i, j int) bool {
	return h.cmp(h.items[i].key, h.items[j].key) < 0
}

func (h *refHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *refHeap) Push(x any) {
	h.items = append(h.items, x.(keyRef))
}

func (h *refHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// candidateHeap is a min-heap of materialized candidates ordered by
// key. The root is the weakest retained row, the bar every challenger
// has to clear.
type candidateHeap struct {
	items []*candidate
	cmp   types.Comparator
}

func (h *candidateHeap) Len() int { return len(h.items) }

func (h *candidateHeap) Less(i, j int) bool {
	return h.cmp(h.items[i].key, h.items[j].key) < 0
}

func (h *candidateHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *candidateHeap) Push(x any) {
	h.items = append(h.items, x.(*candidate))
}

func (h *candidateHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	return x
}

func (h *candidateHeap) min() *candidate { return h.items[0] }

// TopNExec keeps the n best rows of its child's output, ranked by one
// key column. The whole child is consumed on the first Next call, then
// the retained rows drain best first.
//
// Every input chunk goes through two stages: a key-only selection
// picks at most n references into the chunk without touching the other
// columns, then the merge re-checks each reference against the global
// candidate set and materializes the survivors. Only materialized rows
// are charged against the memory quota.
type TopNExec struct {
	baseExecutor

	n           int
	keyColIdx   int
	cmp         types.Comparator
	projections []Projection
	quota       int64

	keyType *types.FieldType
	phase   topNPhase

	candidates *candidateHeap
	// sorted holds the drained candidates in worst-to-best order;
	// emitIdx walks it backwards so the best row leaves first.
	sorted  []*candidate
	emitIdx int

	memTracker *memory.Tracker
}

var _ Executor = &TopNExec{}

// NewTopNExec builds a TopNExec.
//
//	child: the executor producing the input rows.
//	n: how many rows to retain.
//	keyColIdx: the child column the rows are ranked by.
//	cmp: normalized comparator over key datums, greater means preferred.
//	projections: the output columns, evaluated at drain time.
//	quota: memory budget in bytes for materialized rows. Zero is a
//	  valid budget that fails the run once any input arrives.
func NewTopNExec(child Executor, n, keyColIdx int, cmp types.Comparator, projections []Projection, quota int64) (*TopNExec, error) {
	if child == nil {
		return nil, errors.New("top-n requires a child executor")
	}
	if n <= 0 {
		return nil, errors.Trace(ErrLimitNotPositive)
	}
	if len(projections) == 0 {
		return nil, errors.Trace(ErrNoProjections)
	}
	if cmp == nil {
		return nil, errors.Trace(ErrNoOrdering)
	}
	childSchema := child.Schema()
	if keyColIdx < 0 || keyColIdx >= len(childSchema) {
		return nil, errors.Annotatef(ErrKeyColumnOutOfRange, "column %d of %d", keyColIdx, len(childSchema))
	}
	if quota < 0 {
		return nil, errors.Trace(ErrNegativeQuota)
	}
	schema := make([]*types.FieldType, 0, len(projections))
	for _, p := range projections {
		schema = append(schema, p.FieldType())
	}
	base := child.base()
	return &TopNExec{
		baseExecutor: newBaseExecutor(stringutil.StringerStr("TopN"), schema, base.initCap, base.maxChunkSize, child),
		n:            n,
		keyColIdx:    keyColIdx,
		cmp:          cmp,
		projections:  projections,
		quota:        quota,
		keyType:      childSchema[keyColIdx],
	}, nil
}

// Open implements the Executor Open interface.
func (e *TopNExec) Open(ctx context.Context) error {
	if err := e.baseExecutor.Open(ctx); err != nil {
		return errors.Trace(err)
	}
	e.memTracker = memory.NewTracker(memory.LabelForTopN, e.quota)
	e.candidates = &candidateHeap{
		items: make([]*candidate, 0, min(e.n, maxInitialHeapCap)),
		cmp:   e.cmp,
	}
	e.sorted = nil
	e.emitIdx = -1
	e.phase = phaseNotStarted
	executorCounterTopNExec.Inc()
	return nil
}

// Next implements the Executor Next interface.
func (e *TopNExec) Next(ctx context.Context, req *chunk.Chunk) error {
	req.Reset()
	switch e.phase {
	case phaseClosed:
		return errors.Trace(ErrExecutorClosed)
	case phaseDone:
		return nil
	case phaseNotStarted, phaseComputing:
		if err := e.selectTopN(ctx); err != nil {
			return err
		}
		e.beginDrain()
	}
	e.emit(req)
	return nil
}

// Close implements the Executor Close interface. It is idempotent and
// may be called in any phase.
func (e *TopNExec) Close() error {
	if e.phase == phaseClosed {
		return nil
	}
	e.phase = phaseClosed
	e.candidates = nil
	e.sorted = nil
	e.emitIdx = -1
	if e.memTracker != nil {
		e.memTracker.ReplaceBytesUsed(0)
		e.memTracker.Detach()
		e.memTracker = nil
	}
	return e.baseExecutor.Close()
}

// MemTracker returns the tracker accounting the materialized rows.
func (e *TopNExec) MemTracker() *memory.Tracker {
	return e.memTracker
}

// selectTopN consumes the whole child output, keeping at most n
// candidates.
func (e *TopNExec) selectTopN(ctx context.Context) error {
	e.phase = phaseComputing
	chk := NewFirstChunk(e.children[0])
	for {
		if err := Next(ctx, e.children[0], chk); err != nil {
			return errors.Trace(err)
		}
		if chk.NumRows() == 0 {
			return nil
		}
		if err := e.processChunk(ctx, chk); err != nil {
			return err
		}
		topNChunksProcessed.Inc()
	}
}

// processChunk runs the two-stage selection on one input chunk.
func (e *TopNExec) processChunk(ctx context.Context, chk *chunk.Chunk) error {
	refs := e.selectChunkCandidates(chk)
	if len(refs) > 0 {
		if err := e.mergeChunkCandidates(chk, refs); err != nil {
			return err
		}
	}
	return e.checkMemoryCeiling(ctx)
}

// selectChunkCandidates picks at most n rows of the chunk worth
// considering, by key only. Rows that cannot beat the current global
// minimum are skipped without decoding any non-key column.
func (e *TopNExec) selectChunkCandidates(chk *chunk.Chunk) []keyRef {
	var globalMin types.Datum
	full := e.candidates.Len() >= e.n
	if full {
		globalMin = e.candidates.min().key
	}
	local := &refHeap{
		items: make([]keyRef, 0, min(e.n, maxInitialHeapCap)),
		cmp:   e.cmp,
	}
	cur := chunk.NewCursor(chk, e.keyColIdx, e.keyType)
	for cur.Next() {
		key := cur.Datum()
		if full && e.cmp(key, globalMin) <= 0 {
			continue
		}
		if local.Len() < e.n {
			heap.Push(local, keyRef{key: key, pos: cur.Pos()})
		} else if e.cmp(key, local.items[0].key) > 0 {
			local.items[0] = keyRef{key: key, pos: cur.Pos()}
			heap.Fix(local, 0)
		}
	}
	return local.items
}

// mergeChunkCandidates re-checks the chunk references against the
// global set and materializes the survivors. References are visited in
// position order so a single forward pass over the chunk serves all of
// them.
func (e *TopNExec) mergeChunkCandidates(chk *chunk.Chunk, refs []keyRef) error {
	sort.Slice(refs, func(i, j int) bool { return refs[i].pos < refs[j].pos })
	childSchema := e.children[0].Schema()
	cursors := make([]*chunk.Cursor, chk.NumCols())
	for i := range cursors {
		cursors[i] = chunk.NewCursor(chk, i, childSchema[i])
	}
	for _, ref := range refs {
		// The minimum may have moved since the local selection, admits
		// within this loop raise the bar.
		if e.candidates.Len() >= e.n && e.cmp(ref.key, e.candidates.min().key) <= 0 {
			continue
		}
		advanced := true
		if _, _err_ := failpoint.Eval(_curpkg_("topNCursorDesync")); _err_ == nil {
			advanced = false
		}
		for _, cur := range cursors {
			if !cur.Seek(ref.pos) {
				advanced = false
				break
			}
		}
		if !advanced {
			return errors.Annotatef(ErrCursorDesync, "position %d", ref.pos)
		}
		e.admit(ref, cursors)
	}
	return nil
}

// admit clones the row under the cursors into the global set, evicting
// the current minimum when the set is full.
func (e *TopNExec) admit(ref keyRef, cursors []*chunk.Cursor) {
	cand := e.materialize(ref, cursors)
	if e.candidates.Len() < e.n {
		heap.Push(e.candidates, cand)
		e.memTracker.Consume(cand.size)
		return
	}
	evicted := e.candidates.items[0]
	e.candidates.items[0] = cand
	heap.Fix(e.candidates, 0)
	e.memTracker.Consume(cand.size - evicted.size)
}

// materialize deep-copies the row so it no longer references the
// source chunk. The key channel reuses the cloned key datum instead of
// decoding the cursor again.
func (e *TopNExec) materialize(ref keyRef, cursors []*chunk.Cursor) *candidate {
	key := ref.key.Clone()
	row := make([]types.Datum, len(cursors))
	var size int64
	for i, cur := range cursors {
		if i == e.keyColIdx {
			row[i] = key
		} else {
			row[i] = cur.Datum().Clone()
		}
		size += row[i].Size()
	}
	return &candidate{key: key, row: row, size: size}
}

// checkMemoryCeiling fails the run when the materialized rows plus the
// flat per-row overhead no longer fit the quota.
func (e *TopNExec) checkMemoryCeiling(ctx context.Context) error {
	estimate := e.memTracker.BytesConsumed() + int64(e.n)*candidateOverhead
	if _, _err_ := failpoint.Eval(_curpkg_("topNQuotaExceeded")); _err_ == nil {
		estimate = e.quota + 1
	}
	if estimate > e.quota {
		logutil.Logger(ctx).Warn("top-n memory quota exceeded",
			zap.Stringer("executor", e.id),
			zap.Int64("estimate", estimate),
			zap.String("quota", memory.FormatBytes(e.quota)),
			zap.Int("retained", e.candidates.Len()),
			zap.Stringer("tracker", stringutil.MemoizeStr(e.memTracker.String)))
		topNQuotaExceeded.Inc()
		return errors.Annotatef(ErrMemoryQuotaExceeded, "estimate %s over quota %s",
			memory.FormatBytes(estimate), memory.FormatBytes(e.quota))
	}
	return nil
}

// beginDrain pops the retained rows into worst-to-best order and flips
// the executor to the draining phase.
func (e *TopNExec) beginDrain() {
	start := time.Now()
	e.sorted = make([]*candidate, 0, e.candidates.Len())
	for e.candidates.Len() > 0 {
		e.sorted = append(e.sorted, heap.Pop(e.candidates).(*candidate))
	}
	e.emitIdx = len(e.sorted) - 1
	e.phase = phaseDraining
	topNDrainDuration.Observe(time.Since(start).Seconds())
}

// emit fills req with output rows, best first, until the chunk is full
// or the retained rows run out.
func (e *TopNExec) emit(req *chunk.Chunk) {
	emitted := 0
	for !req.IsFull() && e.emitIdx >= 0 {
		cand := e.sorted[e.emitIdx]
		for i, p := range e.projections {
			d := p.Eval(cand.row)
			req.AppendDatum(i, &d)
		}
		e.emitIdx--
		emitted++
	}
	topNRowsEmitted.Add(float64(emitted))
	if e.emitIdx < 0 {
		e.phase = phaseDone
	}
}
