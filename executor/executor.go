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
	"fmt"
	"time"

	"github.com/pingcap/errors"

	"github.com/vexecdb/vexec/types"
	"github.com/vexecdb/vexec/util/chunk"
)

// Executor is the physical implementation of an operator.
//
// Life cycle of an executor: Open prepares it and its children, Next
// is called repeatedly to pull result chunks until an empty chunk
// comes back, Close releases all resources. Executors are not safe for
// concurrent use; one goroutine drives a pipeline at a time.
type Executor interface {
	base() *baseExecutor
	Open(ctx context.Context) error
	Next(ctx context.Context, req *chunk.Chunk) error
	Close() error
	Schema() []*types.FieldType
}

type baseExecutor struct {
	id            fmt.Stringer
	initCap       int
	maxChunkSize  int
	children      []Executor
	retFieldTypes []*types.FieldType
	runtimeStats  *RuntimeStats
}

func newBaseExecutor(id fmt.Stringer, schema []*types.FieldType, initCap, maxChunkSize int, children ...Executor) baseExecutor {
	return baseExecutor{
		id:            id,
		initCap:       initCap,
		maxChunkSize:  maxChunkSize,
		children:      children,
		retFieldTypes: schema,
		runtimeStats:  &RuntimeStats{},
	}
}

// base returns the baseExecutor of an executor, don't override this method!
func (e *baseExecutor) base() *baseExecutor {
	return e
}

// Open initializes children recursively.
func (e *baseExecutor) Open(ctx context.Context) error {
	for _, child := range e.children {
		if err := child.Open(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Close closes all executors and releases all resources.
func (e *baseExecutor) Close() error {
	var firstErr error
	for _, src := range e.children {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return errors.Trace(firstErr)
}

// Schema returns the field types of the rows this executor produces.
func (e *baseExecutor) Schema() []*types.FieldType {
	return e.retFieldTypes
}

// RuntimeStats returns the execution counters of this executor.
func (e *baseExecutor) RuntimeStats() *RuntimeStats {
	return e.runtimeStats
}

// Next is a wrapper function on e.Next(), it handles some common codes:
// it records the runtime stats of every pull and stops the pipeline
// once the context is canceled.
func Next(ctx context.Context, e Executor, req *chunk.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	base := e.base()
	if base.runtimeStats != nil {
		start := time.Now()
		defer func() { base.runtimeStats.Record(time.Since(start), req.NumRows()) }()
	}
	return e.Next(ctx, req)
}

// NewFirstChunk creates a new chunk to buffer an executor's result.
func NewFirstChunk(e Executor) *chunk.Chunk {
	base := e.base()
	return chunk.New(base.retFieldTypes, base.initCap, base.maxChunkSize)
}

// RetTypes returns all output column types of an executor.
func RetTypes(e Executor) []*types.FieldType {
	return e.base().retFieldTypes
}
