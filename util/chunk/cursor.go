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

package chunk

import (
	"github.com/vexecdb/vexec/types"
)

// Cursor walks a single column of a chunk in strictly forward order.
// It starts positioned before the first row; Next or Seek must succeed
// before the first value access. A Cursor is only valid until its
// chunk is modified.
type Cursor struct {
	col *column
	ft  *types.FieldType
	pos int
}

// NewCursor creates a cursor over the column at colIdx.
func NewCursor(chk *Chunk, colIdx int, ft *types.FieldType) *Cursor {
	return &Cursor{
		col: chk.columns[colIdx],
		ft:  ft,
		pos: -1,
	}
}

// Next advances the cursor to the next row and reports whether such a
// row exists. On failure the cursor keeps its position.
func (c *Cursor) Next() bool {
	if c.pos+1 >= c.col.length {
		return false
	}
	c.pos++
	return true
}

// Seek moves the cursor directly to pos. Only forward moves are
// allowed: seeking to the current position is a no-op success, seeking
// backwards or past the last row fails and leaves the cursor where it
// was.
func (c *Cursor) Seek(pos int) bool {
	if pos < c.pos || pos >= c.col.length {
		return false
	}
	c.pos = pos
	return true
}

// Pos returns the current position, or -1 before the first advance.
func (c *Cursor) Pos() int {
	return c.pos
}

// Datum reads the value under the cursor. Variable length values alias
// the chunk storage; Clone them before keeping them past the chunk.
func (c *Cursor) Datum() types.Datum {
	return c.col.getDatum(c.pos, c.ft)
}

// Size returns the storage width in bytes of the cell under the
// cursor. Fixed length cells count their element width even when NULL.
func (c *Cursor) Size() int64 {
	return c.col.cellSize(c.pos)
}

// IsNull reports whether the cell under the cursor is NULL.
func (c *Cursor) IsNull() bool {
	return c.col.isNull(c.pos)
}
