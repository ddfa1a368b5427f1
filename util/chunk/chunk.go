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

// Chunk stores multiple rows of data in columnar format.
// A Chunk is not thread-safe: values are appended by one writer, read
// through Row or Cursor views that alias the chunk storage, and the
// whole chunk is recycled with Reset.
type Chunk struct {
	columns []*column
	// numVirtualRows indicates the number of virtual rows, which have
	// zero columns. It is used only when this Chunk holds no data.
	numVirtualRows int
	// capacity indicates the max number of rows this chunk can hold.
	capacity int
	// requiredRows indicates how many rows the parent wants.
	requiredRows int
}

// New creates a new chunk.
//
//	fields: the types of the column cells.
//	capacity: the initial capacity in rows.
//	maxChunkSize: the limit for the max number of rows.
func New(fields []*types.FieldType, capacity, maxChunkSize int) *Chunk {
	chk := &Chunk{
		columns:  make([]*column, 0, len(fields)),
		capacity: min(capacity, maxChunkSize),
	}
	for _, f := range fields {
		if elemLen := getFixedLen(f); elemLen == varElemLen {
			chk.columns = append(chk.columns, newVarLenColumn(chk.capacity, nil))
		} else {
			chk.columns = append(chk.columns, newFixedLenColumn(elemLen, chk.capacity))
		}
	}
	chk.requiredRows = maxChunkSize
	return chk
}

// NewChunkWithCapacity creates a new chunk with field types and capacity.
func NewChunkWithCapacity(fields []*types.FieldType, capacity int) *Chunk {
	return New(fields, capacity, capacity)
}

// Renew creates a new Chunk based on an existing Chunk. The new Chunk
// has the same schema; its capacity is doubled up to maxChunkSize when
// the old chunk was filled to capacity.
func Renew(chk *Chunk, maxChunkSize int) *Chunk {
	newChk := &Chunk{
		columns:        renewColumns(chk.columns, reCalcCapacity(chk, maxChunkSize)),
		numVirtualRows: 0,
		capacity:       reCalcCapacity(chk, maxChunkSize),
		requiredRows:   maxChunkSize,
	}
	return newChk
}

// renewColumns creates new columns with the same schema as the old ones.
func renewColumns(oldCol []*column, capacity int) []*column {
	columns := make([]*column, 0, len(oldCol))
	for _, col := range oldCol {
		if col.isFixed() {
			columns = append(columns, newFixedLenColumn(col.fixedLen(), capacity))
		} else {
			columns = append(columns, newVarLenColumn(capacity, col))
		}
	}
	return columns
}

func reCalcCapacity(c *Chunk, maxChunkSize int) int {
	if c.NumRows() < c.capacity {
		return c.capacity
	}
	return min(c.capacity*2, maxChunkSize)
}

// CopyConstruct creates a new chunk and copies this chunk's data into
// it. The copy shares no storage with the original.
func (c *Chunk) CopyConstruct() *Chunk {
	newChk := &Chunk{
		columns:        make([]*column, len(c.columns)),
		numVirtualRows: c.numVirtualRows,
		capacity:       c.capacity,
		requiredRows:   c.requiredRows,
	}
	for i := range c.columns {
		newChk.columns[i] = c.columns[i].copyConstruct()
	}
	return newChk
}

// Capacity returns the max number of rows this chunk can hold before
// reallocation.
func (c *Chunk) Capacity() int {
	return c.capacity
}

// MemoryUsage returns the total memory usage of the chunk in bytes.
func (c *Chunk) MemoryUsage() (sum int64) {
	for _, col := range c.columns {
		sum += col.memoryUsage()
	}
	return
}

// RequiredRows returns how many rows the parent operator wants.
func (c *Chunk) RequiredRows() int {
	return c.requiredRows
}

// SetRequiredRows sets the number of rows the parent operator wants.
// A value outside (0, maxChunkSize] means maxChunkSize.
func (c *Chunk) SetRequiredRows(requiredRows, maxChunkSize int) *Chunk {
	if requiredRows <= 0 || requiredRows > maxChunkSize {
		requiredRows = maxChunkSize
	}
	c.requiredRows = requiredRows
	return c
}

// IsFull reports whether this chunk is considered full.
func (c *Chunk) IsFull() bool {
	return c.NumRows() >= c.requiredRows
}

// NumCols returns the number of columns in the chunk.
func (c *Chunk) NumCols() int {
	return len(c.columns)
}

// NumRows returns the number of rows in the chunk.
func (c *Chunk) NumRows() int {
	if c.NumCols() == 0 {
		return c.numVirtualRows
	}
	return c.columns[0].length
}

// GetRow gets the Row in the chunk with the row index.
func (c *Chunk) GetRow(idx int) Row {
	return Row{c: c, idx: idx}
}

// Reset resets the chunk, so the memory it allocated can be reused.
// Make sure all the data in the chunk is not used anymore before you
// reuse this chunk.
func (c *Chunk) Reset() {
	for _, col := range c.columns {
		col.reset()
	}
	c.numVirtualRows = 0
}

// AppendRow appends a row to the chunk.
func (c *Chunk) AppendRow(row Row) {
	c.AppendPartialRow(0, row)
	c.numVirtualRows++
}

// AppendPartialRow appends a row to the chunk starting from colIdx.
func (c *Chunk) AppendPartialRow(colIdx int, row Row) {
	for i, rowCol := range row.c.columns {
		chkCol := c.columns[colIdx+i]
		chkCol.appendNullBitmap(!rowCol.isNull(row.idx))
		if rowCol.isFixed() {
			elemLen := rowCol.fixedLen()
			offset := row.idx * elemLen
			chkCol.data = append(chkCol.data, rowCol.data[offset:offset+elemLen]...)
		} else {
			start, end := rowCol.offsets[row.idx], rowCol.offsets[row.idx+1]
			chkCol.data = append(chkCol.data, rowCol.data[start:end]...)
			chkCol.offsets = append(chkCol.offsets, int64(len(chkCol.data)))
		}
		chkCol.length++
	}
}

// Append appends rows in [begin, end) in another Chunk to a Chunk.
func (c *Chunk) Append(other *Chunk, begin, end int) {
	for colID, src := range other.columns {
		dst := c.columns[colID]
		if src.isFixed() {
			elemLen := src.fixedLen()
			dst.data = append(dst.data, src.data[begin*elemLen:end*elemLen]...)
		} else {
			beginOffset, endOffset := src.offsets[begin], src.offsets[end]
			dst.data = append(dst.data, src.data[beginOffset:endOffset]...)
			lastOffset := dst.offsets[len(dst.offsets)-1]
			for i := begin; i < end; i++ {
				lastOffset += src.offsets[i+1] - src.offsets[i]
				dst.offsets = append(dst.offsets, lastOffset)
			}
		}
		for i := begin; i < end; i++ {
			dst.appendNullBitmap(!src.isNull(i))
			dst.length++
		}
	}
	c.numVirtualRows = c.columns[0].length
}

// TruncateTo truncates rows from tail to head in a Chunk to "numRows"
// rows.
func (c *Chunk) TruncateTo(numRows int) {
	for _, col := range c.columns {
		if col.isFixed() {
			elemLen := col.fixedLen()
			col.data = col.data[:numRows*elemLen]
		} else {
			col.data = col.data[:col.offsets[numRows]]
			col.offsets = col.offsets[:numRows+1]
		}
		for i := numRows; i < col.length; i++ {
			if col.isNull(i) {
				col.nullCount--
			}
		}
		col.length = numRows
		bitmapLen := (col.length + 7) / 8
		col.nullBitmap = col.nullBitmap[:bitmapLen]
		if col.length%8 != 0 {
			// Clear the unused bits in the last bitmap byte, appendNullBitmap
			// relies on them being zero.
			lastByte := col.nullBitmap[bitmapLen-1]
			unusedBitsLen := 8 - uint(col.length)%8
			lastByte <<= unusedBitsLen
			lastByte >>= unusedBitsLen
			col.nullBitmap[bitmapLen-1] = lastByte
		}
	}
	c.numVirtualRows = numRows
}

// SwapColumns swaps columns with another Chunk. Both chunks must share
// the same schema.
func (c *Chunk) SwapColumns(other *Chunk) {
	c.columns, other.columns = other.columns, c.columns
	c.numVirtualRows, other.numVirtualRows = other.numVirtualRows, c.numVirtualRows
}

// AppendNull appends a NULL cell to the column at colIdx.
func (c *Chunk) AppendNull(colIdx int) {
	c.columns[colIdx].appendNull()
}

// AppendInt64 appends an int64 cell to the column at colIdx.
func (c *Chunk) AppendInt64(colIdx int, i int64) {
	c.columns[colIdx].appendInt64(i)
}

// AppendUint64 appends a uint64 cell to the column at colIdx.
func (c *Chunk) AppendUint64(colIdx int, u uint64) {
	c.columns[colIdx].appendUint64(u)
}

// AppendFloat32 appends a float32 cell to the column at colIdx.
func (c *Chunk) AppendFloat32(colIdx int, f float32) {
	c.columns[colIdx].appendFloat32(f)
}

// AppendFloat64 appends a float64 cell to the column at colIdx.
func (c *Chunk) AppendFloat64(colIdx int, f float64) {
	c.columns[colIdx].appendFloat64(f)
}

// AppendString appends a string cell to the column at colIdx.
func (c *Chunk) AppendString(colIdx int, str string) {
	c.columns[colIdx].appendString(str)
}

// AppendBytes appends a bytes cell to the column at colIdx.
func (c *Chunk) AppendBytes(colIdx int, b []byte) {
	c.columns[colIdx].appendBytes(b)
}

// AppendDatum appends a datum cell to the column at colIdx.
func (c *Chunk) AppendDatum(colIdx int, d *types.Datum) {
	c.columns[colIdx].appendDatum(d)
}
