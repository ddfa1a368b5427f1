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
	"unsafe"

	"github.com/vexecdb/vexec/types"
)

const varElemLen = -1

// getFixedLen returns the byte width of a cell of the given field type,
// or varElemLen for variable length types.
func getFixedLen(ft *types.FieldType) int {
	switch ft.Kind {
	case types.KindFloat32:
		return 4
	case types.KindInt64, types.KindUint64, types.KindFloat64:
		return 8
	default:
		return varElemLen
	}
}

// column stores one column of data in Apache Arrow format.
// The underlying buffers are exposed to rows and cursors of the owning
// chunk, so they must not be reallocated while such references live.
type column struct {
	length     int
	nullCount  int
	nullBitmap []byte
	offsets    []int64
	data       []byte
	elemBuf    []byte
}

func newFixedLenColumn(elemLen, capacity int) *column {
	return &column{
		elemBuf:    make([]byte, elemLen),
		data:       make([]byte, 0, capacity*elemLen),
		nullBitmap: make([]byte, 0, capacity>>3),
	}
}

func newVarLenColumn(capacity int, old *column) *column {
	estimatedElemLen := 8
	// Use the average size of the old column to estimate the new data size.
	if old != nil && old.length != 0 {
		estimatedElemLen = (len(old.data) + len(old.data)/8) / old.length
	}
	return &column{
		offsets:    make([]int64, 1, capacity+1),
		data:       make([]byte, 0, capacity*estimatedElemLen),
		nullBitmap: make([]byte, 0, capacity>>3),
	}
}

func (c *column) isFixed() bool { return c.elemBuf != nil }

func (c *column) fixedLen() int { return len(c.elemBuf) }

// copyConstruct copies the column into a new column that shares no
// storage with it.
func (c *column) copyConstruct() *column {
	newCol := &column{length: c.length, nullCount: c.nullCount}
	newCol.nullBitmap = append(newCol.nullBitmap, c.nullBitmap...)
	newCol.offsets = append(newCol.offsets, c.offsets...)
	newCol.data = append(newCol.data, c.data...)
	newCol.elemBuf = append(newCol.elemBuf, c.elemBuf...)
	return newCol
}

func (c *column) reset() {
	c.length = 0
	c.nullCount = 0
	c.nullBitmap = c.nullBitmap[:0]
	if len(c.offsets) > 0 {
		// The first offset is always 0, it makes slicing the data easier.
		c.offsets = c.offsets[:1]
	}
	c.data = c.data[:0]
}

func (c *column) isNull(rowIdx int) bool {
	nullByte := c.nullBitmap[rowIdx/8]
	return nullByte&(1<<(uint(rowIdx)&7)) == 0
}

func (c *column) appendNullBitmap(notNull bool) {
	idx := c.length >> 3
	if idx >= len(c.nullBitmap) {
		c.nullBitmap = append(c.nullBitmap, 0)
	}
	if notNull {
		pos := uint(c.length) & 7
		c.nullBitmap[idx] |= byte(1 << pos)
	} else {
		c.nullCount++
	}
}

func (c *column) appendNull() {
	c.appendNullBitmap(false)
	if c.isFixed() {
		c.data = append(c.data, c.elemBuf...)
	} else {
		c.offsets = append(c.offsets, c.offsets[c.length])
	}
	c.length++
}

func (c *column) finishAppendFixed() {
	c.data = append(c.data, c.elemBuf...)
	c.appendNullBitmap(true)
	c.length++
}

func (c *column) appendInt64(i int64) {
	*(*int64)(unsafe.Pointer(&c.elemBuf[0])) = i
	c.finishAppendFixed()
}

func (c *column) appendUint64(u uint64) {
	*(*uint64)(unsafe.Pointer(&c.elemBuf[0])) = u
	c.finishAppendFixed()
}

func (c *column) appendFloat32(f float32) {
	*(*float32)(unsafe.Pointer(&c.elemBuf[0])) = f
	c.finishAppendFixed()
}

func (c *column) appendFloat64(f float64) {
	*(*float64)(unsafe.Pointer(&c.elemBuf[0])) = f
	c.finishAppendFixed()
}

func (c *column) finishAppendVar() {
	c.appendNullBitmap(true)
	c.offsets = append(c.offsets, int64(len(c.data)))
	c.length++
}

func (c *column) appendString(str string) {
	c.data = append(c.data, str...)
	c.finishAppendVar()
}

func (c *column) appendBytes(b []byte) {
	c.data = append(c.data, b...)
	c.finishAppendVar()
}

func (c *column) getInt64(rowIdx int) int64 {
	return *(*int64)(unsafe.Pointer(&c.data[rowIdx*8]))
}

func (c *column) getUint64(rowIdx int) uint64 {
	return *(*uint64)(unsafe.Pointer(&c.data[rowIdx*8]))
}

func (c *column) getFloat32(rowIdx int) float32 {
	return *(*float32)(unsafe.Pointer(&c.data[rowIdx*4]))
}

func (c *column) getFloat64(rowIdx int) float64 {
	return *(*float64)(unsafe.Pointer(&c.data[rowIdx*8]))
}

// getRaw returns the raw bytes of a variable length cell. The returned
// slice aliases the column storage.
func (c *column) getRaw(rowIdx int) []byte {
	return c.data[c.offsets[rowIdx]:c.offsets[rowIdx+1]]
}

// cellSize returns the storage width of the cell in bytes. Fixed length
// cells occupy their element width even when NULL.
func (c *column) cellSize(rowIdx int) int64 {
	if c.isFixed() {
		return int64(len(c.elemBuf))
	}
	return c.offsets[rowIdx+1] - c.offsets[rowIdx]
}

// getDatum reads a cell into a Datum. Variable length values alias the
// column storage; callers that keep the result past the life of the
// chunk must Clone it.
func (c *column) getDatum(rowIdx int, ft *types.FieldType) types.Datum {
	var d types.Datum
	if c.isNull(rowIdx) {
		return d
	}
	switch ft.Kind {
	case types.KindInt64:
		d.SetInt64(c.getInt64(rowIdx))
	case types.KindUint64:
		d.SetUint64(c.getUint64(rowIdx))
	case types.KindFloat32:
		d.SetFloat32(c.getFloat32(rowIdx))
	case types.KindFloat64:
		d.SetFloat64(c.getFloat64(rowIdx))
	case types.KindString:
		d.SetBytesAsString(c.getRaw(rowIdx))
	case types.KindBytes:
		d.SetBytes(c.getRaw(rowIdx))
	}
	return d
}

// appendDatum writes a datum as the next cell.
func (c *column) appendDatum(d *types.Datum) {
	switch d.Kind() {
	case types.KindNull:
		c.appendNull()
	case types.KindInt64:
		c.appendInt64(d.GetInt64())
	case types.KindUint64:
		c.appendUint64(d.GetUint64())
	case types.KindFloat32:
		c.appendFloat32(d.GetFloat32())
	case types.KindFloat64:
		c.appendFloat64(d.GetFloat64())
	case types.KindString:
		c.appendString(d.GetString())
	case types.KindBytes:
		c.appendBytes(d.GetBytes())
	}
}

// memoryUsage returns the size of the column buffers plus the struct
// itself.
func (c *column) memoryUsage() int64 {
	return int64(unsafe.Sizeof(*c)) + int64(cap(c.nullBitmap)) +
		int64(cap(c.offsets))*int64(unsafe.Sizeof(int64(0))) +
		int64(cap(c.data)) + int64(cap(c.elemBuf))
}
