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
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/vexecdb/vexec/types"
)

// newChunk creates a new chunk and initializes columns with element
// length. 0 adds a varlen column, a positive len adds a fixed length
// column.
func newChunk(elemLen ...int) *Chunk {
	chk := &Chunk{requiredRows: math.MaxInt}
	for _, l := range elemLen {
		if l > 0 {
			chk.columns = append(chk.columns, newFixedLenColumn(l, 0))
		} else {
			chk.columns = append(chk.columns, newVarLenColumn(0, nil))
		}
	}
	return chk
}

func TestChunk(t *testing.T) {
	numCols := 4
	numRows := 10
	chk := newChunk(8, 8, 0, 0)
	strFmt := "%d.12345"
	for i := 0; i < numRows; i++ {
		chk.AppendNull(0)
		chk.AppendInt64(1, int64(i))
		str := fmt.Sprintf(strFmt, i)
		chk.AppendString(2, str)
		chk.AppendBytes(3, []byte(str))
	}
	require.Equal(t, numCols, chk.NumCols())
	require.Equal(t, numRows, chk.NumRows())
	for i := 0; i < numRows; i++ {
		row := chk.GetRow(i)
		require.Equal(t, int64(0), row.GetInt64(0))
		require.True(t, row.IsNull(0))
		require.Equal(t, int64(i), row.GetInt64(1))
		str := fmt.Sprintf(strFmt, i)
		require.False(t, row.IsNull(2))
		require.Equal(t, str, row.GetString(2))
		require.False(t, row.IsNull(3))
		require.Equal(t, []byte(str), row.GetBytes(3))
	}

	chk2 := newChunk(8, 8, 0, 0)
	for i := 0; i < numRows; i++ {
		row := chk.GetRow(i)
		chk2.AppendRow(row)
	}
	for i := 0; i < numCols; i++ {
		col2, col1 := chk2.columns[i], chk.columns[i]
		col2.elemBuf, col1.elemBuf = nil, nil
		require.Equal(t, col1, col2)
	}

	// AppendPartialRow can fill a different column prefix, useful when a
	// wide row is assembled from two sources.
	chk = newChunk(8, 8)
	chk2 = newChunk(8)
	chk2.AppendInt64(0, 1)
	chk2.AppendInt64(0, -1)
	chk.AppendPartialRow(0, chk2.GetRow(0))
	chk.AppendPartialRow(1, chk2.GetRow(0))
	require.Equal(t, int64(1), chk.GetRow(0).GetInt64(0))
	require.Equal(t, int64(1), chk.GetRow(0).GetInt64(1))
	require.Equal(t, 1, chk.NumRows())

	// Test Reset.
	chk = newChunk(0)
	chk.AppendString(0, "abcd")
	chk.Reset()
	chk.AppendString(0, "def")
	require.Equal(t, "def", chk.GetRow(0).GetString(0))

	// Test float32.
	chk = newChunk(4)
	chk.AppendFloat32(0, 1)
	chk.AppendFloat32(0, 1)
	chk.AppendFloat32(0, 1)
	require.Equal(t, float32(1), chk.GetRow(2).GetFloat32(0))
}

func TestAppend(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindFloat32),
		types.NewFieldType(types.KindString),
	}

	src := NewChunkWithCapacity(fieldTypes, 32)
	dst := NewChunkWithCapacity(fieldTypes, 32)

	src.AppendFloat32(0, 12.8)
	src.AppendString(1, "abc")
	src.AppendNull(0)
	src.AppendNull(1)

	dst.Append(src, 0, 2)
	dst.Append(src, 0, 2)
	dst.Append(src, 0, 2)
	dst.Append(src, 0, 2)
	dst.Append(dst, 2, 6)

	require.Len(t, dst.columns, 2)

	require.Equal(t, 12, dst.columns[0].length)
	require.Equal(t, 6, dst.columns[0].nullCount)
	require.Equal(t, []byte{0x55, 0x05}, dst.columns[0].nullBitmap)
	require.Len(t, dst.columns[0].offsets, 0)
	require.Len(t, dst.columns[0].data, 4*12)
	require.Len(t, dst.columns[0].elemBuf, 4)

	require.Equal(t, 12, dst.columns[1].length)
	require.Equal(t, 6, dst.columns[1].nullCount)
	require.Equal(t, []byte{0x55, 0x05}, dst.columns[1].nullBitmap)
	require.Equal(t, []int64{0, 3, 3, 6, 6, 9, 9, 12, 12, 15, 15, 18, 18}, dst.columns[1].offsets)
	require.Equal(t, "abcabcabcabcabcabc", string(dst.columns[1].data))
	require.Nil(t, dst.columns[1].elemBuf)

	require.Equal(t, 12, dst.NumRows())
}

func TestTruncateTo(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindFloat32),
		types.NewFieldType(types.KindString),
	}

	src := NewChunkWithCapacity(fieldTypes, 32)
	for i := 0; i < 8; i++ {
		src.AppendFloat32(0, 12.8)
		src.AppendString(1, "abc")
		src.AppendNull(0)
		src.AppendNull(1)
	}

	src.TruncateTo(12)
	require.Len(t, src.columns, 2)

	require.Equal(t, 12, src.columns[0].length)
	require.Equal(t, 6, src.columns[0].nullCount)
	require.Equal(t, []byte{0x55, 0x05}, src.columns[0].nullBitmap)
	require.Len(t, src.columns[0].offsets, 0)
	require.Len(t, src.columns[0].data, 4*12)
	require.Len(t, src.columns[0].elemBuf, 4)

	require.Equal(t, 12, src.columns[1].length)
	require.Equal(t, 6, src.columns[1].nullCount)
	require.Equal(t, []byte{0x55, 0x05}, src.columns[1].nullBitmap)
	require.Equal(t, []int64{0, 3, 3, 6, 6, 9, 9, 12, 12, 15, 15, 18, 18}, src.columns[1].offsets)
	require.Equal(t, "abcabcabcabcabcabc", string(src.columns[1].data))
	require.Nil(t, src.columns[1].elemBuf)

	require.Equal(t, 12, src.NumRows())

	// Appending after a truncation must keep the null bitmap intact.
	src.AppendFloat32(0, 12.8)
	src.AppendString(1, "abc")
	require.Equal(t, []byte{0x55, 0x15}, src.columns[0].nullBitmap)
	row := src.GetRow(12)
	require.False(t, row.IsNull(0))
	require.Equal(t, float32(12.8), row.GetFloat32(0))
	require.Equal(t, "abc", row.GetString(1))
}

func TestSwapColumns(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindInt64),
		types.NewFieldType(types.KindString),
	}
	chk1 := NewChunkWithCapacity(fieldTypes, 4)
	chk1.AppendInt64(0, 7)
	chk1.AppendString(1, "seven")
	chk2 := NewChunkWithCapacity(fieldTypes, 4)

	chk1.SwapColumns(chk2)
	require.Equal(t, 0, chk1.NumRows())
	require.Equal(t, 1, chk2.NumRows())
	require.Equal(t, int64(7), chk2.GetRow(0).GetInt64(0))
	require.Equal(t, "seven", chk2.GetRow(0).GetString(1))

	chk1.AppendInt64(0, 8)
	chk1.AppendString(1, "eight")
	chk1.SwapColumns(chk2)
	require.Equal(t, int64(7), chk1.GetRow(0).GetInt64(0))
	require.Equal(t, int64(8), chk2.GetRow(0).GetInt64(0))
}

func TestCopyConstruct(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindInt64),
		types.NewFieldType(types.KindString),
	}
	src := NewChunkWithCapacity(fieldTypes, 4)
	src.AppendInt64(0, 1)
	src.AppendString(1, "one")
	src.AppendNull(0)
	src.AppendString(1, "two")

	dst := src.CopyConstruct()
	require.Equal(t, src.NumRows(), dst.NumRows())
	require.Equal(t, int64(1), dst.GetRow(0).GetInt64(0))
	require.Equal(t, "one", dst.GetRow(0).GetString(1))
	require.True(t, dst.GetRow(1).IsNull(0))
	require.Equal(t, "two", dst.GetRow(1).GetString(1))

	// The copy owns its storage.
	dst.AppendInt64(0, 3)
	dst.AppendString(1, "three")
	require.Equal(t, 2, src.NumRows())
	require.Equal(t, 3, dst.NumRows())
}

func TestRequiredRows(t *testing.T) {
	fieldTypes := []*types.FieldType{types.NewFieldType(types.KindInt64)}
	maxChunkSize := 1024
	chk := New(fieldTypes, 32, maxChunkSize)
	require.Equal(t, maxChunkSize, chk.RequiredRows())

	for _, required := range []int{1, 17, 1023, 1024} {
		chk.SetRequiredRows(required, maxChunkSize)
		require.Equal(t, required, chk.RequiredRows())
	}
	for _, required := range []int{0, -1, 1025, math.MaxInt} {
		chk.SetRequiredRows(required, maxChunkSize)
		require.Equal(t, maxChunkSize, chk.RequiredRows())
	}

	chk.SetRequiredRows(3, maxChunkSize)
	require.False(t, chk.IsFull())
	chk.AppendInt64(0, 1)
	chk.AppendInt64(0, 2)
	require.False(t, chk.IsFull())
	chk.AppendInt64(0, 3)
	require.True(t, chk.IsFull())
	chk.AppendInt64(0, 4)
	require.True(t, chk.IsFull())

	chk.Reset()
	chk.SetRequiredRows(maxChunkSize, maxChunkSize)
	require.False(t, chk.IsFull())
}

func TestRenew(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindInt64),
		types.NewFieldType(types.KindString),
	}
	maxChunkSize := 16
	chk := New(fieldTypes, 4, maxChunkSize)
	for i := 0; i < 4; i++ {
		chk.AppendInt64(0, int64(i))
		chk.AppendString(1, "filled")
	}

	// A chunk filled to capacity doubles on renewal, up to maxChunkSize.
	newChk := Renew(chk, maxChunkSize)
	require.Equal(t, 8, newChk.Capacity())
	require.Equal(t, 0, newChk.NumRows())
	require.Equal(t, 2, newChk.NumCols())
	require.True(t, newChk.columns[0].isFixed())
	require.False(t, newChk.columns[1].isFixed())

	// A chunk with spare capacity keeps it.
	chk = New(fieldTypes, 8, maxChunkSize)
	chk.AppendInt64(0, 1)
	chk.AppendString(1, "one")
	require.Equal(t, 8, Renew(chk, maxChunkSize).Capacity())
}

func TestChunkMemoryUsage(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindFloat32),
		types.NewFieldType(types.KindString),
	}

	initCap := 10
	chk := NewChunkWithCapacity(fieldTypes, initCap)

	colStructSize := int64(unsafe.Sizeof(column{}))
	// Fixed column: nullBitmap + data + elemBuf.
	expected := colStructSize + int64(initCap>>3) + int64(initCap*4) + 4
	// Varlen column: nullBitmap + offsets + data.
	expected += colStructSize + int64(initCap>>3) + int64((initCap+1)*8) + int64(initCap*8)
	require.Equal(t, expected, chk.MemoryUsage())

	// Appending within capacity does not change the usage.
	chk.AppendFloat32(0, 12.4)
	chk.AppendString(1, "123")
	require.Equal(t, expected, chk.MemoryUsage())
}

func TestAppendDatum(t *testing.T) {
	fieldTypes := []*types.FieldType{
		types.NewFieldType(types.KindInt64),
		types.NewFieldType(types.KindUint64),
		types.NewFieldType(types.KindFloat32),
		types.NewFieldType(types.KindFloat64),
		types.NewFieldType(types.KindString),
		types.NewFieldType(types.KindBytes),
	}
	datums := []types.Datum{
		types.NewIntDatum(-1),
		types.NewUintDatum(1),
		types.NewFloat32Datum(1.5),
		types.NewFloat64Datum(-1.5),
		types.NewStringDatum("abc"),
		types.NewBytesDatum([]byte("def")),
	}

	chk := NewChunkWithCapacity(fieldTypes, 4)
	for i := range datums {
		chk.AppendDatum(i, &datums[i])
	}
	for i := range fieldTypes {
		chk.AppendNull(i)
	}

	row := chk.GetRow(0)
	for i, ft := range fieldTypes {
		got := row.GetDatum(i, ft)
		require.Equal(t, datums[i].Kind(), got.Kind())
		require.Equal(t, datums[i].String(), got.String())
	}
	nullRow := chk.GetRow(1)
	for i := range fieldTypes {
		require.True(t, nullRow.IsNull(i))
	}
}

func BenchmarkAppendInt(b *testing.B) {
	b.ReportAllocs()
	chk := newChunk(8)
	for i := 0; i < b.N; i++ {
		appendInt(chk)
	}
}

func appendInt(chk *Chunk) {
	chk.Reset()
	for i := 0; i < 1000; i++ {
		chk.AppendInt64(0, int64(i))
	}
}

func BenchmarkAppendString(b *testing.B) {
	b.ReportAllocs()
	chk := newChunk(0)
	for i := 0; i < b.N; i++ {
		appendString(chk)
	}
}

func appendString(chk *Chunk) {
	chk.Reset()
	for i := 0; i < 1000; i++ {
		chk.AppendString(0, "abcd")
	}
}

func BenchmarkAppendRow(b *testing.B) {
	b.ReportAllocs()
	rowChk := newChunk(8, 8, 0, 0)
	rowChk.AppendNull(0)
	rowChk.AppendInt64(1, 1)
	rowChk.AppendString(2, "abcd")
	rowChk.AppendBytes(3, []byte("abcd"))

	chk := newChunk(8, 8, 0, 0)
	for i := 0; i < b.N; i++ {
		appendRow(chk, rowChk.GetRow(0))
	}
}

func appendRow(chk *Chunk, row Row) {
	chk.Reset()
	for i := 0; i < 1000; i++ {
		chk.AppendRow(row)
	}
}

func BenchmarkAccess(b *testing.B) {
	b.StopTimer()
	rowChk := newChunk(8)
	for i := 0; i < 8192; i++ {
		rowChk.AppendInt64(0, math.MaxUint16)
	}
	b.StartTimer()
	var sum int64
	for i := 0; i < b.N; i++ {
		for j := 0; j < 8192; j++ {
			sum += rowChk.GetRow(j).GetInt64(0)
		}
	}
	accessResult = sum
}

// accessResult keeps BenchmarkAccess from being optimized away.
var accessResult int64
