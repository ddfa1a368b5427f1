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

// Row represents a row of data in a Chunk. It is only valid until the
// next modification of its chunk.
type Row struct {
	c   *Chunk
	idx int
}

// Idx returns the row index of the Chunk.
func (r Row) Idx() int {
	return r.idx
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return r.c.NumCols()
}

// GetInt64 returns the int64 value with the colIdx.
func (r Row) GetInt64(colIdx int) int64 {
	return r.c.columns[colIdx].getInt64(r.idx)
}

// GetUint64 returns the uint64 value with the colIdx.
func (r Row) GetUint64(colIdx int) uint64 {
	return r.c.columns[colIdx].getUint64(r.idx)
}

// GetFloat32 returns the float32 value with the colIdx.
func (r Row) GetFloat32(colIdx int) float32 {
	return r.c.columns[colIdx].getFloat32(r.idx)
}

// GetFloat64 returns the float64 value with the colIdx.
func (r Row) GetFloat64(colIdx int) float64 {
	return r.c.columns[colIdx].getFloat64(r.idx)
}

// GetString returns the string value with the colIdx.
func (r Row) GetString(colIdx int) string {
	return string(r.c.columns[colIdx].getRaw(r.idx))
}

// GetBytes returns the bytes value with the colIdx. The slice aliases
// the chunk storage.
func (r Row) GetBytes(colIdx int) []byte {
	return r.c.columns[colIdx].getRaw(r.idx)
}

// IsNull reports whether the cell at colIdx is NULL.
func (r Row) IsNull(colIdx int) bool {
	return r.c.columns[colIdx].isNull(r.idx)
}

// GetDatum reads the cell at colIdx into a Datum. Variable length
// values alias the chunk storage.
func (r Row) GetDatum(colIdx int, ft *types.FieldType) types.Datum {
	return r.c.columns[colIdx].getDatum(r.idx, ft)
}

// GetDatumRow reads the whole row into a datum slice. Variable length
// values alias the chunk storage.
func (r Row) GetDatumRow(fields []*types.FieldType) []types.Datum {
	datumRow := make([]types.Datum, 0, len(fields))
	for colIdx, ft := range fields {
		datumRow = append(datumRow, r.GetDatum(colIdx, ft))
	}
	return datumRow
}
