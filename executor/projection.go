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
	"github.com/vexecdb/vexec/types"
)

// Projection computes one output cell from a full input row. The
// result may alias the input datums; emission copies it into the
// output chunk right away.
type Projection interface {
	// FieldType returns the type of the produced cell.
	FieldType() *types.FieldType
	// Eval computes the cell for the given input row.
	Eval(row []types.Datum) types.Datum
}

var (
	_ Projection = &ColumnProjection{}
	_ Projection = &ProjectionFunc{}
)

// ColumnProjection passes through the input column at Offset.
type ColumnProjection struct {
	Offset int
	Type   *types.FieldType
}

// NewColumnProjection builds a passthrough projection of one input
// column.
func NewColumnProjection(offset int, tp *types.FieldType) *ColumnProjection {
	return &ColumnProjection{Offset: offset, Type: tp}
}

// FieldType implements the Projection interface.
func (c *ColumnProjection) FieldType() *types.FieldType {
	return c.Type
}

// Eval implements the Projection interface.
func (c *ColumnProjection) Eval(row []types.Datum) types.Datum {
	return row[c.Offset]
}

// ProjectionFunc computes a derived cell with Fn.
type ProjectionFunc struct {
	Type *types.FieldType
	Fn   func(row []types.Datum) types.Datum
}

// FieldType implements the Projection interface.
func (p *ProjectionFunc) FieldType() *types.FieldType {
	return p.Type
}

// Eval implements the Projection interface.
func (p *ProjectionFunc) Eval(row []types.Datum) types.Datum {
	return p.Fn(row)
}

// ColumnsProjection builds passthrough projections for all fields, in
// order.
func ColumnsProjection(fields []*types.FieldType) []Projection {
	projs := make([]Projection, 0, len(fields))
	for i, ft := range fields {
		projs = append(projs, NewColumnProjection(i, ft))
	}
	return projs
}
