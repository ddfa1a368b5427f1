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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexecdb/vexec/types"
)

func TestColumnProjection(t *testing.T) {
	ft := types.NewFieldType(types.KindString)
	proj := NewColumnProjection(1, ft)
	require.Equal(t, ft, proj.FieldType())

	row := []types.Datum{types.NewIntDatum(7), types.NewStringDatum("seven")}
	require.Equal(t, "seven", proj.Eval(row).GetString())
}

func TestProjectionFunc(t *testing.T) {
	proj := &ProjectionFunc{
		Type: types.NewFieldType(types.KindInt64),
		Fn: func(row []types.Datum) types.Datum {
			return types.NewIntDatum(row[0].GetInt64() + row[1].GetInt64())
		},
	}
	require.Equal(t, types.KindInt64, proj.FieldType().Kind)

	row := []types.Datum{types.NewIntDatum(3), types.NewIntDatum(4)}
	require.Equal(t, int64(7), proj.Eval(row).GetInt64())
}

func TestColumnsProjection(t *testing.T) {
	fields := []*types.FieldType{
		types.NewFieldType(types.KindInt64),
		types.NewFieldType(types.KindString),
	}
	projs := ColumnsProjection(fields)
	require.Len(t, projs, 2)

	row := []types.Datum{types.NewIntDatum(1), types.NewStringDatum("one")}
	for i, proj := range projs {
		require.Equal(t, fields[i], proj.FieldType())
		require.Equal(t, row[i], proj.Eval(row))
	}
}
