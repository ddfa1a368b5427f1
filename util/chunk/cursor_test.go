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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexecdb/vexec/types"
)

func TestCursorNext(t *testing.T) {
	ft := types.NewFieldType(types.KindInt64)
	chk := New([]*types.FieldType{ft}, 32, 1024)
	n := 10
	for i := 0; i < n; i++ {
		chk.AppendInt64(0, int64(i))
	}

	cur := NewCursor(chk, 0, ft)
	require.Equal(t, -1, cur.Pos())
	for i := 0; i < n; i++ {
		require.True(t, cur.Next())
		require.Equal(t, i, cur.Pos())
		require.Equal(t, int64(i), cur.Datum().GetInt64())
	}
	require.False(t, cur.Next())
	require.Equal(t, n-1, cur.Pos())

	cur = NewCursor(New([]*types.FieldType{ft}, 32, 1024), 0, ft)
	require.False(t, cur.Next())
}

func TestCursorSeek(t *testing.T) {
	ft := types.NewFieldType(types.KindInt64)
	chk := New([]*types.FieldType{ft}, 32, 1024)
	for i := 0; i < 10; i++ {
		chk.AppendInt64(0, int64(i))
	}

	cur := NewCursor(chk, 0, ft)
	require.True(t, cur.Seek(0))
	require.Equal(t, int64(0), cur.Datum().GetInt64())

	require.True(t, cur.Seek(3))
	require.Equal(t, int64(3), cur.Datum().GetInt64())

	// Seeking to the current position is a no-op success.
	require.True(t, cur.Seek(3))
	require.Equal(t, 3, cur.Pos())

	// Backward seeks fail and keep the position.
	require.False(t, cur.Seek(2))
	require.Equal(t, 3, cur.Pos())

	require.True(t, cur.Seek(9))
	require.Equal(t, int64(9), cur.Datum().GetInt64())

	// Seeking past the last row fails.
	require.False(t, cur.Seek(10))
	require.Equal(t, 9, cur.Pos())
}

func TestCursorDatum(t *testing.T) {
	fields := []*types.FieldType{
		types.NewFieldType(types.KindInt64),
		types.NewFieldType(types.KindString),
	}
	chk := New(fields, 32, 1024)
	chk.AppendInt64(0, 42)
	chk.AppendString(1, "hello")
	chk.AppendNull(0)
	chk.AppendNull(1)

	intCur := NewCursor(chk, 0, fields[0])
	strCur := NewCursor(chk, 1, fields[1])
	require.True(t, intCur.Next())
	require.True(t, strCur.Next())

	require.False(t, intCur.IsNull())
	require.Equal(t, int64(42), intCur.Datum().GetInt64())
	require.Equal(t, int64(8), intCur.Size())

	require.False(t, strCur.IsNull())
	require.Equal(t, "hello", strCur.Datum().GetString())
	require.Equal(t, int64(5), strCur.Size())

	require.True(t, intCur.Next())
	require.True(t, strCur.Next())

	// Fixed length cells keep their width when NULL, varlen cells
	// shrink to zero.
	require.True(t, intCur.IsNull())
	require.True(t, intCur.Datum().IsNull())
	require.Equal(t, int64(8), intCur.Size())

	require.True(t, strCur.IsNull())
	require.Equal(t, int64(0), strCur.Size())
}
