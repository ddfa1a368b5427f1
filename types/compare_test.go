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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyComparatorAscending(t *testing.T) {
	tests := []struct {
		kind Kind
		a, b Datum
		want int
	}{
		{KindInt64, NewIntDatum(1), NewIntDatum(2), -1},
		{KindInt64, NewIntDatum(2), NewIntDatum(2), 0},
		{KindInt64, NewIntDatum(3), NewIntDatum(-3), 1},
		{KindUint64, NewUintDatum(1), NewUintDatum(2), -1},
		{KindFloat32, NewFloat32Datum(1.5), NewFloat32Datum(0.5), 1},
		{KindFloat64, NewFloat64Datum(-1.5), NewFloat64Datum(0), -1},
		{KindString, NewStringDatum("a"), NewStringDatum("b"), -1},
		{KindString, NewStringDatum("b"), NewStringDatum("b"), 0},
		{KindBytes, NewBytesDatum([]byte("bb")), NewBytesDatum([]byte("b")), 1},
	}
	for _, tt := range tests {
		c := KeyComparator(NewFieldType(tt.kind), false)
		require.Equal(t, tt.want, c(tt.a, tt.b), "kind %s: %s vs %s", tt.kind, tt.a.String(), tt.b.String())
	}
}

func TestKeyComparatorDescendingFlips(t *testing.T) {
	asc := KeyComparator(NewFieldType(KindInt64), false)
	desc := KeyComparator(NewFieldType(KindInt64), true)
	a, b := NewIntDatum(1), NewIntDatum(2)
	require.Equal(t, -1, asc(a, b))
	require.Equal(t, 1, desc(a, b))
	require.Equal(t, 0, desc(a, a))
}

func TestKeyComparatorNullLow(t *testing.T) {
	null := Datum{}
	for _, desc := range []bool{false, true} {
		c := KeyComparator(NewFieldType(KindInt64), desc)
		require.Equal(t, 0, c(null, null))
	}
	asc := KeyComparator(NewFieldType(KindString), false)
	require.Equal(t, -1, asc(null, NewStringDatum("")))
	require.Equal(t, 1, asc(NewStringDatum(""), null))
	// Descending flips NULLs too: NULL becomes the most preferred key.
	desc := KeyComparator(NewFieldType(KindString), true)
	require.Equal(t, 1, desc(null, NewStringDatum("zzz")))
}
