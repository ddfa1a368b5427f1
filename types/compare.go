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
	"bytes"
	"cmp"
)

// Comparator is a total order over key datums. It returns a value
// less than, equal to, or greater than zero when a orders before,
// the same as, or after b. Callers hand comparators to operators
// already normalized: a greater result always means "more preferred",
// whatever the requested direction is.
type Comparator func(a, b Datum) int

// KeyComparator builds a normalized Comparator for keys of the given
// field type. NULL orders below every non-NULL value. With desc set,
// the natural order is flipped, so smaller values compare greater.
//
// Both operands must be NULL or of the field type's kind. Mixing kinds
// is a caller bug and yields an unspecified order.
func KeyComparator(ft *FieldType, desc bool) Comparator {
	c := kindComparator(ft.Kind)
	if !desc {
		return c
	}
	return func(a, b Datum) int {
		return -c(a, b)
	}
}

func kindComparator(kind Kind) Comparator {
	switch kind {
	case KindInt64:
		return func(a, b Datum) int {
			return compareWithNull(&a, &b, func() int { return cmp.Compare(a.GetInt64(), b.GetInt64()) })
		}
	case KindUint64:
		return func(a, b Datum) int {
			return compareWithNull(&a, &b, func() int { return cmp.Compare(a.GetUint64(), b.GetUint64()) })
		}
	case KindFloat32:
		return func(a, b Datum) int {
			return compareWithNull(&a, &b, func() int { return cmp.Compare(a.GetFloat32(), b.GetFloat32()) })
		}
	case KindFloat64:
		return func(a, b Datum) int {
			return compareWithNull(&a, &b, func() int { return cmp.Compare(a.GetFloat64(), b.GetFloat64()) })
		}
	case KindString, KindBytes:
		return func(a, b Datum) int {
			return compareWithNull(&a, &b, func() int { return bytes.Compare(a.GetBytes(), b.GetBytes()) })
		}
	default:
		// KindNull columns have no order beyond the NULL rule.
		return func(a, b Datum) int {
			return compareWithNull(&a, &b, func() int { return 0 })
		}
	}
}

// compareWithNull applies the NULL-low rule, falling back to cmpFn for
// two non-NULL operands.
func compareWithNull(a, b *Datum, cmpFn func() int) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	default:
		return cmpFn()
	}
}
