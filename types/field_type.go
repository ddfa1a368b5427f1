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

// Kind is the runtime type of a column cell or a Datum.
type Kind byte

// Supported kinds. The zero value is KindNull so that a zero Datum is a
// well-formed NULL.
const (
	KindNull Kind = iota
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// FieldType describes the type of one channel (column) of a batch.
type FieldType struct {
	Kind Kind
}

// NewFieldType builds a FieldType of the given kind.
func NewFieldType(kind Kind) *FieldType {
	return &FieldType{Kind: kind}
}

// String implements fmt.Stringer.
func (ft *FieldType) String() string {
	return ft.Kind.String()
}
