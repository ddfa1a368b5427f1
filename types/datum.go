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
	"fmt"
	"math"
	"strconv"
)

// Datum is a single typed value. Numeric values live in the word, string
// and bytes values in the byte slice. The zero Datum is NULL.
//
// A Datum read from a chunk may alias the chunk's storage; callers that
// keep a Datum beyond the life of its chunk must Clone it first.
type Datum struct {
	k Kind
	i int64
	b []byte
}

// Kind returns the datum kind.
func (d Datum) Kind() Kind { return d.k }

// IsNull reports whether the datum is NULL.
func (d Datum) IsNull() bool { return d.k == KindNull }

// SetNull resets the datum to NULL.
func (d *Datum) SetNull() {
	d.k = KindNull
	d.i = 0
	d.b = nil
}

// GetInt64 returns the int64 value.
func (d Datum) GetInt64() int64 { return d.i }

// SetInt64 stores an int64 value.
func (d *Datum) SetInt64(v int64) {
	d.k = KindInt64
	d.i = v
	d.b = nil
}

// GetUint64 returns the uint64 value.
func (d Datum) GetUint64() uint64 { return uint64(d.i) }

// SetUint64 stores a uint64 value.
func (d *Datum) SetUint64(v uint64) {
	d.k = KindUint64
	d.i = int64(v)
	d.b = nil
}

// GetFloat32 returns the float32 value.
func (d Datum) GetFloat32() float32 { return math.Float32frombits(uint32(d.i)) }

// SetFloat32 stores a float32 value.
func (d *Datum) SetFloat32(v float32) {
	d.k = KindFloat32
	d.i = int64(math.Float32bits(v))
	d.b = nil
}

// GetFloat64 returns the float64 value.
func (d Datum) GetFloat64() float64 { return math.Float64frombits(uint64(d.i)) }

// SetFloat64 stores a float64 value.
func (d *Datum) SetFloat64(v float64) {
	d.k = KindFloat64
	d.i = int64(math.Float64bits(v))
	d.b = nil
}

// GetString returns the string value.
func (d Datum) GetString() string { return string(d.b) }

// SetString stores a string value.
func (d *Datum) SetString(s string) {
	d.k = KindString
	d.i = 0
	d.b = []byte(s)
}

// SetBytesAsString stores b as a string value without copying it.
func (d *Datum) SetBytesAsString(b []byte) {
	d.k = KindString
	d.i = 0
	d.b = b
}

// GetBytes returns the bytes value. The slice is not copied.
func (d Datum) GetBytes() []byte { return d.b }

// SetBytes stores a bytes value without copying it.
func (d *Datum) SetBytes(b []byte) {
	d.k = KindBytes
	d.i = 0
	d.b = b
}

// Clone returns a datum that shares no storage with d.
func (d Datum) Clone() Datum {
	nd := Datum{k: d.k, i: d.i}
	if d.b != nil {
		nd.b = make([]byte, len(d.b))
		copy(nd.b, d.b)
	}
	return nd
}

// Size returns the storage width of the value in bytes. It counts the
// encoded value only, not the Datum struct itself.
func (d Datum) Size() int64 {
	switch d.k {
	case KindNull:
		return 0
	case KindFloat32:
		return 4
	case KindString, KindBytes:
		return int64(len(d.b))
	default:
		return 8
	}
}

// String implements fmt.Stringer. For diagnostics only.
func (d Datum) String() string {
	switch d.k {
	case KindNull:
		return "NULL"
	case KindInt64:
		return strconv.FormatInt(d.i, 10)
	case KindUint64:
		return strconv.FormatUint(uint64(d.i), 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(d.GetFloat32()), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(d.GetFloat64(), 'g', -1, 64)
	case KindString:
		return string(d.b)
	case KindBytes:
		return fmt.Sprintf("%x", d.b)
	default:
		return fmt.Sprintf("datum(kind=%d)", d.k)
	}
}

// NewIntDatum creates an int64 datum.
func NewIntDatum(v int64) (d Datum) {
	d.SetInt64(v)
	return d
}

// NewUintDatum creates a uint64 datum.
func NewUintDatum(v uint64) (d Datum) {
	d.SetUint64(v)
	return d
}

// NewFloat32Datum creates a float32 datum.
func NewFloat32Datum(v float32) (d Datum) {
	d.SetFloat32(v)
	return d
}

// NewFloat64Datum creates a float64 datum.
func NewFloat64Datum(v float64) (d Datum) {
	d.SetFloat64(v)
	return d
}

// NewStringDatum creates a string datum.
func NewStringDatum(s string) (d Datum) {
	d.SetString(s)
	return d
}

// NewBytesDatum creates a bytes datum. The slice is not copied.
func NewBytesDatum(b []byte) (d Datum) {
	d.SetBytes(b)
	return d
}
