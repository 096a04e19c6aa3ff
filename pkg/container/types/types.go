// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package types defines the logical type system of the device vector
// engine: the closed type id enumeration, the parameterized Type value,
// and the 32-bit row count arithmetic every container shares.
package types

import (
	"fmt"
	"math"

	"github.com/matrixorigin/devec/pkg/common/dverr"
)

// T identifies the logical element type of a column. The enumeration is
// closed and ordered; ids are stable for the life of a process and safe to
// bake into dispatch tables sized by T_end.
type T uint8

const (
	// T_empty is a column that is entirely null, with no backing data.
	T_empty T = 0
	// T_int8 is a 1 byte signed integer.
	T_int8 T = 1
	// T_int16 is a 2 byte signed integer.
	T_int16 T = 2
	// T_int32 is a 4 byte signed integer.
	T_int32 T = 3
	// T_int64 is an 8 byte signed integer.
	T_int64 T = 4
	// T_float32 is a 4 byte floating point.
	T_float32 T = 5
	// T_float64 is an 8 byte floating point.
	T_float64 T = 6
	// T_bool uses one byte per value, 0 == false, else true.
	T_bool T = 7
	// T_date is days since the unix epoch in int32.
	T_date T = 8
	// T_timestamp is a duration since the unix epoch in int64, at the
	// resolution carried by the type's Unit parameter.
	T_timestamp T = 9
	// T_category is a dictionary code in int32.
	T_category T = 10
	// T_string is variable length bytes addressed through an int32
	// offsets buffer.
	T_string T = 11

	// T_end must be last. It is never a valid column type; it sizes
	// dispatch tables and fences id validation.
	T_end T = 12
)

// SizeType is the type of every row count, row offset and row index in the
// engine. Container capacity is bounded by MaxSize; arithmetic that can
// walk past the bound goes through CheckedSize.
type SizeType int32

const (
	// MaxSize is the largest row count any container can hold.
	MaxSize SizeType = math.MaxInt32

	// UnknownNullCount tells a column constructor that the null count is
	// not known and should be computed on the first call to NullCount.
	// It never appears as a computed result.
	UnknownNullCount SizeType = -1
)

// CheckedSize narrows n to a SizeType, reporting ErrSizeOverflow for
// anything a row count cannot represent.
func CheckedSize(n int64) (SizeType, error) {
	if n < 0 || n > int64(MaxSize) {
		return 0, dverr.NewSizeOverflow(n)
	}
	return SizeType(n), nil
}

// CheckT validates a type id received from an external surface, such as a
// host language binding.
func CheckT(id int32) (T, error) {
	if id < 0 || id >= int32(T_end) {
		return 0, dverr.NewUnsupportedType(fmt.Sprintf("T(%d)", id))
	}
	return T(id), nil
}

// TimeUnit is the resolution parameter of T_timestamp.
type TimeUnit uint8

const (
	UnitNone TimeUnit = iota
	UnitSecond
	UnitMillisecond
	UnitMicrosecond
	UnitNanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case UnitSecond:
		return "s"
	case UnitMillisecond:
		return "ms"
	case UnitMicrosecond:
		return "us"
	case UnitNanosecond:
		return "ns"
	}
	return ""
}

// Type describes the logical type of a column: the id plus the parameter
// slot for types that need metadata beyond their id. The zero value is
// T_empty with an empty parameter slot. Type is a plain comparable value,
// immutable once constructed.
type Type struct {
	Oid T
	// Unit is the resolution of T_timestamp elements; UnitNone elsewhere.
	Unit TimeUnit
	// Precision and Scale are reserved for fixed point decimal types.
	Precision int32
	Scale     int32
}

// New constructs a Type with an empty parameter slot.
func New(oid T) Type {
	return Type{Oid: oid}
}

// NewTimestamp constructs a T_timestamp Type at the given resolution.
func NewTimestamp(unit TimeUnit) Type {
	return Type{Oid: T_timestamp, Unit: unit}
}

func (t T) ToType() Type {
	return Type{Oid: t}
}

// Eq is id equality plus parameter equality. Two timestamp types with
// different units are different types.
func (t Type) Eq(b Type) bool {
	return t == b
}

func (t Type) TypeSize() int {
	return t.Oid.TypeSize()
}

// TypeSize is the byte width of one element: 0 for T_empty, the width of
// one offsets entry for T_string. Panics on an id outside the enumeration;
// dispatching callers validate with CheckT first.
func (t T) TypeSize() int {
	switch t {
	case T_empty:
		return 0
	case T_int8, T_bool:
		return 1
	case T_int16:
		return 2
	case T_int32, T_float32, T_date, T_category:
		return 4
	case T_int64, T_float64, T_timestamp:
		return 8
	case T_string:
		return 4
	}
	panic(dverr.NewUnsupportedType(t.String()))
}

// FixedSized reports whether elements are fixed width, directly
// addressable at data[row*TypeSize()].
func (t T) FixedSized() bool {
	switch t {
	case T_empty, T_string:
		return false
	}
	return t < T_end
}

func (t T) String() string {
	switch t {
	case T_empty:
		return "EMPTY"
	case T_int8:
		return "INT8"
	case T_int16:
		return "INT16"
	case T_int32:
		return "INT32"
	case T_int64:
		return "INT64"
	case T_float32:
		return "FLOAT32"
	case T_float64:
		return "FLOAT64"
	case T_bool:
		return "BOOL8"
	case T_date:
		return "DATE32"
	case T_timestamp:
		return "TIMESTAMP"
	case T_category:
		return "CATEGORY"
	case T_string:
		return "STRING"
	}
	return fmt.Sprintf("T(%d)", uint8(t))
}

// OidString returns the source form of the id, for logs and errors.
func (t T) OidString() string {
	switch t {
	case T_empty:
		return "T_empty"
	case T_int8:
		return "T_int8"
	case T_int16:
		return "T_int16"
	case T_int32:
		return "T_int32"
	case T_int64:
		return "T_int64"
	case T_float32:
		return "T_float32"
	case T_float64:
		return "T_float64"
	case T_bool:
		return "T_bool"
	case T_date:
		return "T_date"
	case T_timestamp:
		return "T_timestamp"
	case T_category:
		return "T_category"
	case T_string:
		return "T_string"
	}
	return "T_unknown"
}

func (t Type) String() string {
	if t.Oid == T_timestamp && t.Unit != UnitNone {
		return fmt.Sprintf("%s[%s]", t.Oid, t.Unit)
	}
	return t.Oid.String()
}

// Date is the element representation of T_date: days since the unix epoch.
type Date int32

// Timestamp is the element representation of T_timestamp: a duration since
// the unix epoch at the resolution of the column's TimeUnit.
type Timestamp int64

// Category is the element representation of T_category: a code into a
// dictionary owned by a higher layer.
type Category int32
