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

// Package testutil builds columns and tables for tests. Builders panic on
// construction errors; the inputs are test constants and a failure there
// is a bug in the test, not a condition to handle.
package testutil

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/batch"
	"github.com/matrixorigin/devec/pkg/container/nulls"
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/container/vector"
)

// MakeFixedVector builds an owning column over vals. nullRows marks the
// rows that are NULL; without it the column carries no mask at all.
func MakeFixedVector[T types.FixedSizeT](typ types.Type, vals []T, res mpool.MemResource, nullRows ...types.SizeType) *vector.Vector {
	rows := types.SizeType(len(vals))
	raw := types.EncodeSlice(vals)
	data, err := mpool.NewBuffer(res, len(raw))
	if err != nil {
		panic(err)
	}
	copy(data.Bytes(), raw)

	v, err := vector.NewWithBuffers(typ, rows, data, nil, makeMask(rows, res, nullRows), types.UnknownNullCount)
	if err != nil {
		panic(err)
	}
	return v
}

// MakeStringVector builds an owning T_string column over vals.
func MakeStringVector(vals []string, res mpool.MemResource, nullRows ...types.SizeType) *vector.Vector {
	rows := types.SizeType(len(vals))
	offsets := make([]types.SizeType, rows+1)
	var chars []byte
	for i, s := range vals {
		chars = append(chars, s...)
		offsets[i+1] = types.SizeType(len(chars))
	}

	data, err := mpool.NewBuffer(res, len(types.EncodeSlice(offsets)))
	if err != nil {
		panic(err)
	}
	copy(data.Bytes(), types.EncodeSlice(offsets))
	area, err := mpool.NewBuffer(res, len(chars))
	if err != nil {
		panic(err)
	}
	copy(area.Bytes(), chars)

	v, err := vector.NewWithBuffers(types.New(types.T_string), rows, data, area, makeMask(rows, res, nullRows), types.UnknownNullCount)
	if err != nil {
		panic(err)
	}
	return v
}

// MakeEmptyVector builds a T_empty column, which is all NULL by
// definition and owns no storage.
func MakeEmptyVector(rows types.SizeType) *vector.Vector {
	v, err := vector.New(types.New(types.T_empty), rows, nil)
	if err != nil {
		panic(err)
	}
	return v
}

func makeMask(rows types.SizeType, res mpool.MemResource, nullRows []types.SizeType) *nulls.Mask {
	if len(nullRows) == 0 {
		return nil
	}
	mask, err := nulls.Build(rows, res, nullRows...)
	if err != nil {
		panic(err)
	}
	return mask
}

// NewBatch builds a table of generated columns, one per entry of ts.
func NewBatch(ts []types.Type, random bool, n int, res mpool.MemResource) *batch.Batch {
	vecs := make([]*vector.Vector, len(ts))
	for i := range vecs {
		vecs[i] = NewVector(n, ts[i], res, random)
	}
	bat, err := batch.New(vecs...)
	if err != nil {
		panic(err)
	}
	return bat
}

// NewVector builds a generated column of n rows. Sequential values unless
// random is set.
func NewVector(n int, typ types.Type, res mpool.MemResource, random bool) *vector.Vector {
	switch typ.Oid {
	case types.T_empty:
		return MakeEmptyVector(types.SizeType(n))
	case types.T_bool:
		return NewBoolVector(n, typ, res, random)
	case types.T_int8:
		return newIntVector[int8](n, typ, res, random)
	case types.T_int16:
		return newIntVector[int16](n, typ, res, random)
	case types.T_int32:
		return newIntVector[int32](n, typ, res, random)
	case types.T_int64:
		return newIntVector[int64](n, typ, res, random)
	case types.T_float32:
		return NewFloat32Vector(n, typ, res, random)
	case types.T_float64:
		return NewFloat64Vector(n, typ, res, random)
	case types.T_date:
		return newIntVector[types.Date](n, typ, res, random)
	case types.T_timestamp:
		return newIntVector[types.Timestamp](n, typ, res, random)
	case types.T_category:
		return newIntVector[types.Category](n, typ, res, random)
	case types.T_string:
		return NewStringVector(n, res, random)
	default:
		panic(fmt.Errorf("unsupported vector type '%v'", typ))
	}
}

func newIntVector[T int8 | int16 | int32 | int64 | types.Date | types.Timestamp | types.Category](n int, typ types.Type, res mpool.MemResource, random bool) *vector.Vector {
	vals := make([]T, n)
	for i := range vals {
		v := i
		if random {
			v = rand.Int()
		}
		vals[i] = T(v)
	}
	return MakeFixedVector(typ, vals, res)
}

func NewBoolVector(n int, typ types.Type, res mpool.MemResource, random bool) *vector.Vector {
	vals := make([]bool, n)
	for i := range vals {
		vals[i] = i%2 == 0
		if random {
			vals[i] = rand.Int()%2 == 0
		}
	}
	return MakeFixedVector(typ, vals, res)
}

func NewFloat32Vector(n int, typ types.Type, res mpool.MemResource, random bool) *vector.Vector {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = float32(i)
		if random {
			vals[i] = rand.Float32()
		}
	}
	return MakeFixedVector(typ, vals, res)
}

func NewFloat64Vector(n int, typ types.Type, res mpool.MemResource, random bool) *vector.Vector {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
		if random {
			vals[i] = rand.Float64()
		}
	}
	return MakeFixedVector(typ, vals, res)
}

func NewStringVector(n int, res mpool.MemResource, random bool) *vector.Vector {
	vals := make([]string, n)
	for i := range vals {
		v := i
		if random {
			v = rand.Int()
		}
		vals[i] = strconv.Itoa(v)
	}
	return MakeStringVector(vals, res)
}
