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

// Package vector implements the column family: the owning Vector, the
// read-only View and the read-write MutableView, all over device Buffers.
//
// A Vector owns one data Buffer sized to its type and row count, for
// T_string an extra character area, and an optional validity Mask. Views
// reference the owner's memory and own nothing; view lifetime inside owner
// lifetime is a caller contract, not an enforced one.
package vector

import (
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/nulls"
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/stream"
)

// Vector represents one owning column.
//
// The null count is cached lazily: nil means unknown, a non-nil pointer is
// the computed value. External callers never see the pointer; NullCount()
// resolves it and mutation paths reset it. types.UnknownNullCount only
// crosses API boundaries, it never drives the logic in here.
type Vector struct {
	typ    types.Type
	length types.SizeType

	// data holds fixed width elements; for T_string it holds the
	// length+1 offsets and area holds the character bytes.
	data *mpool.Buffer
	area *mpool.Buffer
	nsp  *nulls.Mask

	nullCount atomic.Pointer[types.SizeType]
}

// nullScan resolves an unknown null count from the mask. It is a package
// variable so tests can intercept it and count scans.
var nullScan = (*nulls.Mask).NullCountRange

// New allocates a zeroed vector of typ over rows rows on res. T_string
// vectors start with all-empty strings, T_empty vectors carry no data at
// all. No validity mask is allocated; rows are born valid.
func New(typ types.Type, rows types.SizeType, res mpool.MemResource) (*Vector, error) {
	if _, err := types.CheckT(int32(typ.Oid)); err != nil {
		return nil, err
	}
	if rows < 0 {
		return nil, dverr.NewInvalidInput("vector over %d rows", rows)
	}
	v := &Vector{typ: typ, length: rows}
	if typ.Oid == types.T_empty {
		return v, nil
	}
	nbytes := int(rows) * typ.TypeSize()
	if typ.Oid == types.T_string {
		nbytes = (int(rows) + 1) * typ.TypeSize()
	}
	data, err := mpool.NewBuffer(res, nbytes)
	if err != nil {
		return nil, err
	}
	v.data = data
	return v, nil
}

// NewWithBuffers adopts caller buffers as a vector. area is the T_string
// character store, nil for fixed width types. mask may be nil (all rows
// valid). nullCount seeds the cache; pass types.UnknownNullCount to leave
// it for the first NullCount call. All size checks happen here, at
// construction, never later at use; on error the buffers stay with the
// caller.
func NewWithBuffers(typ types.Type, rows types.SizeType, data, area *mpool.Buffer, mask *nulls.Mask, nullCount types.SizeType) (*Vector, error) {
	if _, err := types.CheckT(int32(typ.Oid)); err != nil {
		return nil, err
	}
	if rows < 0 {
		return nil, dverr.NewInvalidInput("vector over %d rows", rows)
	}
	if typ.Oid == types.T_empty {
		if data.Size() != 0 || area.Size() != 0 || mask != nil {
			return nil, dverr.NewInvalidInput("empty typed vector carries no buffers")
		}
		return &Vector{typ: typ, length: rows}, nil
	}

	need := int64(rows) * int64(typ.TypeSize())
	if typ.Oid == types.T_string {
		need = (int64(rows) + 1) * int64(typ.TypeSize())
	}
	if int64(data.Size()) < need {
		return nil, dverr.NewSizeMismatch("column data", need, int64(data.Size()))
	}
	if typ.Oid == types.T_string && rows > 0 {
		offsets := types.DecodeSlice[types.SizeType](data.Bytes()[:need])
		if extent := int64(offsets[rows]); extent > int64(area.Size()) {
			return nil, dverr.NewSizeMismatch("string area", extent, int64(area.Size()))
		}
	}
	if mask != nil && mask.Rows() < rows {
		return nil, dverr.NewSizeMismatch("null mask", int64(rows), int64(mask.Rows()))
	}
	if nullCount != types.UnknownNullCount && (nullCount < 0 || nullCount > rows) {
		return nil, dverr.NewInvalidInput("null count %d over %d rows", nullCount, rows)
	}
	if mask == nil && nullCount > 0 {
		return nil, dverr.NewInvalidInput("null count %d without a mask", nullCount)
	}

	v := &Vector{typ: typ, length: rows, data: data, area: area, nsp: mask}
	if mask != nil && nullCount != types.UnknownNullCount {
		v.nullCount.Store(&nullCount)
	}
	return v, nil
}

func (v *Vector) GetType() types.Type {
	return v.typ
}

func (v *Vector) Length() types.SizeType {
	return v.length
}

func (v *Vector) GetNulls() *nulls.Mask {
	return v.nsp
}

// Data exposes the owned data buffer (offsets for T_string).
func (v *Vector) Data() *mpool.Buffer {
	return v.data
}

// Area exposes the owned character area, nil except for T_string.
func (v *Vector) Area() *mpool.Buffer {
	return v.area
}

// SetNulls replaces the validity mask. The old mask is freed and the
// cached null count drops.
func (v *Vector) SetNulls(mask *nulls.Mask) error {
	if mask != nil && mask.Rows() < v.length {
		return dverr.NewSizeMismatch("null mask", int64(v.length), int64(mask.Rows()))
	}
	if v.nsp != mask {
		v.nsp.Free()
	}
	v.nsp = mask
	v.nullCount.Store(nil)
	return nil
}

// NullCount returns the number of NULL rows. The first call after a
// mutation scans the mask and caches the result; later calls return the
// cache. Racing resolvers may both scan but agree on one published value.
// No-mask and zero-row vectors report 0 without touching the cache;
// T_empty vectors are all NULL by definition.
func (v *Vector) NullCount() types.SizeType {
	if v.typ.Oid == types.T_empty {
		return v.length
	}
	if v.length == 0 || v.nsp == nil {
		return 0
	}
	if c := v.nullCount.Load(); c != nil {
		return *c
	}
	n := nullScan(v.nsp, 0, v.length)
	v.nullCount.CompareAndSwap(nil, &n)
	return *v.nullCount.Load()
}

// HasNulls reports NullCount() > 0 through the same cache.
func (v *Vector) HasNulls() bool {
	return v.NullCount() > 0
}

// IsValid reports the validity of one row; rows without a mask are valid.
func (v *Vector) IsValid(row types.SizeType) bool {
	if v.typ.Oid == types.T_empty {
		return false
	}
	if row < 0 || row >= v.length {
		return false
	}
	return v.nsp.IsValid(row)
}

// SetValid flips the validity of one row through the owning API. A vector
// without a mask cannot represent a NULL; that asks for ErrNullMaskRequired
// rather than a silent mask allocation.
func (v *Vector) SetValid(row types.SizeType, valid bool) error {
	if v.nsp == nil {
		return dverr.NewNullMaskRequired("set validity")
	}
	if row < 0 || row >= v.length {
		return dverr.NewInvalidInput("row %d out of %d rows", row, v.length)
	}
	v.nsp.SetValid(row, valid)
	v.nullCount.Store(nil)
	return nil
}

// Dup deep-copies the vector. Buffers land on res (nil res keeps each
// buffer on its own resource); the bulk byte copies ride s when given and
// run inline when s is nil, so a caller handing in a stream must Sync
// before reading the copy. The cached null count carries over: a copy
// mutates nothing.
func (v *Vector) Dup(res mpool.MemResource, s *stream.Stream) (*Vector, error) {
	nv := &Vector{typ: v.typ, length: v.length}
	if c := v.nullCount.Load(); c != nil {
		nc := *c
		nv.nullCount.Store(&nc)
	}

	var err error
	if nv.data, err = dupBuffer(v.data, res, s); err != nil {
		return nil, err
	}
	if nv.area, err = dupBuffer(v.area, res, s); err != nil {
		nv.Free()
		return nil, err
	}
	// mask words are small; they copy inline
	if v.nsp != nil {
		if nv.nsp, err = v.nsp.Dup(res); err != nil {
			nv.Free()
			return nil, err
		}
	}
	return nv, nil
}

func dupBuffer(src *mpool.Buffer, res mpool.MemResource, s *stream.Stream) (*mpool.Buffer, error) {
	if src == nil {
		return nil, nil
	}
	if res == nil {
		res = src.Resource()
	}
	dst, err := mpool.NewBuffer(res, src.Size())
	if err != nil {
		return nil, err
	}
	op := func() {
		copy(dst.Bytes(), src.Bytes())
	}
	if s == nil {
		op()
		return dst, nil
	}
	if err := s.Submit(op); err != nil {
		dst.Free()
		return nil, err
	}
	return dst, nil
}

// Free releases all owned memory exactly once; double Free is a no-op.
// Views over the vector dangle from here on, that is the lifetime
// contract.
func (v *Vector) Free() {
	v.data.Free()
	v.area.Free()
	v.nsp.Free()
	v.nsp = nil
	v.nullCount.Store(nil)
	v.length = 0
}

func (v *Vector) String() string {
	return fmt.Sprintf("%s[%d]-%s", v.typ, v.length, v.nsp)
}
