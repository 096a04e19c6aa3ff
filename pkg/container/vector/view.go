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

package vector

import (
	"sync/atomic"

	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/container/nulls"
	"github.com/matrixorigin/devec/pkg/container/types"
)

// View is a read-only window over an owning vector: a type, a row range
// and borrowed memory. Views are values; copying one is free and owns
// nothing. A view over the owner's full range shares the owner's null
// count cell, a narrowed view caches privately.
type View struct {
	typ    types.Type
	offset types.SizeType
	length types.SizeType

	data []byte
	area []byte
	nsp  *nulls.Mask

	cell *atomic.Pointer[types.SizeType]
}

// MutableView is a View that may write elements and validity through to
// the owner. Disjoint-range mutation from different goroutines is fine;
// aliasing mutation needs external synchronization.
type MutableView struct {
	View
	owner *Vector
}

// View opens a read-only view over the whole vector.
func (v *Vector) View() View {
	return View{
		typ:    v.typ,
		offset: 0,
		length: v.length,
		data:   v.data.Bytes(),
		area:   v.area.Bytes(),
		nsp:    v.nsp,
		cell:   &v.nullCount,
	}
}

// Mutable opens a read-write view over the whole vector.
func (v *Vector) Mutable() MutableView {
	return MutableView{View: v.View(), owner: v}
}

func (vw View) GetType() types.Type {
	return vw.typ
}

func (vw View) Length() types.SizeType {
	return vw.length
}

// Offset reports the view's start row within the owner.
func (vw View) Offset() types.SizeType {
	return vw.offset
}

func (vw View) GetNulls() *nulls.Mask {
	return vw.nsp
}

// Window narrows the view to rows [start, end) of the view itself.
func (vw View) Window(start, end types.SizeType) (View, error) {
	if start < 0 || start > end || end > vw.length {
		return View{}, dverr.NewInvalidInput("window [%d, %d) over %d rows", start, end, vw.length)
	}
	nw := vw
	nw.offset = vw.offset + start
	nw.length = end - start
	if nw.offset != vw.offset || nw.length != vw.length {
		nw.cell = new(atomic.Pointer[types.SizeType])
	}
	return nw, nil
}

// Window narrows the mutable view; writes still reach the same owner.
func (mv MutableView) Window(start, end types.SizeType) (MutableView, error) {
	nw, err := mv.View.Window(start, end)
	if err != nil {
		return MutableView{}, err
	}
	return MutableView{View: nw, owner: mv.owner}, nil
}

// IsValid reports the validity of row row of the view.
func (vw View) IsValid(row types.SizeType) bool {
	if vw.typ.Oid == types.T_empty {
		return false
	}
	if row < 0 || row >= vw.length {
		return false
	}
	return vw.nsp.IsValid(vw.offset + row)
}

// NullCount resolves the view's null count through the lazy cache: cached
// value if present, otherwise one mask scan over the view's range whose
// result is published with a compare and swap. Concurrent first readers
// may scan twice but adopt a single value. Views without a mask and empty
// views report 0 without touching the cell.
func (vw View) NullCount() types.SizeType {
	if vw.typ.Oid == types.T_empty {
		return vw.length
	}
	if vw.length == 0 || vw.nsp == nil {
		return 0
	}
	if c := vw.cell.Load(); c != nil {
		return *c
	}
	n := nullScan(vw.nsp, vw.offset, vw.offset+vw.length)
	vw.cell.CompareAndSwap(nil, &n)
	return *vw.cell.Load()
}

// HasNulls reports NullCount() > 0 through the same cache.
func (vw View) HasNulls() bool {
	return vw.NullCount() > 0
}

// NullRows materializes the view's NULL positions, view-relative.
func (vw View) NullRows() *roaring.Bitmap {
	set := roaring.New()
	if vw.typ.Oid == types.T_empty {
		set.AddRange(0, uint64(vw.length))
		return set
	}
	if vw.length == 0 || vw.nsp == nil {
		return set
	}
	for row := types.SizeType(0); row < vw.length; row++ {
		if !vw.nsp.IsValid(vw.offset + row) {
			set.Add(uint32(row))
		}
	}
	return set
}

// MustFixedCol returns the view's rows as a typed slice aliasing the
// underlying memory. T must match the view's element width; misuse panics
// the way a bad slice index does.
func MustFixedCol[T types.FixedSizeT](vw View) []T {
	return types.DecodeSlice[T](vw.data)[vw.offset : vw.offset+vw.length]
}

// GetFixedAt reads one element.
func GetFixedAt[T types.FixedSizeT](vw View, row types.SizeType) T {
	return MustFixedCol[T](vw)[row]
}

// Offsets returns the length+1 string offsets of a T_string view.
func (vw View) Offsets() []types.SizeType {
	if vw.typ.Oid != types.T_string {
		panic(dverr.NewUnsupportedType(vw.typ.Oid.String()))
	}
	return types.DecodeSlice[types.SizeType](vw.data)[vw.offset : vw.offset+vw.length+1]
}

// GetBytes returns the character bytes of one string row, aliasing the
// area.
func (vw View) GetBytes(row types.SizeType) []byte {
	offsets := vw.Offsets()
	if row < 0 || row >= vw.length {
		panic(dverr.NewInvalidInput("row %d out of %d rows", row, vw.length))
	}
	return vw.area[offsets[row]:offsets[row+1]]
}

// GetString returns one string row as a string copy.
func (vw View) GetString(row types.SizeType) string {
	return string(vw.GetBytes(row))
}

// SetFixedAt writes one fixed width element through a mutable view and
// drops the owner's cached null count. Variable length and empty types
// have no element writes.
func SetFixedAt[T types.FixedSizeT](mv MutableView, row types.SizeType, val T) error {
	if !mv.typ.Oid.FixedSized() {
		return dverr.NewUnsupportedType(mv.typ.Oid.String())
	}
	if row < 0 || row >= mv.length {
		return dverr.NewInvalidInput("row %d out of %d rows", row, mv.length)
	}
	types.DecodeSlice[T](mv.data)[mv.offset+row] = val
	mv.Invalidate()
	return nil
}

// SetValid flips the validity of one row through a mutable view. A
// maskless column cannot represent NULL; that is ErrNullMaskRequired, by
// the same rule as the owning API.
func (mv MutableView) SetValid(row types.SizeType, valid bool) error {
	if mv.nsp == nil {
		return dverr.NewNullMaskRequired("set validity")
	}
	if row < 0 || row >= mv.length {
		return dverr.NewInvalidInput("row %d out of %d rows", row, mv.length)
	}
	mv.nsp.SetValid(mv.offset+row, valid)
	mv.Invalidate()
	return nil
}

// Invalidate drops the cached null count of both the owner and the view.
// Bulk writers going through MustFixedCol must call it once they are
// done; the element-wise paths call it themselves.
func (mv MutableView) Invalidate() {
	mv.owner.nullCount.Store(nil)
	mv.cell.Store(nil)
}
