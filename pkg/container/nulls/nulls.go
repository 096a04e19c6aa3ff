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

// Package nulls carries per row validity for a column. A Mask packs one
// bit per row into 32 bit words held in a device Buffer; bit 1 means the
// row is valid, 0 means NULL. A nil *Mask is the no-mask case: every row
// valid, null count 0, no allocation. This is an optimization, not a
// semantic difference, and every read operation here tolerates it.
//
// Masks are dumb storage plus scan primitives. Null count caching lives
// with the owning column, not here.
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/devec/pkg/common/bitmap"
	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/types"
)

// Mask is a validity bitmask over rows [0, Rows()). The bit store aliases
// the backing Buffer; freeing the Mask frees the buffer.
type Mask struct {
	rows types.SizeType
	buf  *mpool.Buffer
	bm   bitmap.Bitmap
}

func newMask(rows types.SizeType, res mpool.MemResource) (*Mask, error) {
	if rows < 0 {
		return nil, dverr.NewInvalidInput("null mask over %d rows", rows)
	}
	buf, err := mpool.NewBuffer(res, bitmap.WordsFor(int(rows))*bitmap.WordBits/8)
	if err != nil {
		return nil, err
	}
	m := &Mask{rows: rows, buf: buf}
	m.bm.InitWithWords(types.DecodeSlice[uint32](buf.Bytes()), int(rows))
	return m, nil
}

// NewAllNull allocates a mask with every row NULL. Fresh buffers come back
// zeroed, so the words need no further touch.
func NewAllNull(rows types.SizeType, res mpool.MemResource) (*Mask, error) {
	return newMask(rows, res)
}

// NewAllValid allocates a mask with every row valid.
func NewAllValid(rows types.SizeType, res mpool.MemResource) (*Mask, error) {
	m, err := newMask(rows, res)
	if err != nil {
		return nil, err
	}
	m.bm.AddRange(0, int(rows))
	return m, nil
}

// Build allocates a mask that is valid everywhere except the given rows.
func Build(rows types.SizeType, res mpool.MemResource, nullRows ...types.SizeType) (*Mask, error) {
	m, err := NewAllValid(rows, res)
	if err != nil {
		return nil, err
	}
	for _, row := range nullRows {
		if row >= 0 && row < rows {
			m.bm.Remove(int(row))
		}
	}
	return m, nil
}

// FromBuffer adopts buf as the bit store for rows rows. The buffer must
// hold at least WordsFor(rows) words or the call fails with ErrSizeMismatch
// and the buffer stays with the caller. Trailing bits of the last word are
// zeroed so that popcounts stay honest.
func FromBuffer(rows types.SizeType, buf *mpool.Buffer) (*Mask, error) {
	if rows < 0 {
		return nil, dverr.NewInvalidInput("null mask over %d rows", rows)
	}
	words := bitmap.WordsFor(int(rows))
	need := words * bitmap.WordBits / 8
	if buf.Size() < need {
		return nil, dverr.NewSizeMismatch("null mask buffer", int64(need), int64(buf.Size()))
	}
	m := &Mask{rows: rows, buf: buf}
	m.bm.InitWithWords(types.DecodeSlice[uint32](buf.Bytes()[:need]), int(rows))
	if words > 0 && rows%bitmap.WordBits != 0 {
		m.bm.Words()[words-1] &= ^uint32(0) >> (uint(-rows) & 0x1F)
	}
	return m, nil
}

// Rows returns the row capacity of the mask.
func (m *Mask) Rows() types.SizeType {
	if m == nil {
		return 0
	}
	return m.rows
}

// IsValid reports whether row holds a value. Rows outside the mask and all
// rows of a nil mask are valid.
func (m *Mask) IsValid(row types.SizeType) bool {
	if m == nil || row < 0 || row >= m.rows {
		return true
	}
	return m.bm.Contains(int(row))
}

// SetValid flips the validity of one row. Unlike the read paths, writing
// needs an allocated mask; the column layer guards this with
// ErrNullMaskRequired before calling down.
func (m *Mask) SetValid(row types.SizeType, valid bool) {
	if row < 0 || row >= m.rows {
		return
	}
	if valid {
		m.bm.Add(int(row))
	} else {
		m.bm.Remove(int(row))
	}
}

// HasNulls reports whether any of the first rows rows is NULL.
func (m *Mask) HasNulls(rows types.SizeType) bool {
	return m.NullCountRange(0, rows) > 0
}

// NullCountRange counts zero bits in [start, end), clamped to the mask.
func (m *Mask) NullCountRange(start, end types.SizeType) types.SizeType {
	if m == nil {
		return 0
	}
	if start < 0 {
		start = 0
	}
	if end > m.rows {
		end = m.rows
	}
	if start >= end {
		return 0
	}
	return end - start - types.SizeType(m.bm.CountRange(int(start), int(end)))
}

// NullRows materializes the NULL positions among the first rows rows as a
// row set. A nil mask yields an empty set.
func (m *Mask) NullRows(rows types.SizeType) *roaring.Bitmap {
	set := roaring.New()
	if m == nil {
		return set
	}
	if rows > m.rows {
		rows = m.rows
	}
	for row := types.SizeType(0); row < rows; row++ {
		if !m.bm.Contains(int(row)) {
			set.Add(uint32(row))
		}
	}
	return set
}

// Words exposes the packed bit words. Mutating them bypasses any cached
// null count upstairs.
func (m *Mask) Words() []uint32 {
	if m == nil {
		return nil
	}
	return m.bm.Words()
}

// Buffer exposes the backing allocation.
func (m *Mask) Buffer() *mpool.Buffer {
	if m == nil {
		return nil
	}
	return m.buf
}

// Dup deep-copies the mask onto res; nil res copies onto the buffer's own
// resource. Dup of a nil mask is nil, still meaning all valid.
func (m *Mask) Dup(res mpool.MemResource) (*Mask, error) {
	if m == nil {
		return nil, nil
	}
	buf, err := m.buf.Dup(res)
	if err != nil {
		return nil, err
	}
	nm := &Mask{rows: m.rows, buf: buf}
	nm.bm.InitWithWords(types.DecodeSlice[uint32](buf.Bytes()), int(m.rows))
	return nm, nil
}

// Free releases the backing buffer. Free is idempotent and nil-safe.
func (m *Mask) Free() {
	if m == nil {
		return
	}
	m.buf.Free()
	m.bm.Reset()
	m.rows = 0
}

func (m *Mask) String() string {
	if m == nil {
		return "nulls<nil>"
	}
	return fmt.Sprintf("nulls<%d/%d>", m.NullCountRange(0, m.rows), m.rows)
}
