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

package batch

import (
	"bytes"
	"fmt"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/container/vector"
	"github.com/matrixorigin/devec/pkg/stream"
)

// New builds a batch over the given columns. Every column must report the
// same row count or construction fails with ErrRowCountMismatch; the
// columns stay with the caller on failure. The batch takes ownership on
// success.
func New(vecs ...*vector.Vector) (*Batch, error) {
	bat := &Batch{Vecs: vecs}
	if len(vecs) == 0 {
		return bat, nil
	}
	bat.rowCount = vecs[0].Length()
	for _, vec := range vecs[1:] {
		if vec.Length() != bat.rowCount {
			return nil, dverr.NewRowCountMismatch(int64(bat.rowCount), int64(vec.Length()))
		}
	}
	return bat, nil
}

func (bat *Batch) RowCount() types.SizeType {
	return bat.rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

// GetVector returns the column at pos; columns are addressed by position
// only.
func (bat *Batch) GetVector(pos int) *vector.Vector {
	return bat.Vecs[pos]
}

// View opens a read-only view over all columns.
func (bat *Batch) View() View {
	cols := make([]vector.View, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		cols[i] = vec.View()
	}
	return View{cols: cols, rowCount: bat.rowCount}
}

// Mutable opens a read-write view over all columns.
func (bat *Batch) Mutable() MutableView {
	cols := make([]vector.MutableView, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		cols[i] = vec.Mutable()
	}
	return MutableView{cols: cols, rowCount: bat.rowCount}
}

// Dup deep-copies the batch; buffers land on res and bulk copies ride s,
// both as in vector.Dup.
func (bat *Batch) Dup(res mpool.MemResource, s *stream.Stream) (*Batch, error) {
	vecs := make([]*vector.Vector, 0, len(bat.Vecs))
	for _, vec := range bat.Vecs {
		nv, err := vec.Dup(res, s)
		if err != nil {
			for _, d := range vecs {
				d.Free()
			}
			return nil, err
		}
		vecs = append(vecs, nv)
	}
	return New(vecs...)
}

// Free releases every owned column. Double Free is a no-op.
func (bat *Batch) Free() {
	for _, vec := range bat.Vecs {
		vec.Free()
	}
	bat.Vecs = nil
	bat.rowCount = 0
}

func (bat *Batch) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("batch<%d rows>", bat.rowCount))
	for i, vec := range bat.Vecs {
		buf.WriteString(fmt.Sprintf("\n\t%d: %s", i, vec))
	}
	return buf.String()
}

// NewView assembles a table view from column views, re-checking the row
// count invariant the way batch construction does.
func NewView(cols ...vector.View) (View, error) {
	tv := View{cols: cols}
	if len(cols) == 0 {
		return tv, nil
	}
	tv.rowCount = cols[0].Length()
	for _, col := range cols[1:] {
		if col.Length() != tv.rowCount {
			return View{}, dverr.NewRowCountMismatch(int64(tv.rowCount), int64(col.Length()))
		}
	}
	return tv, nil
}

func (tv View) RowCount() types.SizeType {
	return tv.rowCount
}

func (tv View) VectorCount() int {
	return len(tv.cols)
}

func (tv View) GetVector(pos int) vector.View {
	return tv.cols[pos]
}

// Window narrows every column to rows [start, end).
func (tv View) Window(start, end types.SizeType) (View, error) {
	if start < 0 || start > end || end > tv.rowCount {
		return View{}, dverr.NewInvalidInput("window [%d, %d) over %d rows", start, end, tv.rowCount)
	}
	cols := make([]vector.View, len(tv.cols))
	for i, col := range tv.cols {
		w, err := col.Window(start, end)
		if err != nil {
			return View{}, err
		}
		cols[i] = w
	}
	return View{cols: cols, rowCount: end - start}, nil
}

// NewMutableView assembles a writable table view from column views under
// the same row count invariant.
func NewMutableView(cols ...vector.MutableView) (MutableView, error) {
	mv := MutableView{cols: cols}
	if len(cols) == 0 {
		return mv, nil
	}
	mv.rowCount = cols[0].Length()
	for _, col := range cols[1:] {
		if col.Length() != mv.rowCount {
			return MutableView{}, dverr.NewRowCountMismatch(int64(mv.rowCount), int64(col.Length()))
		}
	}
	return mv, nil
}

func (mv MutableView) RowCount() types.SizeType {
	return mv.rowCount
}

func (mv MutableView) VectorCount() int {
	return len(mv.cols)
}

func (mv MutableView) GetVector(pos int) vector.MutableView {
	return mv.cols[pos]
}

// Window narrows every column to rows [start, end); writes still reach
// the owning columns.
func (mv MutableView) Window(start, end types.SizeType) (MutableView, error) {
	if start < 0 || start > end || end > mv.rowCount {
		return MutableView{}, dverr.NewInvalidInput("window [%d, %d) over %d rows", start, end, mv.rowCount)
	}
	cols := make([]vector.MutableView, len(mv.cols))
	for i, col := range mv.cols {
		w, err := col.Window(start, end)
		if err != nil {
			return MutableView{}, err
		}
		cols[i] = w
	}
	return MutableView{cols: cols, rowCount: end - start}, nil
}
