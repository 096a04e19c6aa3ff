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

package stats

import (
	hll "github.com/axiomhq/hyperloglog"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/container/batch"
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/container/vector"
	"github.com/matrixorigin/devec/pkg/stream"
)

// Collect scans one column view. The scan rides s so it observes every op
// already queued there, and Collect syncs before returning; a nil s scans
// inline. Types outside the dispatch table fail with ErrUnsupportedType.
func Collect(vw vector.View, s *stream.Stream) (ColumnStats, error) {
	st := ColumnStats{Typ: vw.GetType(), Rows: vw.Length()}

	insert, err := inserter(vw)
	if err != nil {
		return ColumnStats{}, err
	}
	scan := func() {
		if insert != nil {
			sk := hll.New()
			insert(sk)
			st.DistinctCount = sk.Estimate()
		}
		st.Nulls = vw.NullCount()
		st.NullRows = vw.NullRows()
	}

	if s == nil {
		scan()
		return st, nil
	}
	if err := s.Submit(scan); err != nil {
		return ColumnStats{}, err
	}
	s.Sync()
	return st, nil
}

// CollectTable scans every column of a table view over the same stream.
func CollectTable(tv batch.View, s *stream.Stream) (TableStats, error) {
	ts := TableStats{Rows: tv.RowCount(), Cols: make([]ColumnStats, tv.VectorCount())}
	for i := range ts.Cols {
		cs, err := Collect(tv.GetVector(i), s)
		if err != nil {
			return TableStats{}, err
		}
		ts.Cols[i] = cs
	}
	return ts, nil
}

// inserter builds the per type sketch feeder. A nil feeder with nil error
// means the type has no values to sketch (T_empty).
func inserter(vw vector.View) (func(*hll.Sketch), error) {
	switch vw.GetType().Oid {
	case types.T_empty:
		return nil, nil
	case types.T_int8:
		return fixedInserter[int8](vw), nil
	case types.T_int16:
		return fixedInserter[int16](vw), nil
	case types.T_int32:
		return fixedInserter[int32](vw), nil
	case types.T_int64:
		return fixedInserter[int64](vw), nil
	case types.T_float32:
		return fixedInserter[float32](vw), nil
	case types.T_float64:
		return fixedInserter[float64](vw), nil
	case types.T_bool:
		return fixedInserter[bool](vw), nil
	case types.T_date:
		return fixedInserter[types.Date](vw), nil
	case types.T_timestamp:
		return fixedInserter[types.Timestamp](vw), nil
	case types.T_category:
		return fixedInserter[types.Category](vw), nil
	case types.T_string:
		return func(sk *hll.Sketch) {
			for row := types.SizeType(0); row < vw.Length(); row++ {
				if vw.IsValid(row) {
					sk.Insert(vw.GetBytes(row))
				}
			}
		}, nil
	default:
		return nil, dverr.NewUnsupportedType(vw.GetType().Oid.String())
	}
}

func fixedInserter[T types.FixedSizeT](vw vector.View) func(*hll.Sketch) {
	col := vector.MustFixedCol[T](vw)
	return func(sk *hll.Sketch) {
		for row := range col {
			if vw.IsValid(types.SizeType(row)) {
				sk.Insert(types.EncodeFixed(col[row]))
			}
		}
	}
}
