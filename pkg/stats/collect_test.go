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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/batch"
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/container/vector"
	"github.com/matrixorigin/devec/pkg/stream"
	"github.com/matrixorigin/devec/pkg/testutil"
)

func TestCollectFixed(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	v := testutil.MakeFixedVector(types.New(types.T_int32), []int32{1, 1, 2, 2, 3}, res, 4)
	defer v.Free()

	st, err := Collect(v.View(), nil)
	require.NoError(t, err)
	require.Equal(t, types.T_int32, st.Typ.Oid)
	require.Equal(t, types.SizeType(5), st.Rows)
	require.Equal(t, types.SizeType(1), st.Nulls)

	// the NULL row does not feed the sketch: {1, 2} remain
	require.Equal(t, uint64(2), st.DistinctCount)
	require.True(t, st.NullRows.Contains(4))
	require.Equal(t, uint64(1), st.NullRows.GetCardinality())
}

func TestCollectAllNull(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	v := testutil.MakeFixedVector(types.New(types.T_int64), []int64{7, 8, 9}, res, 0, 1, 2)
	defer v.Free()

	st, err := Collect(v.View(), nil)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(3), st.Nulls)
	require.Equal(t, uint64(0), st.DistinctCount)
}

func TestCollectBool(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	v := testutil.MakeFixedVector(types.New(types.T_bool), []bool{true, false, true, true}, res)
	defer v.Free()

	st, err := Collect(v.View(), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(2), st.DistinctCount)
	require.Equal(t, types.SizeType(0), st.Nulls)
}

func TestCollectString(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	v := testutil.MakeStringVector([]string{"foo", "bar", "foo", "", "baz"}, res, 3)
	defer v.Free()

	st, err := Collect(v.View(), nil)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(1), st.Nulls)
	require.Equal(t, uint64(3), st.DistinctCount)

	// a window shifts both counts
	w, err := v.View().Window(0, 2)
	require.NoError(t, err)
	ws, err := Collect(w, nil)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(0), ws.Nulls)
	require.Equal(t, uint64(2), ws.DistinctCount)
}

func TestCollectEmptyType(t *testing.T) {
	v := testutil.MakeEmptyVector(6)
	defer v.Free()

	st, err := Collect(v.View(), nil)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(6), st.Rows)
	require.Equal(t, types.SizeType(6), st.Nulls)
	require.Equal(t, uint64(0), st.DistinctCount)
	require.Equal(t, uint64(6), st.NullRows.GetCardinality())
}

func TestCollectAccuracy(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	vals := make([]int64, 1<<16)
	for i := range vals {
		vals[i] = int64(i)
	}
	v := testutil.MakeFixedVector(types.New(types.T_int64), vals, res)
	defer v.Free()

	st, err := Collect(v.View(), nil)
	require.NoError(t, err)
	require.InEpsilon(t, float64(len(vals)), float64(st.DistinctCount), 0.02)
}

func TestCollectOnStream(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)
	s := stream.New("test-stats")
	defer func() { require.NoError(t, s.Close()) }()

	v := testutil.MakeFixedVector(types.New(types.T_int32), make([]int32, 100), res)
	defer v.Free()

	// the scan is ordered after writes already queued on the stream
	mv := v.Mutable()
	require.NoError(t, s.Submit(func() {
		col := vector.MustFixedCol[int32](mv.View)
		for i := range col {
			col[i] = int32(i % 10)
		}
		mv.Invalidate()
	}))

	st, err := Collect(v.View(), s)
	require.NoError(t, err)
	require.Equal(t, uint64(10), st.DistinctCount)
}

func TestCollectTable(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	a := testutil.MakeFixedVector(types.New(types.T_int32), []int32{1, 2, 2, 4}, res, 0)
	b := testutil.MakeStringVector([]string{"x", "y", "x", "z"}, res)
	bat, err := batch.New(a, b)
	require.NoError(t, err)
	defer bat.Free()

	ts, err := CollectTable(bat.View(), nil)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(4), ts.Rows)
	require.Equal(t, 2, len(ts.Cols))
	require.Equal(t, types.SizeType(1), ts.Cols[0].Nulls)
	require.Equal(t, uint64(2), ts.Cols[0].DistinctCount)
	require.Equal(t, uint64(3), ts.Cols[1].DistinctCount)
}

func TestCollectGenerated(t *testing.T) {
	res := mpool.NewDeviceResource("test-stats", 0)

	bat := testutil.NewBatch([]types.Type{
		types.New(types.T_int8),
		types.New(types.T_int16),
		types.New(types.T_float32),
		types.New(types.T_float64),
		types.New(types.T_date),
		types.NewTimestamp(types.UnitMicrosecond),
		types.New(types.T_category),
		types.New(types.T_string),
	}, false, 32, res)
	defer bat.Free()

	ts, err := CollectTable(bat.View(), nil)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(32), ts.Rows)
	for _, cs := range ts.Cols {
		require.Equal(t, types.SizeType(0), cs.Nulls)
		require.Equal(t, uint64(32), cs.DistinctCount)
	}
}
