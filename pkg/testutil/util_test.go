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

package testutil

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/container/vector"
)

func Test_MakeFixedVector(t *testing.T) {
	convey.Convey("fixed builder keeps values and nulls", t, func() {
		res := mpool.NewDeviceResource("test-testutil", 0)
		v := MakeFixedVector(types.New(types.T_int64), []int64{10, 20, 30, 40}, res, 2)
		defer v.Free()

		convey.So(v.Length(), convey.ShouldEqual, types.SizeType(4))
		col := vector.MustFixedCol[int64](v.View())
		convey.So(col[0], convey.ShouldEqual, int64(10))
		convey.So(col[3], convey.ShouldEqual, int64(40))
		convey.So(v.IsValid(2), convey.ShouldBeFalse)
		convey.So(v.IsValid(1), convey.ShouldBeTrue)
		convey.So(v.NullCount(), convey.ShouldEqual, types.SizeType(1))
	})

	convey.Convey("no null rows means no mask", t, func() {
		res := mpool.NewDeviceResource("test-testutil", 0)
		v := MakeFixedVector(types.New(types.T_int32), []int32{1, 2}, res)
		defer v.Free()

		convey.So(v.GetNulls(), convey.ShouldBeNil)
		convey.So(v.HasNulls(), convey.ShouldBeFalse)
	})
}

func Test_MakeStringVector(t *testing.T) {
	convey.Convey("string builder keeps values and nulls", t, func() {
		res := mpool.NewDeviceResource("test-testutil", 0)
		v := MakeStringVector([]string{"ab", "", "cdef"}, res, 1)
		defer v.Free()

		vw := v.View()
		convey.So(vw.GetString(0), convey.ShouldEqual, "ab")
		convey.So(vw.GetString(2), convey.ShouldEqual, "cdef")
		convey.So(v.IsValid(1), convey.ShouldBeFalse)
	})
}

func Test_NewVector(t *testing.T) {
	convey.Convey("sequential generation covers every type", t, func() {
		res := mpool.NewDeviceResource("test-testutil", 0)
		ts := []types.Type{
			types.New(types.T_empty),
			types.New(types.T_bool),
			types.New(types.T_int8),
			types.New(types.T_int16),
			types.New(types.T_int32),
			types.New(types.T_int64),
			types.New(types.T_float32),
			types.New(types.T_float64),
			types.New(types.T_date),
			types.NewTimestamp(types.UnitMillisecond),
			types.New(types.T_category),
			types.New(types.T_string),
		}
		bat := NewBatch(ts, false, 16, res)
		defer bat.Free()

		convey.So(bat.RowCount(), convey.ShouldEqual, types.SizeType(16))
		convey.So(bat.VectorCount(), convey.ShouldEqual, len(ts))

		col := vector.MustFixedCol[int32](bat.GetVector(4).View())
		convey.So(col[7], convey.ShouldEqual, int32(7))
		convey.So(bat.GetVector(11).View().GetString(9), convey.ShouldEqual, "9")
	})

	convey.Convey("random generation still builds every row", t, func() {
		res := mpool.NewDeviceResource("test-testutil", 0)
		v := NewVector(32, types.New(types.T_float64), res, true)
		defer v.Free()
		convey.So(v.Length(), convey.ShouldEqual, types.SizeType(32))
	})
}
