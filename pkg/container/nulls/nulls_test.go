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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/container/types"
)

func TestNilMask(t *testing.T) {
	var m *Mask

	require.True(t, m.IsValid(0))
	require.True(t, m.IsValid(12345))
	require.False(t, m.HasNulls(100))
	require.Equal(t, types.SizeType(0), m.NullCountRange(0, 100))
	require.Equal(t, types.SizeType(0), m.Rows())
	require.Equal(t, uint64(0), m.NullRows(100).GetCardinality())
	require.Nil(t, m.Words())
	require.Nil(t, m.Buffer())

	d, err := m.Dup(nil)
	require.NoError(t, err)
	require.Nil(t, d)

	m.Free()
	require.Equal(t, "nulls<nil>", m.String())
}

func TestAllValidAllNull(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	v, err := NewAllValid(100, res)
	require.NoError(t, err)
	require.False(t, v.HasNulls(100))
	require.Equal(t, types.SizeType(0), v.NullCountRange(0, 100))
	require.Equal(t, types.SizeType(100), v.Rows())
	require.Equal(t, 4, len(v.Words()))
	// 100 rows leave 4 live bits in the last word, all higher bits zero
	require.Equal(t, uint32(0xF), v.Words()[3])

	n, err := NewAllNull(100, res)
	require.NoError(t, err)
	require.True(t, n.HasNulls(100))
	require.Equal(t, types.SizeType(100), n.NullCountRange(0, 100))
	require.False(t, n.IsValid(0))

	v.Free()
	n.Free()
	require.Equal(t, int64(0), res.CurrNB())
}

func TestBuild(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	m, err := Build(10, res, 1, 5)
	require.NoError(t, err)
	require.True(t, m.IsValid(0))
	require.False(t, m.IsValid(1))
	require.False(t, m.IsValid(5))
	require.True(t, m.IsValid(9))
	require.Equal(t, types.SizeType(2), m.NullCountRange(0, 10))
	require.Equal(t, types.SizeType(1), m.NullCountRange(0, 5))
	require.Equal(t, types.SizeType(1), m.NullCountRange(5, 10))

	// out of range null rows are dropped
	o, err := Build(4, res, 9, -1)
	require.NoError(t, err)
	require.False(t, o.HasNulls(4))

	m.Free()
	o.Free()
	require.Equal(t, int64(0), res.CurrNB())
}

func TestSetValid(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	m, err := NewAllValid(10, res)
	require.NoError(t, err)

	m.SetValid(3, false)
	require.False(t, m.IsValid(3))
	require.Equal(t, types.SizeType(1), m.NullCountRange(0, 10))

	m.SetValid(3, true)
	require.True(t, m.IsValid(3))
	require.Equal(t, types.SizeType(0), m.NullCountRange(0, 10))

	// writes outside the mask are dropped
	m.SetValid(10, false)
	m.SetValid(-1, false)
	require.Equal(t, types.SizeType(0), m.NullCountRange(0, 10))

	m.Free()
	require.Equal(t, int64(0), res.CurrNB())
}

func TestNullCountRangeClamps(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	m, err := NewAllNull(10, res)
	require.NoError(t, err)
	require.Equal(t, types.SizeType(10), m.NullCountRange(-5, 100))
	require.Equal(t, types.SizeType(0), m.NullCountRange(7, 7))
	require.Equal(t, types.SizeType(0), m.NullCountRange(9, 2))
	require.Equal(t, types.SizeType(3), m.NullCountRange(7, 100))

	m.Free()
}

func TestNullRows(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	m, err := Build(10, res, 2, 7)
	require.NoError(t, err)

	set := m.NullRows(10)
	require.Equal(t, uint64(2), set.GetCardinality())
	require.True(t, set.Contains(2))
	require.True(t, set.Contains(7))

	// only rows below the cutoff are reported
	require.Equal(t, uint64(1), m.NullRows(5).GetCardinality())

	m.Free()
}

func TestFromBuffer(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	buf, err := mpool.NewBuffer(res, 4)
	require.NoError(t, err)
	for i := range buf.Bytes() {
		buf.Bytes()[i] = 0xFF
	}

	// adoption normalizes the trailing bits of the last word
	m, err := FromBuffer(5, buf)
	require.NoError(t, err)
	require.Equal(t, uint32(0x1F), m.Words()[0])
	require.Equal(t, types.SizeType(0), m.NullCountRange(0, 5))
	m.Free()

	short, err := mpool.NewBuffer(res, 4)
	require.NoError(t, err)
	_, err = FromBuffer(100, short)
	require.True(t, dverr.IsErrCode(err, dverr.ErrSizeMismatch))
	short.Free()

	require.Equal(t, int64(0), res.CurrNB())
}

func TestDup(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	m, err := Build(10, res, 4)
	require.NoError(t, err)
	d, err := m.Dup(nil)
	require.NoError(t, err)
	require.False(t, d.IsValid(4))

	// copies never alias
	m.SetValid(4, true)
	require.False(t, d.IsValid(4))
	require.Equal(t, types.SizeType(1), d.NullCountRange(0, 10))

	m.Free()
	m.Free()
	d.Free()
	require.Equal(t, int64(0), res.CurrNB())
}

func TestZeroRows(t *testing.T) {
	res := mpool.NewDeviceResource("test-nulls", 0)

	m, err := NewAllValid(0, res)
	require.NoError(t, err)
	require.False(t, m.HasNulls(0))
	require.Equal(t, types.SizeType(0), m.NullCountRange(0, 0))
	m.Free()

	_, err = NewAllNull(-1, res)
	require.True(t, dverr.IsErrCode(err, dverr.ErrInvalidInput))
	require.Equal(t, int64(0), res.CurrNB())
}
