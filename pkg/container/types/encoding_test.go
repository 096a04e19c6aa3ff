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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSlice(t *testing.T) {
	vals := []int64{1, -2, 3, -4}
	raw := EncodeSlice(vals)
	require.Equal(t, 32, len(raw))

	back := DecodeSlice[int64](raw)
	require.Equal(t, vals, back)

	// both directions alias the same memory
	back[2] = 42
	require.Equal(t, int64(42), vals[2])

	require.Nil(t, EncodeSlice([]int32(nil)))
	require.Nil(t, DecodeSlice[int32](nil))
}

func TestDecodeSliceMisaligned(t *testing.T) {
	require.Panics(t, func() {
		DecodeSlice[int64](make([]byte, 12))
	})
}

func TestEncodeDecodeType(t *testing.T) {
	typ := NewTimestamp(UnitNanosecond)
	raw := EncodeType(&typ)
	require.Equal(t, TSize, len(raw))
	require.True(t, DecodeType(raw).Eq(typ))
}

func TestEncodeDecodeFixed(t *testing.T) {
	require.Equal(t, float64(3.5), DecodeFixed[float64](EncodeFixed(3.5)))
	require.Equal(t, Date(19000), DecodeFixed[Date](EncodeFixed(Date(19000))))
	require.Equal(t, true, DecodeFixed[bool](EncodeFixed(true)))
}
