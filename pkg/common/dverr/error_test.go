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

package dverr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	cases := []struct {
		err  *Error
		code uint16
	}{
		{NewInternalError("boom"), ErrInternal},
		{NewNYI("decimal columns"), ErrNYI},
		{NewOOM(1024, "device"), ErrOOM},
		{NewSizeMismatch("data buffer", 400, 396), ErrSizeMismatch},
		{NewRowCountMismatch(5, 4), ErrRowCountMismatch},
		{NewUnsupportedType("T(255)"), ErrUnsupportedType},
		{NewNullMaskRequired("SetValid"), ErrNullMaskRequired},
		{NewSizeOverflow(1 << 40), ErrSizeOverflow},
		{NewBadConfig("negative capacity"), ErrBadConfig},
		{NewInvalidInput("window [3, 1)"), ErrInvalidInput},
		{NewInvalidState("stream closed"), ErrInvalidState},
		{NewExecutionError("kernel fault"), ErrExecution},
	}
	for _, c := range cases {
		require.Equal(t, c.code, c.err.ErrorCode())
		require.True(t, IsErrCode(c.err, c.code))
		require.NotEmpty(t, c.err.Error())
	}
}

func TestErrorMessage(t *testing.T) {
	e := NewOOM(4096, "device")
	require.Equal(t, "out of memory, cannot allocate 4096 bytes from device", e.Error())

	e = NewSizeMismatch("null mask", 8, 4)
	require.Equal(t, "null mask size mismatch, need 8, got 4", e.Error())

	e = NewRowCountMismatch(5, 4)
	require.Equal(t, "row count mismatch, 5 vs 4", e.Error())
}

func TestIsErrCode(t *testing.T) {
	require.True(t, IsErrCode(nil, Ok))
	require.False(t, IsErrCode(nil, ErrOOM))
	require.False(t, IsErrCode(fmt.Errorf("plain"), ErrOOM))
	require.False(t, IsErrCode(NewOOM(1, "device"), ErrInternal))
	require.True(t, IsErrCode(NewOOM(1, "device"), ErrOOM))
}

func TestErrorsIs(t *testing.T) {
	err := NewRowCountMismatch(3, 7)
	require.True(t, errors.Is(err, NewRowCountMismatch(0, 0)))
	require.False(t, errors.Is(err, NewInternalError("x")))

	var de *Error
	require.True(t, errors.As(err, &de))
	require.Equal(t, ErrRowCountMismatch, de.ErrorCode())
}

func TestUndefinedCodePanics(t *testing.T) {
	require.Panics(t, func() {
		newError(ErrEnd)
	})
}
