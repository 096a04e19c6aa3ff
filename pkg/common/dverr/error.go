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

// Package dverr defines the coded errors raised by the device vector
// engine. Every contract violation in the data model maps to exactly one
// code; errors are reported synchronously at the violated boundary and are
// never retried or swallowed inside the engine.
package dverr

import (
	"fmt"
	"math"
)

const (
	// 0 - 99 is OK. These do not carry info and are never materialized
	// as an Error instance.
	Ok    uint16 = 0
	OkMax uint16 = 99

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102
	ErrOOM      uint16 = 20103

	// Group 2: data model contract violations
	ErrSizeMismatch     uint16 = 20200
	ErrRowCountMismatch uint16 = 20201
	ErrUnsupportedType  uint16 = 20202
	ErrNullMaskRequired uint16 = 20203
	ErrSizeOverflow     uint16 = 20204

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301

	// Group 4: unexpected state
	ErrInvalidState uint16 = 20400

	// Group 5: execution errors. Reserved for compute kernels layered on
	// top of this module; nothing in the data model raises it.
	ErrExecution uint16 = 20500

	// ErrEnd is the upper fence of the code space.
	ErrEnd uint16 = 65535
)

var errorMsgRefer = map[uint16]string{
	ErrInternal:         "internal error: %s",
	ErrNYI:              "%s is not yet implemented",
	ErrOOM:              "out of memory, cannot allocate %d bytes from %s",
	ErrSizeMismatch:     "%s size mismatch, need %d, got %d",
	ErrRowCountMismatch: "row count mismatch, %d vs %d",
	ErrUnsupportedType:  "unsupported type %s",
	ErrNullMaskRequired: "null mask required: %s",
	ErrSizeOverflow:     "size %d exceeds the maximum row count %d",
	ErrBadConfig:        "invalid configuration: %s",
	ErrInvalidInput:     "invalid input: %s",
	ErrInvalidState:     "invalid state %s",
	ErrExecution:        "execution error: %s",
}

// Error is the only error type the engine returns. The code identifies the
// violated contract; the message carries the specifics.
type Error struct {
	code    uint16
	message string
}

func newError(code uint16, args ...any) *Error {
	format, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError("undefined error code %d", code))
	}
	if len(args) == 0 {
		return &Error{code: code, message: format}
	}
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

// Is reports code equality, so errors.Is can match any two instances of
// the same contract violation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

// IsErrCode reports whether e is an engine error carrying code rc.
// A nil error matches Ok.
func IsErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	me, ok := e.(*Error)
	if !ok {
		// not an engine error
		return false
	}
	return me.code == rc
}

func NewInternalError(msg string, args ...any) *Error {
	return newError(ErrInternal, fmt.Sprintf(msg, args...))
}

func NewNYI(msg string, args ...any) *Error {
	return newError(ErrNYI, fmt.Sprintf(msg, args...))
}

// NewOOM reports an allocation failure of nbytes on the named resource.
// Fatal to the operation, never to the process.
func NewOOM(nbytes int, resource string) *Error {
	return newError(ErrOOM, nbytes, resource)
}

// NewSizeMismatch reports a buffer whose byte size disagrees with what the
// column type and row count require. what names the offending buffer.
func NewSizeMismatch(what string, need, got int64) *Error {
	return newError(ErrSizeMismatch, what, need, got)
}

func NewRowCountMismatch(a, b int64) *Error {
	return newError(ErrRowCountMismatch, a, b)
}

func NewUnsupportedType(name string) *Error {
	return newError(ErrUnsupportedType, name)
}

func NewNullMaskRequired(op string) *Error {
	return newError(ErrNullMaskRequired, op)
}

// NewSizeOverflow reports row count or index arithmetic past the 32-bit
// signed bound.
func NewSizeOverflow(n int64) *Error {
	return newError(ErrSizeOverflow, n, math.MaxInt32)
}

func NewBadConfig(msg string, args ...any) *Error {
	return newError(ErrBadConfig, fmt.Sprintf(msg, args...))
}

func NewInvalidInput(msg string, args ...any) *Error {
	return newError(ErrInvalidInput, fmt.Sprintf(msg, args...))
}

func NewInvalidState(msg string, args ...any) *Error {
	return newError(ErrInvalidState, fmt.Sprintf(msg, args...))
}

func NewExecutionError(msg string, args ...any) *Error {
	return newError(ErrExecution, fmt.Sprintf(msg, args...))
}
