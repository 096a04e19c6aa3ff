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

// Package batch implements the table family over columns: the owning
// Batch and its non-owning View and MutableView. A table is an ordered
// set of equal length columns; order is identity, there is no name based
// lookup at this layer.
package batch

import (
	"github.com/matrixorigin/devec/pkg/container/types"
	"github.com/matrixorigin/devec/pkg/container/vector"
)

// Batch owns its columns. One owner frees it exactly once; there is no
// reference counting.
//
// An empty batch has row count 0 by convention, so row count queries on
// tables with no columns stay well defined.
type Batch struct {
	// Vecs holds the columns in table order.
	Vecs []*vector.Vector

	rowCount types.SizeType
}

// View is a read-only window over a batch: one column view per column,
// all over the same row count. Views own nothing.
type View struct {
	cols     []vector.View
	rowCount types.SizeType
}

// MutableView is the writable counterpart of View.
type MutableView struct {
	cols     []vector.MutableView
	rowCount types.SizeType
}
