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

// Package stats derives per column metadata from views: row and null
// counts, an approximate distinct count and the NULL row set. It is a
// read-only consumer of the column family and dispatches over the type
// id the way every kernel is expected to.
package stats

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/devec/pkg/container/types"
)

// ColumnStats describes one column view.
type ColumnStats struct {
	Typ  types.Type
	Rows types.SizeType

	// Nulls comes from the column's lazy null count protocol.
	Nulls types.SizeType

	// DistinctCount approximates the number of distinct valid values
	// with a hyperloglog sketch; NULLs do not count.
	DistinctCount uint64

	// NullRows holds the view relative NULL positions.
	NullRows *roaring.Bitmap
}

// TableStats describes a table view, one entry per column.
type TableStats struct {
	Rows types.SizeType
	Cols []ColumnStats
}
