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

// Package bitmap implements a bitset packed into 32-bit words. The word
// width is part of the exposed surface of the engine: validity masks are
// exchanged with host bindings as []uint32.
package bitmap

// WordBits is the number of bits per mask word.
const WordBits = 32

// Bitmap is a fixed capacity bitset over []uint32. It either owns its
// words or aliases words handed to InitWithWords; it never grows. The
// scan methods assume the trailing bits of the last word past len are
// zero, which every mutator here maintains.
type Bitmap struct {
	len  int
	data []uint32
}

// Iterator iterates the positions of the set bits in ascending order.
type Iterator interface {
	HasNext() bool
	PeekNext() int
	Next() int
}

type BitmapIterator struct {
	bm      *Bitmap
	i       int
	hasNext bool
}

// WordsFor returns the number of mask words covering rows bits.
func WordsFor(rows int) int {
	return (rows + WordBits - 1) / WordBits
}
