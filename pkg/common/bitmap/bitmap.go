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

package bitmap

import (
	"fmt"
	"math/bits"
)

func New() Bitmap {
	return Bitmap{}
}

func (n *Bitmap) InitWith(other *Bitmap) {
	n.len = other.len
	n.data = append([]uint32(nil), other.data...)
}

// InitWithSize allocates a zeroed bitmap of len bits on the Go heap.
// Device resident masks go through InitWithWords instead.
func (n *Bitmap) InitWithSize(len int) {
	n.len = len
	n.data = make([]uint32, WordsFor(len))
}

// InitWithWords views len bits over caller owned words without copying.
// The caller keeps the words alive for the life of the bitmap.
func (n *Bitmap) InitWithWords(words []uint32, len int) {
	n.len = len
	n.data = words
}

func (n *Bitmap) Clone() *Bitmap {
	if n == nil {
		return nil
	}
	var ret Bitmap
	ret.InitWith(n)
	return &ret
}

func (n *Bitmap) Reset() {
	n.len = 0
	n.data = nil
}

// Len returns the number of bits in the Bitmap.
func (n *Bitmap) Len() int {
	return n.len
}

// Size returns the number of bytes in n.data.
func (n *Bitmap) Size() int {
	return len(n.data) * 4
}

// Words exposes the backing words. Mutating them directly bypasses the
// trailing bit discipline; callers own the consequences.
func (n *Bitmap) Words() []uint32 {
	if n == nil {
		return nil
	}
	return n.data
}

// IsEmpty returns true if no bit in the Bitmap is set.
func (n *Bitmap) IsEmpty() bool {
	for i := 0; i < len(n.data); i++ {
		if n.data[i] != 0 {
			return false
		}
	}
	return true
}

// Add sets bit row. The bitmap must already cover row.
func (n *Bitmap) Add(row int) {
	n.data[row>>5] |= 1 << (row & 0x1F)
}

func (n *Bitmap) AddMany(rows []int) {
	for _, row := range rows {
		n.data[row>>5] |= 1 << (row & 0x1F)
	}
}

func (n *Bitmap) Remove(row int) {
	if row < 0 || row >= n.len {
		return
	}
	n.data[row>>5] &^= uint32(1) << (row & 0x1F)
}

// Contains returns true if bit row is set.
func (n *Bitmap) Contains(row int) bool {
	if row < 0 || row >= n.len {
		return false
	}
	return (n.data[row>>5] & (1 << (row & 0x1F))) != 0
}

// AddRange sets the bits in [start, end).
func (n *Bitmap) AddRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > n.len {
		end = n.len
	}
	if start >= end {
		return
	}
	i, j := start>>5, (end-1)>>5
	if i == j {
		n.data[i] |= (^uint32(0) << uint(start&0x1F)) & (^uint32(0) >> (uint(-end) & 0x1F))
		return
	}
	n.data[i] |= ^uint32(0) << uint(start&0x1F)
	for k := i + 1; k < j; k++ {
		n.data[k] = ^uint32(0)
	}
	n.data[j] |= ^uint32(0) >> (uint(-end) & 0x1F)
}

// RemoveRange clears the bits in [start, end).
func (n *Bitmap) RemoveRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > n.len {
		end = n.len
	}
	if start >= end {
		return
	}
	i, j := start>>5, (end-1)>>5
	if i == j {
		n.data[i] &= ^((^uint32(0) << uint(start&0x1F)) & (^uint32(0) >> (uint(-end) & 0x1F)))
		return
	}
	n.data[i] &= ^(^uint32(0) << uint(start&0x1F))
	for k := i + 1; k < j; k++ {
		n.data[k] = 0
	}
	n.data[j] &= ^(^uint32(0) >> (uint(-end) & 0x1F))
}

func (n *Bitmap) IsSame(m *Bitmap) bool {
	if len(m.data) != len(n.data) {
		return false
	}
	for i := 0; i < len(n.data); i++ {
		if n.data[i] != m.data[i] {
			return false
		}
	}
	return true
}

// Or unions m into n over the words both cover. Bitmaps over device
// buffers have fixed capacity, so no expansion happens here.
func (n *Bitmap) Or(m *Bitmap) {
	size := len(m.data)
	if size > len(n.data) {
		size = len(n.data)
	}
	for i := 0; i < size; i++ {
		n.data[i] |= m.data[i]
	}
}

// And intersects m into n; words of n past m are cleared.
func (n *Bitmap) And(m *Bitmap) {
	size := len(m.data)
	if size > len(n.data) {
		size = len(n.data)
	}
	for i := 0; i < size; i++ {
		n.data[i] &= m.data[i]
	}
	for i := size; i < len(n.data); i++ {
		n.data[i] = 0
	}
}

// Negate flips every bit in [0, len), keeping the trailing bits zero.
func (n *Bitmap) Negate() {
	nBlock, nTail := n.len/WordBits, n.len%WordBits
	for i := 0; i < nBlock; i++ {
		n.data[i] = ^n.data[i]
	}
	if nTail > 0 {
		mask := (uint32(1) << nTail) - 1
		n.data[nBlock] ^= mask
	}
}

// Count returns the number of set bits.
func (n *Bitmap) Count() int {
	if n == nil || len(n.data) == 0 {
		return 0
	}
	return n.CountRange(0, n.len)
}

// CountRange returns the number of set bits in [start, end), masking the
// partial boundary words.
func (n *Bitmap) CountRange(start, end int) int {
	if start < 0 {
		start = 0
	}
	if end > n.len {
		end = n.len
	}
	if start >= end {
		return 0
	}
	i, j := start>>5, (end-1)>>5
	if i == j {
		word := n.data[i] & (^uint32(0) << uint(start&0x1F)) & (^uint32(0) >> (uint(-end) & 0x1F))
		return bits.OnesCount32(word)
	}
	cnt := bits.OnesCount32(n.data[i] & (^uint32(0) << uint(start&0x1F)))
	for k := i + 1; k < j; k++ {
		cnt += bits.OnesCount32(n.data[k])
	}
	cnt += bits.OnesCount32(n.data[j] & (^uint32(0) >> (uint(-end) & 0x1F)))
	return cnt
}

func (n *Bitmap) Iterator() Iterator {
	itr := BitmapIterator{bm: n}
	if pos, ok := itr.seek(0); ok {
		itr.i = pos
		itr.hasNext = true
	}
	return &itr
}

// seek finds the first set bit at or after position from.
func (itr *BitmapIterator) seek(from int) (int, bool) {
	if from >= itr.bm.len {
		return 0, false
	}
	w := from >> 5
	word := itr.bm.data[w] & (^uint32(0) << uint(from&0x1F))
	for {
		if word != 0 {
			pos := w*WordBits + bits.TrailingZeros32(word)
			if pos >= itr.bm.len {
				return 0, false
			}
			return pos, true
		}
		w++
		if w >= len(itr.bm.data) {
			return 0, false
		}
		word = itr.bm.data[w]
	}
}

func (itr *BitmapIterator) HasNext() bool {
	return itr.hasNext
}

func (itr *BitmapIterator) PeekNext() int {
	return itr.i
}

func (itr *BitmapIterator) Next() int {
	pos := itr.i
	if next, ok := itr.seek(pos + 1); ok {
		itr.i = next
	} else {
		itr.hasNext = false
	}
	return pos
}

// ToArray returns the positions of the set bits, ready for row set
// consumers that speak uint32.
func (n *Bitmap) ToArray() []uint32 {
	var rows []uint32
	if n == nil || len(n.data) == 0 {
		return rows
	}
	itr := n.Iterator()
	for itr.HasNext() {
		rows = append(rows, uint32(itr.Next()))
	}
	return rows
}

func (n *Bitmap) String() string {
	return fmt.Sprintf("%v", n.ToArray())
}
