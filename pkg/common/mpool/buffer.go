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

package mpool

// Buffer owns one contiguous device allocation together with the resource
// it came from. Ownership moves with Move, never by assignment; copying
// happens only through the explicit Dup. A freed or moved-from Buffer has
// Size 0 and nil Bytes and may be freed again safely.
type Buffer struct {
	data []byte
	res  MemResource
}

// NewBuffer allocates a zeroed buffer of nbytes from res. A nil res uses
// the process default resource.
func NewBuffer(res MemResource, nbytes int) (*Buffer, error) {
	if res == nil {
		res = Default()
	}
	data, err := res.Allocate(nbytes)
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data, res: res}, nil
}

func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

func (b *Buffer) Resource() MemResource {
	if b == nil {
		return nil
	}
	return b.res
}

// Free returns the memory to the originating resource. Free is
// idempotent: the first call releases, later calls are no-ops.
func (b *Buffer) Free() {
	if b == nil || b.data == nil {
		return
	}
	b.res.Deallocate(b.data)
	b.data = nil
}

// Move transfers ownership into a fresh Buffer and leaves the receiver
// empty and safely freeable.
func (b *Buffer) Move() *Buffer {
	nb := &Buffer{data: b.data, res: b.res}
	b.data = nil
	return nb
}

// Dup copies the contents into a new allocation on res; a nil res copies
// onto the receiver's own resource. The two buffers never alias.
func (b *Buffer) Dup(res MemResource) (*Buffer, error) {
	if res == nil {
		res = b.res
	}
	nb, err := NewBuffer(res, len(b.data))
	if err != nil {
		return nil, err
	}
	copy(nb.data, b.data)
	return nb, nil
}
