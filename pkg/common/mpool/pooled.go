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

import (
	"sync"

	"github.com/google/btree"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/logutil"
)

// PooledResource caches freed blocks in front of an upstream resource.
// Allocate takes the smallest cached block that fits before going
// upstream; Deallocate returns blocks to the cache until the retention
// cap, then releases them upstream. Pooling trades worst case latency for
// fewer device allocations; it changes no allocation semantics.
type PooledResource struct {
	name     string
	upstream MemResource
	retain   int64 // retained byte cap; <= 0 retains without bound

	mu   sync.Mutex
	tree *btree.BTree
	held int64
	seq  uint64

	stats Stats
}

var _ MemResource = new(PooledResource)

// freeBlock is a cached block keyed by size; seq breaks ties so equal
// sized blocks coexist in the tree.
type freeBlock struct {
	size int
	seq  uint64
	buf  []byte
}

func (b *freeBlock) Less(than btree.Item) bool {
	o := than.(*freeBlock)
	if b.size != o.size {
		return b.size < o.size
	}
	return b.seq < o.seq
}

// NewPooledResource wraps upstream with a block cache. A nil upstream
// uses the process default resource. retain caps the bytes the pool may
// hold onto; <= 0 means no cap.
func NewPooledResource(name string, upstream MemResource, retain int64) *PooledResource {
	if upstream == nil {
		upstream = Default()
	}
	p := &PooledResource{
		name:     name,
		upstream: upstream,
		retain:   retain,
		tree:     btree.New(2),
	}
	logutil.Infof("memory pool %s created over %s, retain %d", name, upstream.Name(), retain)
	return p
}

func (p *PooledResource) Name() string {
	return p.name
}

func (p *PooledResource) Stats() *Stats {
	return &p.stats
}

// CurrNB returns the bytes held by callers, not counting cached blocks.
func (p *PooledResource) CurrNB() int64 {
	return p.stats.NumCurrBytes.Load()
}

// HeldNB returns the bytes cached in the free list.
func (p *PooledResource) HeldNB() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held
}

func (p *PooledResource) Allocate(nbytes int) ([]byte, error) {
	if nbytes < 0 {
		return nil, dverr.NewInvalidInput("allocate %d bytes", nbytes)
	}
	if nbytes == 0 {
		return nil, nil
	}

	p.mu.Lock()
	var hit *freeBlock
	p.tree.AscendGreaterOrEqual(&freeBlock{size: nbytes}, func(i btree.Item) bool {
		hit = i.(*freeBlock)
		return false
	})
	if hit != nil {
		p.tree.Delete(hit)
		p.held -= int64(hit.size)
	}
	p.mu.Unlock()

	if hit != nil {
		buf := hit.buf[:nbytes]
		for i := range buf {
			buf[i] = 0
		}
		p.stats.RecordAlloc(int64(nbytes))
		return buf, nil
	}

	buf, err := p.upstream.Allocate(nbytes)
	if err != nil {
		return nil, err
	}
	p.stats.RecordAlloc(int64(nbytes))
	return buf, nil
}

func (p *PooledResource) Deallocate(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	full := buf[:cap(buf)]
	p.stats.RecordFree(int64(len(buf)))

	p.mu.Lock()
	if p.retain > 0 && p.held+int64(len(full)) > p.retain {
		p.mu.Unlock()
		p.upstream.Deallocate(full)
		return
	}
	p.seq++
	p.tree.ReplaceOrInsert(&freeBlock{size: len(full), seq: p.seq, buf: full})
	p.held += int64(len(full))
	p.mu.Unlock()
}

// Close drains the free list back upstream. Close runs after the last
// user is done; blocks still held by callers must be deallocated first.
func (p *PooledResource) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.tree.Len() > 0 {
		blk := p.tree.DeleteMin().(*freeBlock)
		p.upstream.Deallocate(blk.buf)
	}
	p.held = 0
	logutil.Infof("memory pool %s closed, %s", p.name, p.stats.Report())
	return nil
}
