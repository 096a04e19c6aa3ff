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

// Package mpool owns device memory: the pluggable resource abstraction,
// the mmap backed device resource, a pooling resource that caches freed
// blocks, and the Buffer type every container allocates through.
package mpool

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/logutil"
)

// MemResource allocates and frees device memory. Implementations must be
// safe for concurrent use by independent goroutines.
//
// Allocate returns a zeroed block of exactly nbytes, or ErrOutOfMemory;
// it never retries internally. Deallocate takes the block exactly as
// Allocate returned it. Allocation failure is fatal to the operation,
// never to the process.
type MemResource interface {
	Allocate(nbytes int) ([]byte, error)
	Deallocate(buf []byte)
	Name() string
}

// Stats is the allocation accounting every resource carries.
type Stats struct {
	NumAlloc      atomic.Int64
	NumFree       atomic.Int64
	NumCurrBytes  atomic.Int64
	HighWaterMark atomic.Int64
}

// RecordAlloc accounts one allocation of sz bytes and returns the current
// outstanding byte count after it.
func (s *Stats) RecordAlloc(sz int64) int64 {
	s.NumAlloc.Add(1)
	curr := s.NumCurrBytes.Add(sz)
	for {
		hwm := s.HighWaterMark.Load()
		if curr <= hwm || s.HighWaterMark.CompareAndSwap(hwm, curr) {
			break
		}
	}
	return curr
}

// RecordFree accounts one free of sz bytes.
func (s *Stats) RecordFree(sz int64) int64 {
	s.NumFree.Add(1)
	return s.NumCurrBytes.Add(-sz)
}

func (s *Stats) Report() string {
	return fmt.Sprintf("alloc %d, free %d, curr bytes %d, high water mark %d",
		s.NumAlloc.Load(), s.NumFree.Load(), s.NumCurrBytes.Load(), s.HighWaterMark.Load())
}

// DeviceResource hands out accelerator resident blocks. Memory comes from
// anonymous mmap, off the Go heap, so blocks behave like device
// allocations: fixed address, no GC, explicit free. Accounting is in
// requested bytes; the kernel rounds to pages underneath.
type DeviceResource struct {
	name  string
	cap   int64 // 0 means unlimited
	stats Stats
}

var _ MemResource = new(DeviceResource)

// NewDeviceResource creates a resource with a byte capacity limit;
// capacity 0 means unlimited.
func NewDeviceResource(name string, capacity int64) *DeviceResource {
	d := &DeviceResource{name: name, cap: capacity}
	logutil.Infof("device resource %s created, capacity %d", name, capacity)
	return d
}

func (d *DeviceResource) Name() string {
	return d.name
}

func (d *DeviceResource) Cap() int64 {
	return d.cap
}

// CurrNB returns the outstanding allocated bytes.
func (d *DeviceResource) CurrNB() int64 {
	return d.stats.NumCurrBytes.Load()
}

func (d *DeviceResource) Stats() *Stats {
	return &d.stats
}

func (d *DeviceResource) Allocate(nbytes int) ([]byte, error) {
	if nbytes < 0 {
		return nil, dverr.NewInvalidInput("allocate %d bytes", nbytes)
	}
	if nbytes == 0 {
		return nil, nil
	}
	curr := d.stats.RecordAlloc(int64(nbytes))
	if d.cap > 0 && curr > d.cap {
		d.stats.RecordFree(int64(nbytes))
		logutil.Errorf("%s: out of memory, need %d bytes, curr %d, cap %d",
			d.name, nbytes, curr-int64(nbytes), d.cap)
		return nil, dverr.NewOOM(nbytes, d.name)
	}
	data, err := unix.Mmap(-1, 0, nbytes,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		d.stats.RecordFree(int64(nbytes))
		logutil.Errorf("%s: mmap %d bytes: %v", d.name, nbytes, err)
		return nil, dverr.NewOOM(nbytes, d.name)
	}
	return data, nil
}

func (d *DeviceResource) Deallocate(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	// callers may hand back a shortened view of the block; unmap the
	// whole mapping
	full := buf[:cap(buf)]
	if err := unix.Munmap(full); err != nil {
		panic(dverr.NewInternalError("%s: munmap: %v", d.name, err))
	}
	d.stats.RecordFree(int64(len(full)))
}
