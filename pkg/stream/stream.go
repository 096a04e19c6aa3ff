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

// Package stream provides execution streams, the ordering tokens of the
// data model. Operations submitted to one stream run asynchronously in
// issue order; operations on different streams are unordered relative to
// each other. Sync is the only deliberate blocking point.
//
// Each stream owns a lock-free FIFO ring; execution happens on a process
// wide worker pool, with at most one drainer task per stream at any time,
// which is what preserves issue order without per-op locking.
package stream

import (
	"runtime"
	"sync"
	"sync/atomic"

	queue "github.com/yireyun/go-queue"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/logutil"
)

const ringSize = 8192

// Stream is an ordered, asynchronous op queue.
type Stream struct {
	name string
	ring *queue.EsQueue

	pending  atomic.Int64
	draining atomic.Int32
	closed   atomic.Bool

	mu   sync.Mutex
	cond *sync.Cond
}

// New creates a stream. The name only shows up in logs.
func New(name string) *Stream {
	s := &Stream{
		name: name,
		ring: queue.NewQueue(ringSize),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *Stream) Name() string {
	return s.name
}

// Pending reports ops submitted but not yet finished.
func (s *Stream) Pending() int64 {
	return s.pending.Load()
}

// Submit enqueues op. Ops on this stream before op run before it; Submit
// itself never waits for execution, though it spins briefly when the ring
// is full. Submitting to a closed stream fails with ErrInvalidState.
func (s *Stream) Submit(op func()) error {
	if op == nil {
		return dverr.NewInvalidInput("nil op")
	}
	if s.closed.Load() {
		return dverr.NewInvalidState("stream " + s.name + " is closed")
	}
	s.pending.Add(1)
	for {
		if ok, _ := s.ring.Put(op); ok {
			break
		}
		runtime.Gosched()
	}
	s.schedule()
	return nil
}

// Sync blocks until every op submitted so far has finished.
func (s *Stream) Sync() {
	s.mu.Lock()
	for s.pending.Load() > 0 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Close drains the stream and retires it: later Submit and Close calls
// fail with ErrInvalidState. A Submit racing Close may still win the flag
// check; its op completes before Close returns.
func (s *Stream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return dverr.NewInvalidState("stream " + s.name + " is closed")
	}
	s.Sync()
	logutil.Infof("stream %s closed", s.name)
	return nil
}

// schedule makes sure a drainer is running. The flag admits exactly one;
// an already-running drainer will see the new op on its next ring poll.
func (s *Stream) schedule() {
	if !s.draining.CompareAndSwap(0, 1) {
		return
	}
	p := workerPool()
	if p == nil {
		// pool released; draining inline keeps the stream live at the
		// caller's expense
		s.drain()
		return
	}
	if err := p.Submit(s.drain); err != nil {
		s.drain()
	}
}

func (s *Stream) drain() {
	for {
		for {
			item, ok, _ := s.ring.Get()
			if !ok {
				break
			}
			s.runOp(item.(func()))
		}
		s.draining.Store(0)
		// an op may have slipped in after the last empty poll; whoever
		// wins the flag back drains it
		if s.ring.Quantity() == 0 || !s.draining.CompareAndSwap(0, 1) {
			return
		}
	}
}

func (s *Stream) runOp(op func()) {
	defer func() {
		if r := recover(); r != nil {
			logutil.Errorf("stream %s op panic: %v", s.name, r)
		}
		if s.pending.Add(-1) == 0 {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		}
	}()
	op()
}
