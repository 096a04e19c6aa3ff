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

package stream

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/logutil"
)

var (
	poolMu        sync.Mutex
	pool          *ants.Pool
	poolReleased  bool
	defaultStream *Stream
)

// Init sizes the process-wide drainer pool. Call it before the first
// Submit; initializing twice fails with ErrInvalidState. Without Init the
// first Submit installs a NumCPU sized pool.
func Init(workers int) error {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		return dverr.NewInvalidState("stream pool already initialized")
	}
	p, err := newPool(workers)
	if err != nil {
		return err
	}
	pool = p
	poolReleased = false
	return nil
}

func newPool(workers int) (*ants.Pool, error) {
	p, err := ants.NewPool(workers, ants.WithPanicHandler(func(v interface{}) {
		logutil.Errorf("stream drainer panic: %v", v)
	}))
	if err != nil {
		return nil, dverr.NewBadConfig("stream pool of %d workers: %v", workers, err)
	}
	logutil.Infof("stream pool started with %d workers", workers)
	return p, nil
}

// workerPool returns the drainer pool, lazily installing one on a process
// that never called Init. After Release it returns nil until the next
// Init; streams then drain inline.
func workerPool() *ants.Pool {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool == nil && !poolReleased {
		pool, _ = newPool(runtime.NumCPU())
	}
	return pool
}

// Default returns the process default stream, creating it on first use or
// after it was closed.
func Default() *Stream {
	poolMu.Lock()
	defer poolMu.Unlock()
	if defaultStream == nil || defaultStream.closed.Load() {
		defaultStream = New("default")
	}
	return defaultStream
}

// Release closes the default stream and stops the drainer pool. Streams
// submitted to afterwards fall back to inline draining until somebody
// calls Init again, so Release is safe to call at process shutdown while
// stray streams are still around.
func Release() {
	poolMu.Lock()
	ds := defaultStream
	defaultStream = nil
	poolMu.Unlock()

	if ds != nil && !ds.closed.Load() {
		_ = ds.Close()
	}

	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		pool.Release()
		pool = nil
		logutil.Infof("stream pool released")
	}
	poolReleased = true
}
