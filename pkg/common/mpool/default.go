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

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/logutil"
)

// The process default resource follows an explicit lifecycle: install with
// InitDefault (or let the first Default call install an unlimited device
// resource), use, then TeardownDefault after the last container is freed.
// After teardown the default is never revived implicitly; only another
// explicit InitDefault may start a new cycle.
var (
	defaultMu       sync.Mutex
	defaultResource MemResource
	defaultTorndown bool
)

// InitDefault installs res as the process default resource. It fails with
// ErrInvalidState once a default is in place, including the lazily
// installed one.
func InitDefault(res MemResource) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultResource != nil {
		return dverr.NewInvalidState("default memory resource already initialized")
	}
	defaultResource = res
	defaultTorndown = false
	logutil.Infof("default memory resource: %s", res.Name())
	return nil
}

// Default returns the process default resource. On a process that never
// called InitDefault it installs an unlimited DeviceResource, exactly
// once. Calling it after TeardownDefault is a lifecycle violation and
// panics.
func Default() MemResource {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultTorndown {
		panic(dverr.NewInvalidState("default memory resource used after teardown"))
	}
	if defaultResource == nil {
		defaultResource = NewDeviceResource("device-default", 0)
		logutil.Info("default memory resource lazily installed")
	}
	return defaultResource
}

// TeardownDefault drops the default resource. Pooled resources are closed
// so retained blocks go back upstream.
func TeardownDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if c, ok := defaultResource.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if defaultResource != nil {
		logutil.Infof("default memory resource %s torn down", defaultResource.Name())
	}
	defaultResource = nil
	defaultTorndown = true
}
