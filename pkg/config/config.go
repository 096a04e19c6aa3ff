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

// Package config loads engine configuration from toml and drives the
// process level setup and teardown sequence built from it.
package config

import (
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/devec/pkg/common/dverr"
	"github.com/matrixorigin/devec/pkg/common/mpool"
	"github.com/matrixorigin/devec/pkg/logutil"
	"github.com/matrixorigin/devec/pkg/stream"
)

// EngineConfig holds everything needed to bring the engine up.
type EngineConfig struct {
	// DeviceCapacity caps what the device resource may hold in bytes.
	// 0 means unlimited.
	DeviceCapacity int64 `toml:"device-capacity"`

	// EnablePooling layers a caching resource over the device resource,
	// so freed buffers are handed out again instead of going back to the
	// device.
	EnablePooling bool `toml:"enable-pooling"`

	// PoolRetain caps the bytes the pooling layer keeps around. 0 retains
	// without bound. Ignored unless EnablePooling is set.
	PoolRetain int64 `toml:"pool-retain"`

	// StreamWorkers sizes the stream drainer pool. 0 means one worker
	// per CPU.
	StreamWorkers int `toml:"stream-workers"`

	Log logutil.LogConfig `toml:"log"`
}

// ParseEngineConfig decodes a toml document.
func ParseEngineConfig(data string) (*EngineConfig, error) {
	cfg := &EngineConfig{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, dverr.NewBadConfig("parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEngineConfig reads and decodes a toml file.
func LoadEngineConfig(file string) (*EngineConfig, error) {
	cfg := &EngineConfig{}
	if _, err := toml.DecodeFile(file, cfg); err != nil {
		return nil, dverr.NewBadConfig("load config %s: %v", file, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values Setup cannot act on.
func (cfg *EngineConfig) Validate() error {
	if cfg.DeviceCapacity < 0 {
		return dverr.NewBadConfig("device capacity %d is negative", cfg.DeviceCapacity)
	}
	if cfg.PoolRetain < 0 {
		return dverr.NewBadConfig("pool retain %d is negative", cfg.PoolRetain)
	}
	if cfg.StreamWorkers < 0 {
		return dverr.NewBadConfig("stream workers %d is negative", cfg.StreamWorkers)
	}
	return nil
}

// Setup brings the engine up: logging first so the rest can log, then the
// default memory resource, then the stream drainer pool. It fails with
// ErrInvalidState when a default resource or drainer pool is already
// installed; nothing set up earlier in the sequence is rolled back on
// failure, Teardown handles that.
func Setup(cfg *EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logutil.SetupLogger(&cfg.Log)

	var res mpool.MemResource = mpool.NewDeviceResource("device", cfg.DeviceCapacity)
	if cfg.EnablePooling {
		res = mpool.NewPooledResource("device-pool", res, cfg.PoolRetain)
	}
	if err := mpool.InitDefault(res); err != nil {
		return err
	}

	workers := cfg.StreamWorkers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if err := stream.Init(workers); err != nil {
		return err
	}
	logutil.Info("engine up")
	return nil
}

// Teardown unwinds Setup: streams drain and stop before the memory they
// touch goes away.
func Teardown() {
	stream.Release()
	mpool.TeardownDefault()
	logutil.Info("engine down")
}
