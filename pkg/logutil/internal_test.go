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

package logutil

import (
	"path/filepath"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogConfig_getter(t *testing.T) {
	tests := []struct {
		name        string
		cfg         LogConfig
		wantLevel   zap.AtomicLevel
		wantOpts    []zap.Option
		wantSyncer  zapcore.WriteSyncer
		wantEncoder zapcore.Encoder
	}{
		{
			name:        "console",
			cfg:         LogConfig{Level: "debug", Format: "console"},
			wantLevel:   zap.NewAtomicLevelAt(zap.DebugLevel),
			wantOpts:    []zap.Option{zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller()},
			wantSyncer:  getConsoleSyncer(),
			wantEncoder: getLoggerEncoder("console"),
		},
		{
			name:        "defaults",
			cfg:         LogConfig{},
			wantLevel:   zap.NewAtomicLevelAt(zap.InfoLevel),
			wantOpts:    []zap.Option{zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller()},
			wantSyncer:  getConsoleSyncer(),
			wantEncoder: getLoggerEncoder("console"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantLevel, tt.cfg.getLevel())
			require.Equal(t, len(tt.wantOpts), len(tt.cfg.getOptions()))
			require.Equal(t, tt.wantSyncer, tt.cfg.getSyncer())

			entry := zapcore.Entry{Level: zapcore.DebugLevel, Message: "msg"}
			wantMsg, _ := tt.wantEncoder.EncodeEntry(entry, nil)
			gotMsg, _ := tt.cfg.getEncoder().EncodeEntry(entry, nil)
			require.Equal(t, wantMsg.String(), gotMsg.String())
			require.Equal(t, 1, len(tt.cfg.getSinks()))
		})
	}
}

func TestLogConfig_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devec.log")
	cfg := LogConfig{Level: "info", Format: "json", Filename: path, MaxSize: 1}
	require.NotEqual(t, getConsoleSyncer(), cfg.getSyncer())

	logger := newLogger(&cfg)
	logger.Info("hello", zap.Int("rows", 4))
	require.NoError(t, logger.Sync())
	require.FileExists(t, path)
}

func TestUnknownFormatPanics(t *testing.T) {
	require.Panics(t, func() {
		getLoggerEncoder("xml")
	})
	cfg := LogConfig{Format: "xml"}
	require.Panics(t, func() {
		cfg.getEncoder()
	})
}

func TestUnknownLevelPanics(t *testing.T) {
	cfg := LogConfig{Level: "loud"}
	require.Panics(t, func() {
		cfg.getLevel()
	})
}

func TestSetupLogger(t *testing.T) {
	defer leaktest.AfterTest(t)()
	SetupLogger(&LogConfig{Level: "debug", Format: "console"})
	require.NotNil(t, GetGlobalLogger())
	require.NotNil(t, GetSkip1Logger())
	require.True(t, GetGlobalLogger().Core().Enabled(zapcore.DebugLevel))

	// last configuration wins
	SetupLogger(&LogConfig{Level: "error", Format: "json"})
	require.False(t, GetGlobalLogger().Core().Enabled(zapcore.InfoLevel))

	// the package level API routes through the global logger
	Error("an error users should see")

	SetupLogger(&LogConfig{})
}

func TestGlobalLoggerLazyDefault(t *testing.T) {
	require.NotNil(t, GetGlobalLogger())
	Info("lazy default logger works")
}
