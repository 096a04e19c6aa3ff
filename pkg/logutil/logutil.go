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

// Package logutil owns the process-wide zap logger: configuration,
// rotation, and the package level logging API the engine uses.
package logutil

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the global logger.
type LogConfig struct {
	// Level is the minimum enabled level: debug, info, warn, error,
	// dpanic, panic, fatal. Empty means info.
	Level string `toml:"level"`
	// Format is console or json. Empty means console.
	Format string `toml:"format"`
	// Filename, when set, routes output to a rotated file instead of
	// stderr.
	Filename string `toml:"filename"`
	// MaxSize is the size in MB a log file may reach before rotation.
	MaxSize int `toml:"max-size"`
	// MaxDays is how many days rotated files are retained; 0 keeps all.
	MaxDays int `toml:"max-days"`
	// MaxBackups is how many rotated files are retained; 0 keeps all.
	MaxBackups int `toml:"max-backups"`
}

// ZapSink pairs an encoder with the syncer it writes to.
type ZapSink struct {
	enc zapcore.Encoder
	out zapcore.WriteSyncer
}

func (cfg *LogConfig) getLevel() zap.AtomicLevel {
	level := zap.NewAtomicLevel()
	if cfg.Level == "" {
		level.SetLevel(zapcore.InfoLevel)
		return level
	}
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		panic(fmt.Sprintf("unknown log level %q: %v", cfg.Level, err))
	}
	return level
}

func (cfg *LogConfig) getOptions() []zap.Option {
	return []zap.Option{zap.AddStacktrace(zapcore.FatalLevel), zap.AddCaller()}
}

func (cfg *LogConfig) getSyncer() zapcore.WriteSyncer {
	if cfg.Filename != "" {
		return getLumberjackSyncer(cfg.Filename, cfg.MaxSize, cfg.MaxDays, cfg.MaxBackups)
	}
	return getConsoleSyncer()
}

func (cfg *LogConfig) getEncoder() zapcore.Encoder {
	format := cfg.Format
	if format == "" {
		format = "console"
	}
	return getLoggerEncoder(format)
}

func (cfg *LogConfig) getSinks() []ZapSink {
	return []ZapSink{{cfg.getEncoder(), cfg.getSyncer()}}
}

func getConsoleSyncer() zapcore.WriteSyncer {
	return zapcore.Lock(os.Stderr)
}

func getLumberjackSyncer(filename string, maxSize, maxDays, maxBackups int) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSize,
		MaxAge:     maxDays,
		MaxBackups: maxBackups,
		LocalTime:  true,
	})
}

func getLoggerEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		return zapcore.NewConsoleEncoder(encoderConfig)
	default:
		panic(fmt.Sprintf("unsupported log format: %s", format))
	}
}

var (
	globalLogger atomic.Value // *loggers
	setupOnce    sync.Mutex
)

type loggers struct {
	logger *zap.Logger
	skip1  *zap.Logger
}

// SetupLogger builds the global logger from cfg. Later calls replace the
// earlier logger; the last configuration wins.
func SetupLogger(cfg *LogConfig) {
	setupOnce.Lock()
	defer setupOnce.Unlock()
	replaceGlobalLogger(newLogger(cfg))
}

func newLogger(cfg *LogConfig) *zap.Logger {
	level := cfg.getLevel()
	cores := make([]zapcore.Core, 0, 1)
	for _, sink := range cfg.getSinks() {
		cores = append(cores, zapcore.NewCore(sink.enc, sink.out, level))
	}
	return zap.New(zapcore.NewTee(cores...), cfg.getOptions()...)
}

func replaceGlobalLogger(logger *zap.Logger) {
	globalLogger.Store(&loggers{
		logger: logger,
		skip1:  logger.WithOptions(zap.AddCallerSkip(1)),
	})
}

func getLoggers() *loggers {
	if l, ok := globalLogger.Load().(*loggers); ok {
		return l
	}
	setupOnce.Lock()
	defer setupOnce.Unlock()
	if l, ok := globalLogger.Load().(*loggers); ok {
		return l
	}
	replaceGlobalLogger(newLogger(&LogConfig{}))
	return globalLogger.Load().(*loggers)
}

// GetGlobalLogger returns the process logger, building a console logger at
// info level on first use if SetupLogger has not run.
func GetGlobalLogger() *zap.Logger {
	return getLoggers().logger
}

// GetSkip1Logger is GetGlobalLogger with one caller frame skipped, for the
// package level wrappers in api.go.
func GetSkip1Logger() *zap.Logger {
	return getLoggers().skip1
}
