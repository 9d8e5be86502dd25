// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is the logging facility. It wraps zap behind a small Logger
// interface that takes alternating key/value context pairs.
package log

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scionproto/scion-trc/pkg/private/serrors"
)

// Level is the log level.
type Level zapcore.Level

// The different log levels.
const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(lvl Level) bool
}

// Setup configures the root logger according to cfg. It must be called before
// any logging happens in the process.
func Setup(cfg Config) error {
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Console.Level)); err != nil {
		return serrors.Wrap("parsing console level", err, "level", cfg.Console.Level)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoding := "json"
	if cfg.Console.Format == "human" {
		encoding = "console"
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := zCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return serrors.Wrap("creating logger", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// HandlePanic catches panics and logs them. It is meant to be deferred at the
// start of every goroutine.
func HandlePanic() {
	if msg := recover(); msg != nil {
		Root().Error("Panic", "msg", msg, "stack", string(debug.Stack()))
		Flush()
		fmt.Fprintf(os.Stderr, "panic: %v\n%s", msg, debug.Stack())
		os.Exit(255)
	}
}

// Flush writes the logs to the underlying buffer.
func Flush() {
	_ = zap.L().Sync()
}

// Root returns the root logger. It is a logger without any context.
func Root() Logger {
	return &logger{logger: zap.L()}
}

// New creates a logger with the given context.
func New(ctx ...any) Logger {
	return &logger{logger: zap.L().With(convertCtx(ctx)...)}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return &logger{logger: zap.NewNop()}
}

// Debug logs at debug level.
func Debug(msg string, ctx ...any) {
	zap.L().Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level.
func Info(msg string, ctx ...any) {
	zap.L().Info(msg, convertCtx(ctx)...)
}

// Error logs at error level.
func Error(msg string, ctx ...any) {
	zap.L().Error(msg, convertCtx(ctx)...)
}

type logger struct {
	logger *zap.Logger
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			key = fmt.Sprint(ctx[i])
		}
		fields = append(fields, zap.Any(strings.TrimSpace(key), ctx[i+1]))
	}
	return fields
}
