// Copyright 2021 Anapaya Systems
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

// Package testlog provides loggers for tests.
package testlog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scionproto/scion-trc/pkg/log"
)

// NewLogger returns a Logger that writes to t. Output is only shown for
// failing tests or with -v.
func NewLogger(t testing.TB, opts ...zaptest.LoggerOption) log.Logger {
	return wrap(zaptest.NewLogger(t, opts...))
}

// NewObserved returns a Logger that records every entry at debug level and
// above, e.g., to assert that a TRC rejection was logged.
func NewObserved() (log.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return wrap(zap.New(core)), logs
}

func wrap(l *zap.Logger) log.Logger {
	return zapLogger{l: l}
}

type zapLogger struct {
	l *zap.Logger
}

func (z zapLogger) New(ctx ...any) log.Logger {
	return zapLogger{l: z.l.With(fields(ctx)...)}
}

func (z zapLogger) Debug(msg string, ctx ...any) { z.l.Debug(msg, fields(ctx)...) }
func (z zapLogger) Info(msg string, ctx ...any)  { z.l.Info(msg, fields(ctx)...) }
func (z zapLogger) Error(msg string, ctx ...any) { z.l.Error(msg, fields(ctx)...) }

func (z zapLogger) Enabled(lvl log.Level) bool {
	return z.l.Core().Enabled(zapcore.Level(lvl))
}

// fields converts alternating key value pairs. A trailing key without a
// value is dropped.
func fields(ctx []any) []zap.Field {
	f := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			key = "BADKEY"
		}
		f = append(f, zap.Any(key, ctx[i+1]))
	}
	return f
}
