// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

// loggerTargets are backends that receive the logger on SetLogger.
var (
	loggerTargetsMu sync.Mutex
	loggerTargets   []loggerSetter
)

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for framegraph and every backend a
// graph has been created with. By default nothing is logged.
//
// Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: resource creation, per-frame statistics
//   - [slog.LevelInfo]: lifecycle events (setup complete, backend opened)
//   - [slog.LevelWarn]: non-fatal issues (cache flag mismatch, release errors)
//   - [slog.LevelError]: setup failures
//
// Example:
//
//	framegraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	loggerTargetsMu.Lock()
	targets := append([]loggerSetter(nil), loggerTargets...)
	loggerTargetsMu.Unlock()
	for _, t := range targets {
		t.SetLogger(l)
	}
}

// Logger returns the current logger. Sub-packages call this to share the
// same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the current logger to b if it accepts one and
// remembers b for later SetLogger calls.
func propagateLogger(b any) {
	ls, ok := b.(loggerSetter)
	if !ok {
		return
	}
	ls.SetLogger(Logger())

	loggerTargetsMu.Lock()
	defer loggerTargetsMu.Unlock()
	for _, t := range loggerTargets {
		if t == ls {
			return
		}
	}
	loggerTargets = append(loggerTargets, ls)
}

// forgetLogger stops propagating the logger to b.
func forgetLogger(b any) {
	ls, ok := b.(loggerSetter)
	if !ok {
		return
	}
	loggerTargetsMu.Lock()
	defer loggerTargetsMu.Unlock()
	for i, t := range loggerTargets {
		if t == ls {
			loggerTargets = append(loggerTargets[:i], loggerTargets[i+1:]...)
			return
		}
	}
}
