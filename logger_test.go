// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/framegraph/backend/headless"
)

func TestNopHandler(t *testing.T) {
	var h slog.Handler = nopHandler{}
	ctx := context.Background()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	derived := []slog.Handler{
		h.WithAttrs([]slog.Attr{slog.Int("frame", 1)}),
		h.WithGroup("graph"),
	}
	for _, d := range derived {
		if _, ok := d.(nopHandler); !ok {
			t.Errorf("derived handler = %T, want nopHandler", d)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger is enabled, want silent")
	}

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if got := Logger(); got != custom {
		t.Errorf("Logger() = %p, want %p", got, custom)
	}
	Logger().Debug("graph: setup", "nodes", 3)
	if !strings.Contains(buf.String(), "nodes=3") {
		t.Errorf("log output = %q, want nodes=3", buf.String())
	}

	SetLogger(nil)
	if l := Logger(); l == nil || l.Enabled(context.Background(), slog.LevelError) {
		t.Errorf("SetLogger(nil) left an enabled logger")
	}
}

func TestSetLoggerPropagatesToBackend(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	b := headless.New(headless.Config{})
	g := New(b)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := b.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if !strings.Contains(buf.String(), "headless: closed") {
		t.Errorf("backend did not log through the propagated logger, got: %q", buf.String())
	}
	_ = g.Close()
}

func TestNewPropagatesCurrentLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	// The graph must hand the current logger to the backend on creation.
	b := headless.New(headless.Config{})
	g := New(b)
	_ = g.Close()
	_ = b.Close()

	if !strings.Contains(buf.String(), "headless: closed") {
		t.Errorf("backend created after SetLogger did not receive it, got: %q", buf.String())
	}
}

func TestCloseStopsPropagation(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	b := headless.New(headless.Config{})
	g := New(b)
	_ = g.Close()

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	_ = b.Close()

	if buf.Len() != 0 {
		t.Errorf("closed graph still propagated the logger, got: %q", buf.String())
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	b := headless.New(headless.Config{})
	g := New(b)
	defer b.Close()
	defer g.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("frame")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}
