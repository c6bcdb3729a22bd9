// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/framegraph/gpu"
)

func TestRegisterOpen(t *testing.T) {
	const name = "test-backend"
	var got Options
	Register(name, func(opts Options) (gpu.Backend, error) {
		got = opts
		return nil, nil
	})
	t.Cleanup(func() { Unregister(name) })

	if !IsRegistered(name) {
		t.Fatalf("IsRegistered(%q) = false after Register", name)
	}
	if _, err := Open(name, Options{Width: 64, Height: 32}); err != nil {
		t.Fatalf("Open(%q) error = %v", name, err)
	}
	if got.Width != 64 || got.Height != 32 {
		t.Errorf("factory got %dx%d, want 64x32", got.Width, got.Height)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	const name = "twice"
	f := func(Options) (gpu.Backend, error) { return nil, nil }
	Register(name, f)
	t.Cleanup(func() { Unregister(name) })

	defer func() {
		if recover() == nil {
			t.Error("second Register did not panic")
		}
	}()
	Register(name, f)
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("no-such-backend", Options{})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(unknown) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDefaultPrefersPriority(t *testing.T) {
	f := func(Options) (gpu.Backend, error) { return nil, nil }
	Register("zzz-other", f)
	Register(BackendWebGPU, f)
	t.Cleanup(func() {
		Unregister("zzz-other")
		Unregister(BackendWebGPU)
	})
	if got := Default(); got != BackendWebGPU {
		t.Errorf("Default() = %q, want %q", got, BackendWebGPU)
	}
}
