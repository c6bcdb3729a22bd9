// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// Dispatcher is a gpucontext.EventSource driven by method calls instead
// of a window system. Headless backends expose one so hosts and tests can
// inject input.
type Dispatcher struct {
	gpucontext.NullEventSource

	mu           sync.Mutex
	keyPress     []func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease   []func(gpucontext.Key, gpucontext.Modifiers)
	mouseMove    []func(x, y float64)
	mousePress   []func(gpucontext.MouseButton, float64, float64)
	mouseRelease []func(gpucontext.MouseButton, float64, float64)
	scroll       []func(dx, dy float64)
	resize       []func(w, h int)
}

var _ gpucontext.EventSource = (*Dispatcher)(nil)

func (d *Dispatcher) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	d.mu.Lock()
	d.keyPress = append(d.keyPress, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	d.mu.Lock()
	d.keyRelease = append(d.keyRelease, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) OnMouseMove(fn func(x, y float64)) {
	d.mu.Lock()
	d.mouseMove = append(d.mouseMove, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	d.mu.Lock()
	d.mousePress = append(d.mousePress, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	d.mu.Lock()
	d.mouseRelease = append(d.mouseRelease, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) OnScroll(fn func(dx, dy float64)) {
	d.mu.Lock()
	d.scroll = append(d.scroll, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) OnResize(fn func(w, h int)) {
	d.mu.Lock()
	d.resize = append(d.resize, fn)
	d.mu.Unlock()
}

// PressKey delivers a key press.
func (d *Dispatcher) PressKey(key gpucontext.Key, mods gpucontext.Modifiers) {
	for _, fn := range snapshot(d, &d.keyPress) {
		fn(key, mods)
	}
}

// ReleaseKey delivers a key release.
func (d *Dispatcher) ReleaseKey(key gpucontext.Key, mods gpucontext.Modifiers) {
	for _, fn := range snapshot(d, &d.keyRelease) {
		fn(key, mods)
	}
}

// MoveMouse delivers a cursor move.
func (d *Dispatcher) MoveMouse(x, y float64) {
	for _, fn := range snapshot(d, &d.mouseMove) {
		fn(x, y)
	}
}

// PressButton delivers a mouse button press.
func (d *Dispatcher) PressButton(b gpucontext.MouseButton, x, y float64) {
	for _, fn := range snapshot(d, &d.mousePress) {
		fn(b, x, y)
	}
}

// ReleaseButton delivers a mouse button release.
func (d *Dispatcher) ReleaseButton(b gpucontext.MouseButton, x, y float64) {
	for _, fn := range snapshot(d, &d.mouseRelease) {
		fn(b, x, y)
	}
}

// ScrollBy delivers a scroll.
func (d *Dispatcher) ScrollBy(dx, dy float64) {
	for _, fn := range snapshot(d, &d.scroll) {
		fn(dx, dy)
	}
}

// Resize delivers a window resize.
func (d *Dispatcher) Resize(w, h int) {
	for _, fn := range snapshot(d, &d.resize) {
		fn(w, h)
	}
}

func snapshot[F any](d *Dispatcher, fns *[]F) []F {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]F(nil), (*fns)...)
}
