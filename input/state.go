// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input tracks keyboard and mouse state between frames.
//
// A State is fed by a gpucontext.EventSource and read by render nodes
// through the frame context. Edge-triggered queries (WasKeyPressed,
// WasKeyReleased) report events since the last BeginFrame.
package input

import (
	"sync"

	"github.com/gogpu/gpucontext"
)

// State is a snapshot of input devices. Event callbacks may arrive on a
// different goroutine than the frame loop, so all access is locked.
type State struct {
	mu sync.Mutex

	down     map[gpucontext.Key]bool
	pressed  map[gpucontext.Key]bool
	released map[gpucontext.Key]bool
	mods     gpucontext.Modifiers

	buttons map[gpucontext.MouseButton]bool

	mouseX, mouseY           float64
	frameMouseX, frameMouseY float64
	scrollX, scrollY         float64
}

// NewState returns a State with nothing pressed.
func NewState() *State {
	return &State{
		down:     make(map[gpucontext.Key]bool),
		pressed:  make(map[gpucontext.Key]bool),
		released: make(map[gpucontext.Key]bool),
		buttons:  make(map[gpucontext.MouseButton]bool),
	}
}

// Attach registers the state's callbacks on src.
func (s *State) Attach(src gpucontext.EventSource) {
	src.OnKeyPress(s.KeyPress)
	src.OnKeyRelease(s.KeyRelease)
	src.OnMouseMove(s.MouseMove)
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) { s.MouseButton(b, true, x, y) })
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) { s.MouseButton(b, false, x, y) })
	src.OnScroll(s.Scroll)
}

// BeginFrame clears per-frame edges. Call it once per frame before
// events for that frame are delivered.
func (s *State) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.pressed)
	clear(s.released)
	s.scrollX, s.scrollY = 0, 0
	s.frameMouseX, s.frameMouseY = s.mouseX, s.mouseY
}

// KeyPress records key going down.
func (s *State) KeyPress(key gpucontext.Key, mods gpucontext.Modifiers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.down[key] {
		s.pressed[key] = true
	}
	s.down[key] = true
	s.mods = mods
}

// KeyRelease records key going up.
func (s *State) KeyRelease(key gpucontext.Key, mods gpucontext.Modifiers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down[key] {
		s.released[key] = true
	}
	delete(s.down, key)
	s.mods = mods
}

// MouseMove records the cursor position in window coordinates.
func (s *State) MouseMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseX, s.mouseY = x, y
}

// MouseButton records a button press or release at x, y.
func (s *State) MouseButton(b gpucontext.MouseButton, down bool, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons[b] = down
	s.mouseX, s.mouseY = x, y
}

// Scroll accumulates scroll offsets for the frame.
func (s *State) Scroll(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollX += dx
	s.scrollY += dy
}

// IsKeyDown reports whether key is held.
func (s *State) IsKeyDown(key gpucontext.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.down[key]
}

// WasKeyPressed reports whether key went down this frame.
func (s *State) WasKeyPressed(key gpucontext.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressed[key]
}

// WasKeyReleased reports whether key went up this frame.
func (s *State) WasKeyReleased(key gpucontext.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released[key]
}

// Modifiers returns the modifiers of the last key event.
func (s *State) Modifiers() gpucontext.Modifiers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mods
}

// IsButtonDown reports whether mouse button b is held.
func (s *State) IsButtonDown(b gpucontext.MouseButton) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[b]
}

// MousePosition returns the cursor position.
func (s *State) MousePosition() (x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseX, s.mouseY
}

// MouseDelta returns cursor movement since BeginFrame.
func (s *State) MouseDelta() (dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mouseX - s.frameMouseX, s.mouseY - s.frameMouseY
}

// ScrollDelta returns scrolling since BeginFrame.
func (s *State) ScrollDelta() (dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollX, s.scrollY
}
