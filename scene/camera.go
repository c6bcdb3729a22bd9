// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gpucontext"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph/input"
)

// Camera is a first person perspective camera.
//
// Every change bumps a version counter. Nodes that accumulate over frames
// remember the version they last saw and restart when DidModify reports a
// change.
type Camera struct {
	position   f32.Vec3
	yaw, pitch float32
	version    uint64

	// FovY is the vertical field of view in radians.
	FovY      float32
	Near, Far float32

	// MoveSpeed is in units per second, LookSpeed in radians per pixel.
	MoveSpeed float32
	LookSpeed float32
}

// maxPitch keeps the camera just short of looking straight up or down.
const maxPitch = math32.Pi/2 - 0.01

// NewCamera returns a camera at position looking down -Z.
func NewCamera(position f32.Vec3) *Camera {
	return &Camera{
		position:  position,
		FovY:      Radians(60),
		Near:      0.1,
		Far:       1000,
		MoveSpeed: 4,
		LookSpeed: 0.003,
	}
}

func (c *Camera) Position() f32.Vec3 { return c.position }
func (c *Camera) Yaw() float32       { return c.yaw }
func (c *Camera) Pitch() float32     { return c.pitch }

// Version returns the modification counter.
func (c *Camera) Version() uint64 { return c.version }

// DidModify reports whether the camera changed since version.
func (c *Camera) DidModify(version uint64) bool { return c.version != version }

// SetPosition moves the camera.
func (c *Camera) SetPosition(p f32.Vec3) {
	if p != c.position {
		c.position = p
		c.version++
	}
}

// SetOrientation sets yaw and pitch in radians. Pitch is clamped.
func (c *Camera) SetOrientation(yaw, pitch float32) {
	pitch = max(-maxPitch, min(maxPitch, pitch))
	if yaw != c.yaw || pitch != c.pitch {
		c.yaw, c.pitch = yaw, pitch
		c.version++
	}
}

// Forward returns the unit view direction.
func (c *Camera) Forward() f32.Vec3 {
	sy, cy := math32.Sincos(c.yaw)
	sp, cp := math32.Sincos(c.pitch)
	return f32.Vec3{-sy * cp, sp, -cy * cp}
}

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() f32.Vec3 {
	return Normalize(Cross(c.Forward(), f32.Vec3{0, 1, 0}))
}

// View returns the world to view matrix.
func (c *Camera) View() f32.Mat4 {
	return LookAt(c.position, Add(c.position, c.Forward()), f32.Vec3{0, 1, 0})
}

// Projection returns the view to clip matrix for aspect.
func (c *Camera) Projection(aspect float32) f32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Update moves the camera from keyboard and mouse state: WASD moves,
// Space and Left Shift rise and sink, dragging with the right button
// looks around. It reports whether the camera changed.
func (c *Camera) Update(in *input.State, dt float32) bool {
	before := c.version

	var move f32.Vec3
	axis := func(pos, neg gpucontext.Key, dir f32.Vec3) {
		if in.IsKeyDown(pos) {
			move = Add(move, dir)
		}
		if in.IsKeyDown(neg) {
			move = Sub(move, dir)
		}
	}
	axis(gpucontext.KeyW, gpucontext.KeyS, c.Forward())
	axis(gpucontext.KeyD, gpucontext.KeyA, c.Right())
	axis(gpucontext.KeySpace, gpucontext.KeyLeftShift, f32.Vec3{0, 1, 0})
	if move != (f32.Vec3{}) {
		c.SetPosition(Add(c.position, ScaleVec(Normalize(move), c.MoveSpeed*dt)))
	}

	if in.IsButtonDown(gpucontext.MouseButtonRight) {
		dx, dy := in.MouseDelta()
		if dx != 0 || dy != 0 {
			c.SetOrientation(c.yaw-float32(dx)*c.LookSpeed, c.pitch-float32(dy)*c.LookSpeed)
		}
	}
	return c.version != before
}
