// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "golang.org/x/image/math/f32"

// DirectionalLight is a light infinitely far away, such as the sun.
type DirectionalLight struct {
	// Direction points from the light into the scene.
	Direction   f32.Vec3
	Color       f32.Vec3
	Illuminance float32
}

// DefaultSun returns a white sun shining down at an angle.
func DefaultSun() DirectionalLight {
	return DirectionalLight{
		Direction:   Normalize(f32.Vec3{-0.3, -1, -0.2}),
		Color:       f32.Vec3{1, 1, 1},
		Illuminance: 5,
	}
}

// ViewProjection returns the matrix the shadow map renders with. It
// covers a sphere of radius around center.
func (l DirectionalLight) ViewProjection(center f32.Vec3, radius float32) f32.Mat4 {
	dir := Normalize(l.Direction)
	eye := Sub(center, ScaleVec(dir, 2*radius))
	up := f32.Vec3{0, 1, 0}
	if Length(Cross(dir, up)) < 1e-4 {
		up = f32.Vec3{0, 0, 1}
	}
	view := LookAt(eye, center, up)
	proj := Orthographic(-radius, radius, -radius, radius, 0, 4*radius)
	return Mul(proj, view)
}
