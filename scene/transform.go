// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "golang.org/x/image/math/f32"

// Transform places an object relative to an optional parent.
type Transform struct {
	Local  f32.Mat4
	Parent *Transform
}

// NewTransform returns an identity transform without parent.
func NewTransform() Transform {
	return Transform{Local: Identity()}
}

// TRS returns a transform built from translation, rotation around Y in
// radians and scale, applied in the order scale, rotate, translate.
func TRS(translation f32.Vec3, rotationY float32, scale f32.Vec3) Transform {
	return Transform{Local: Mul(Translation(translation), Mul(RotationY(rotationY), Scaling(scale)))}
}

// World returns the local matrix composed with every parent.
func (t *Transform) World() f32.Mat4 {
	m := t.Local
	for p := t.Parent; p != nil; p = p.Parent {
		m = Mul(p.Local, m)
	}
	return m
}

// WorldNormal returns the matrix transforming normals to world space.
func (t *Transform) WorldNormal() f32.Mat3 {
	return NormalMatrix(t.World())
}
