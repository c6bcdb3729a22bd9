// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "golang.org/x/image/math/f32"

// face is one axis aligned quad of a primitive.
type face struct {
	normal, tangent, bitangent f32.Vec3
}

var cubeFaces = [...]face{
	{f32.Vec3{1, 0, 0}, f32.Vec3{0, 0, -1}, f32.Vec3{0, 1, 0}},
	{f32.Vec3{-1, 0, 0}, f32.Vec3{0, 0, 1}, f32.Vec3{0, 1, 0}},
	{f32.Vec3{0, 1, 0}, f32.Vec3{1, 0, 0}, f32.Vec3{0, 0, -1}},
	{f32.Vec3{0, -1, 0}, f32.Vec3{1, 0, 0}, f32.Vec3{0, 0, 1}},
	{f32.Vec3{0, 0, 1}, f32.Vec3{1, 0, 0}, f32.Vec3{0, 1, 0}},
	{f32.Vec3{0, 0, -1}, f32.Vec3{-1, 0, 0}, f32.Vec3{0, 1, 0}},
}

// appendQuad adds a counter clockwise quad of half extent h centred at
// f.normal*offset.
func (m *Mesh) appendQuad(f face, offset, h float32) {
	base := uint32(len(m.Positions))
	center := ScaleVec(f.normal, offset)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, c := range corners {
		p := Add(center, Add(ScaleVec(f.tangent, c[0]*h), ScaleVec(f.bitangent, c[1]*h)))
		m.Positions = append(m.Positions, p)
		m.Normals = append(m.Normals, f.normal)
		m.TexCoords = append(m.TexCoords, f32.Vec2{(c[0] + 1) / 2, (1 - c[1]) / 2})
		m.Tangents = append(m.Tangents, f32.Vec4{f.tangent[0], f.tangent[1], f.tangent[2], 1})
	}
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Cube returns an axis aligned cube with edge length size centred at the
// origin. Each face has its own four vertices.
func Cube(size float32) *Mesh {
	m := &Mesh{Name: "cube", Transform: NewTransform()}
	for _, f := range cubeFaces {
		m.appendQuad(f, size/2, size/2)
	}
	return m
}

// Plane returns a size x size quad in the XZ plane facing +Y.
func Plane(size float32) *Mesh {
	m := &Mesh{Name: "plane", Transform: NewTransform()}
	m.appendQuad(cubeFaces[2], 0, size/2)
	return m
}
