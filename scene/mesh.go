// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph/gpu"
)

// ErrInvalidMesh is returned by Mesh.Validate.
var ErrInvalidMesh = errors.New("scene: invalid mesh")

// Vertex is the interleaved vertex layout every raster node reads. It is
// 48 bytes with no padding.
type Vertex struct {
	Position f32.Vec3
	Normal   f32.Vec3
	TexCoord f32.Vec2
	Tangent  f32.Vec4
}

// VertexLayout returns the layout matching Vertex.
func VertexLayout() gpu.VertexLayout {
	return gpu.NewVertexLayout(
		gputypes.VertexFormatFloat32x3,
		gputypes.VertexFormatFloat32x3,
		gputypes.VertexFormatFloat32x2,
		gputypes.VertexFormatFloat32x4,
	)
}

// IndexFormat is the format of Mesh.Indices.
const IndexFormat = gputypes.IndexFormatUint32

// Mesh is an indexed triangle list with one material.
type Mesh struct {
	Name string

	Positions []f32.Vec3
	Normals   []f32.Vec3
	TexCoords []f32.Vec2
	Tangents  []f32.Vec4
	Indices   []uint32

	Material  *Material
	Transform Transform
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// Validate checks that attribute arrays agree and indices are in range.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	switch {
	case n == 0:
		return fmt.Errorf("%w: %q has no vertices", ErrInvalidMesh, m.Name)
	case len(m.Normals) != n, len(m.TexCoords) != n, len(m.Tangents) != n:
		return fmt.Errorf("%w: %q attribute counts differ", ErrInvalidMesh, m.Name)
	case len(m.Indices) == 0 || len(m.Indices)%3 != 0:
		return fmt.Errorf("%w: %q has %d indices", ErrInvalidMesh, m.Name, len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= n {
			return fmt.Errorf("%w: %q index %d out of range", ErrInvalidMesh, m.Name, i)
		}
	}
	return nil
}

// Vertices interleaves the attribute arrays.
func (m *Mesh) Vertices() []Vertex {
	vs := make([]Vertex, len(m.Positions))
	for i := range vs {
		vs[i] = Vertex{
			Position: m.Positions[i],
			Normal:   m.Normals[i],
			TexCoord: m.TexCoords[i],
			Tangent:  m.Tangents[i],
		}
	}
	return vs
}

// Bounds returns the world space bounding box of the mesh.
func (m *Mesh) Bounds() (lo, hi f32.Vec3) {
	world := m.Transform.World()
	for i, p := range m.Positions {
		w := TransformPoint(world, p)
		if i == 0 {
			lo, hi = w, w
			continue
		}
		for c := range 3 {
			lo[c] = min(lo[c], w[c])
			hi[c] = max(hi[c], w[c])
		}
	}
	return lo, hi
}
