// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Identity is the 4x4 identity matrix.
var Identity = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// RTGeometry is one triangle mesh inside a bottom level structure.
type RTGeometry struct {
	VertexBuffer Buffer
	VertexFormat gputypes.VertexFormat
	VertexStride uint64
	IndexBuffer  Buffer
	IndexFormat  gputypes.IndexFormat
	Transform    f32.Mat4
}

// Validate checks the geometry buffers and formats.
func (g RTGeometry) Validate() error {
	if g.VertexBuffer == nil || g.IndexBuffer == nil {
		return fmt.Errorf("%w: geometry needs vertex and index buffers", ErrInvalidDescription)
	}
	if g.VertexFormat != gputypes.VertexFormatFloat32x3 {
		return fmt.Errorf("%w: geometry vertex format %s, want Float32x3", ErrInvalidDescription, g.VertexFormat)
	}
	if g.VertexStride < g.VertexFormat.Size() {
		return fmt.Errorf("%w: geometry stride %d smaller than vertex", ErrInvalidDescription, g.VertexStride)
	}
	if g.IndexFormat != gputypes.IndexFormatUint16 && g.IndexFormat != gputypes.IndexFormatUint32 {
		return fmt.Errorf("%w: geometry index format %s", ErrInvalidDescription, g.IndexFormat)
	}
	if g.IndexBuffer.Size()%uint64(g.IndexFormat.Size()*3) != 0 {
		return fmt.Errorf("%w: index buffer does not hold whole triangles", ErrInvalidDescription)
	}
	return nil
}

// RTGeometryInstance places a bottom level structure in a top level one.
type RTGeometryInstance struct {
	BLAS      BottomLevelAS
	Transform f32.Mat4

	// CustomInstanceID is reported to hit shaders as the instance index.
	CustomInstanceID uint32

	// HitMask is ANDed with the ray mask; zero makes the instance invisible.
	HitMask uint8

	ShaderBindingTableOffset uint32
}

// Validate checks the instance.
func (i RTGeometryInstance) Validate() error {
	if i.BLAS == nil {
		return fmt.Errorf("%w: instance without BLAS", ErrInvalidDescription)
	}
	if i.CustomInstanceID >= 1<<24 {
		return fmt.Errorf("%w: custom instance id %d exceeds 24 bits", ErrInvalidDescription, i.CustomInstanceID)
	}
	if i.ShaderBindingTableOffset >= 1<<24 {
		return fmt.Errorf("%w: sbt offset %d exceeds 24 bits", ErrInvalidDescription, i.ShaderBindingTableOffset)
	}
	return nil
}
