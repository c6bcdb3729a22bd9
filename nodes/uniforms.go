// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// GPU side structs. Every field is a vec4 or mat4 so the Go layout equals
// the WGSL uniform layout. Matrices are stored column major.

type cameraUniform struct {
	WorldFromView      f32.Mat4
	ViewFromWorld      f32.Mat4
	ProjectionFromView f32.Mat4
	ViewFromProjection f32.Mat4
	Position           f32.Vec4
	// Params holds near, far, aspect ratio and vertical field of view.
	Params f32.Vec4
}

type directionalLightUniform struct {
	// Color holds the linear color in rgb and illuminance in w.
	Color                    f32.Vec4
	WorldDirection           f32.Vec4
	LightProjectionFromWorld f32.Mat4
}

type environmentUniform struct {
	Ambient f32.Vec4
	// Multiplier is in x.
	Multiplier f32.Vec4
}

type objectUniform struct {
	WorldFromLocal    f32.Mat4
	WorldFromTangent  f32.Mat4
	BaseColor         f32.Vec4
	Emissive          f32.Vec4
	MetallicRoughness f32.Vec4
}

// rtVertex is the storage buffer vertex read by closest hit shaders.
type rtVertex struct {
	Position f32.Vec4
	Normal   f32.Vec4
	TexCoord f32.Vec4
}

// rtMesh indexes the per mesh buffers and texture array.
type rtMesh struct {
	ObjectID  int32
	BaseColor int32
}

// uniformBuffer creates a host updated uniform buffer sized for T.
func uniformBuffer[T any](reg *framegraph.Registry) (gpu.Buffer, error) {
	var zero T
	return reg.CreateBuffer(uint64(binary.Size(zero)),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst, gpu.MemoryHintTransferOptimal)
}

// upload writes v to the start of buf. Failures are recorded on cmds.
func upload(cmds *gpu.CommandList, buf gpu.Buffer, v any) {
	data, err := binary.Append(nil, binary.LittleEndian, v)
	if err == nil {
		err = buf.Update(0, data)
	}
	cmds.Fail(err)
}

// mat3to4 widens a normal matrix to a mat4 with an empty fourth row and
// column.
func mat3to4(m f32.Mat3) f32.Mat4 {
	return f32.Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		0, 0, 0, 1,
	}
}

func vec4(v f32.Vec3, w float32) f32.Vec4 { return f32.Vec4{v[0], v[1], v[2], w} }

func newCameraUniform(c *scene.Camera, extent gpu.Extent2D) cameraUniform {
	aspect := extent.AspectRatio()
	view := c.View()
	proj := c.Projection(aspect)
	worldFromView, _ := scene.Inverse(view)
	viewFromProj, _ := scene.Inverse(proj)
	return cameraUniform{
		WorldFromView:      scene.Transpose(worldFromView),
		ViewFromWorld:      scene.Transpose(view),
		ProjectionFromView: scene.Transpose(proj),
		ViewFromProjection: scene.Transpose(viewFromProj),
		Position:           vec4(c.Position(), 1),
		Params:             f32.Vec4{c.Near, c.Far, aspect, c.FovY},
	}
}

func newObjectUniform(m *scene.Mesh, factors materialFactors) objectUniform {
	return objectUniform{
		WorldFromLocal:    scene.Transpose(m.Transform.World()),
		WorldFromTangent:  scene.Transpose(mat3to4(m.Transform.WorldNormal())),
		BaseColor:         factors.baseColor,
		Emissive:          vec4(factors.emissive, 0),
		MetallicRoughness: f32.Vec4{factors.metallic, factors.roughness, 0, 0},
	}
}
