// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// RTMaxTextures is the size of the texture array closest hit shaders
// index into.
const RTMaxTextures = 256

// rtLayout fixes the order of meshes across the ray tracing nodes. Model
// meshes come first so that instance IDs of the scene structure are valid
// for both object data sets; proxy meshes follow.
type rtLayout struct {
	meshes []*scene.Mesh

	// models is the number of model meshes at the front of meshes.
	models int

	// proxy lists, per instance of the proxy structure, the mesh index.
	proxy []int
}

func newRTLayout(s *scene.Scene) rtLayout {
	var l rtLayout
	s.ForEachMesh(func(_ int, m *scene.Mesh) { l.meshes = append(l.meshes, m) })
	l.models = len(l.meshes)

	next := 0
	s.ForEachModel(func(_ int, m *scene.Model) {
		first := next
		next += len(m.Meshes)
		if m.Proxy == nil {
			for i := range m.Meshes {
				l.proxy = append(l.proxy, first+i)
			}
			return
		}
		for _, pm := range m.Proxy.Meshes {
			l.proxy = append(l.proxy, len(l.meshes))
			l.meshes = append(l.meshes, pm)
		}
	})
	return l
}

// modelMeshes returns the meshes of the scene structure.
func (l rtLayout) modelMeshes() []*scene.Mesh { return l.meshes[:l.models] }

// rtVertices converts mesh vertices to the storage layout, with normals in
// model space.
func rtVertices(m *scene.Mesh) []rtVertex {
	normal := scene.NormalMatrix(m.Transform.Local)
	out := make([]rtVertex, len(m.Positions))
	for i, p := range m.Positions {
		v := rtVertex{Position: vec4(p, 1)}
		if i < len(m.Normals) {
			v.Normal = vec4(scene.TransformNormal(normal, m.Normals[i]), 0)
		}
		if i < len(m.TexCoords) {
			v.TexCoord = f32.Vec4{m.TexCoords[i][0], m.TexCoords[i][1], 0, 0}
		}
		out[i] = v
	}
	return out
}

// buildRTObjectData uploads per mesh vertex, index and material data for
// closest hit shaders. Mesh i of meshes has object ID i.
func buildRTObjectData(reg *framegraph.Registry, meshes []*scene.Mesh) (gpu.BindingSet, error) {
	if len(meshes) == 0 {
		return nil, ErrEmptyScene
	}
	if len(meshes) > RTMaxTextures {
		return nil, fmt.Errorf("nodes: %d ray traced meshes exceed %d textures", len(meshes), RTMaxTextures)
	}

	var (
		vertexBufs = make([]gpu.Buffer, 0, len(meshes))
		indexBufs  = make([]gpu.Buffer, 0, len(meshes))
		textures   = make([]gpu.Texture, 0, len(meshes))
		infos      = make([]rtMesh, 0, len(meshes))
	)
	for i, m := range meshes {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		tex, err := baseColorTexture(reg, m.Material)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		vb, err := framegraph.CreateBufferFromSlice(reg, rtVertices(m), gputypes.BufferUsageStorage, gpu.MemoryHintGpuOptimal)
		if err != nil {
			return nil, err
		}
		ib, err := framegraph.CreateBufferFromSlice(reg, m.Indices, gputypes.BufferUsageStorage, gpu.MemoryHintGpuOptimal)
		if err != nil {
			return nil, err
		}
		vertexBufs = append(vertexBufs, vb)
		indexBufs = append(indexBufs, ib)
		infos = append(infos, rtMesh{ObjectID: int32(i), BaseColor: int32(len(textures))})
		textures = append(textures, tex)
	}

	meshBuf, err := framegraph.CreateBufferFromSlice(reg, infos, gputypes.BufferUsageStorage, gpu.MemoryHintGpuOptimal)
	if err != nil {
		return nil, err
	}
	return reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.StorageBufferBinding(0, gpu.ShaderStageRTClosestHit, meshBuf),
		gpu.BufferArrayBinding(1, gpu.ShaderStageRTClosestHit, vertexBufs),
		gpu.BufferArrayBinding(2, gpu.ShaderStageRTClosestHit, indexBufs),
		gpu.TextureArrayBinding(3, gpu.ShaderStageRTClosestHit, textures, RTMaxTextures),
	})
}
