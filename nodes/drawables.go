// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// drawable is one mesh with its GPU buffers and per object binding set.
type drawable struct {
	mesh       *scene.Mesh
	vertices   gpu.Buffer
	indices    gpu.Buffer
	indexCount uint32
	object     gpu.Buffer
	factors    materialFactors
	set        gpu.BindingSet
}

// buildDrawables uploads every mesh of s. The binding set of each
// drawable holds the object uniform at binding 0 and, when withMaterials
// is set, the material textures at bindings 1 to 4.
func buildDrawables(reg *framegraph.Registry, s *scene.Scene, withMaterials bool) ([]drawable, error) {
	var (
		out []drawable
		err error
	)
	s.ForEachMesh(func(_ int, m *scene.Mesh) {
		if err != nil {
			return
		}
		var d drawable
		d, err = newDrawable(reg, m, withMaterials)
		out = append(out, d)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func newDrawable(reg *framegraph.Registry, m *scene.Mesh, withMaterials bool) (drawable, error) {
	if err := m.Validate(); err != nil {
		return drawable{}, err
	}
	d := drawable{mesh: m, indexCount: uint32(len(m.Indices))}

	var err error
	d.vertices, err = framegraph.CreateBufferFromSlice(reg, m.Vertices(), gputypes.BufferUsageVertex, gpu.MemoryHintGpuOptimal)
	if err != nil {
		return d, err
	}
	d.indices, err = framegraph.CreateBufferFromSlice(reg, m.Indices, gputypes.BufferUsageIndex, gpu.MemoryHintGpuOptimal)
	if err != nil {
		return d, err
	}
	if d.object, err = uniformBuffer[objectUniform](reg); err != nil {
		return d, err
	}

	stages := gpu.ShaderStageVertex | gpu.ShaderStageFragment
	bindings := []gpu.ShaderBinding{gpu.UniformBinding(0, stages, d.object)}
	if withMaterials {
		tex, factors, err := loadMaterial(reg, m.Material)
		if err != nil {
			return d, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		d.factors = factors
		bindings = append(bindings,
			gpu.TextureBinding(1, gpu.ShaderStageFragment, tex.baseColor),
			gpu.TextureBinding(2, gpu.ShaderStageFragment, tex.normal),
			gpu.TextureBinding(3, gpu.ShaderStageFragment, tex.metallicRoughness),
			gpu.TextureBinding(4, gpu.ShaderStageFragment, tex.emissive),
		)
	}
	d.set, err = reg.CreateBindingSet(bindings)
	return d, err
}

// layout returns the binding sets a render state over ds is created with:
// the frame set followed by a representative object set.
func layout(frame gpu.BindingSet, ds []drawable) []gpu.BindingSet {
	sets := []gpu.BindingSet{frame}
	if len(ds) > 0 {
		sets = append(sets, ds[0].set)
	}
	return sets
}

// drawAll updates each object uniform and draws it with its set bound at
// index 1.
func drawAll(cmds *gpu.CommandList, ds []drawable) {
	for i := range ds {
		d := &ds[i]
		upload(cmds, d.object, newObjectUniform(d.mesh, d.factors))
		cmds.BindSet(d.set, 1)
		cmds.BindVertexBuffer(d.vertices)
		cmds.BindIndexBuffer(d.indices, scene.IndexFormat)
		cmds.DrawIndexed(d.indexCount)
	}
}
