// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// RTAccelerationStructures builds one bottom level structure per mesh and
// publishes two top level structures: "scene" over every model mesh and
// "proxy" over each model's proxy, or the model itself when it has none.
// The custom instance ID of every instance is the mesh's object ID in the
// ray tracing object data.
type RTAccelerationStructures struct {
	scene *scene.Scene

	sceneTLAS gpu.TopLevelAS
	proxyTLAS gpu.TopLevelAS
}

// NewRTAccelerationStructures returns the node for s.
func NewRTAccelerationStructures(s *scene.Scene) *RTAccelerationStructures {
	return &RTAccelerationStructures{scene: s}
}

func (n *RTAccelerationStructures) Name() string        { return RTAccelerationStructuresName }
func (n *RTAccelerationStructures) DisplayName() string { return "RT Acceleration Structures" }

func (n *RTAccelerationStructures) ConstructNode(reg *framegraph.Registry) error {
	if err := requireRayTracing(reg); err != nil {
		return err
	}
	l := newRTLayout(n.scene)
	if l.models == 0 {
		return ErrEmptyScene
	}

	instances := make([]gpu.RTGeometryInstance, len(l.meshes))
	for i, m := range l.meshes {
		blas, err := meshBLAS(reg, m)
		if err != nil {
			return err
		}
		instances[i] = gpu.RTGeometryInstance{
			BLAS:             blas,
			Transform:        parentWorld(m),
			CustomInstanceID: uint32(i),
			HitMask:          0xff,
		}
	}

	var err error
	n.sceneTLAS, err = reg.CreateTopLevelAccelerationStructure(instances[:l.models])
	if err != nil {
		return err
	}
	proxyInstances := make([]gpu.RTGeometryInstance, len(l.proxy))
	for i, idx := range l.proxy {
		proxyInstances[i] = instances[idx]
	}
	n.proxyTLAS, err = reg.CreateTopLevelAccelerationStructure(proxyInstances)
	return err
}

// ConstructFrame publishes the structures. Nothing is recorded per frame;
// the structures are static.
func (n *RTAccelerationStructures) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	if err := reg.Publish("scene", n.sceneTLAS); err != nil {
		return nil, err
	}
	if err := reg.Publish("proxy", n.proxyTLAS); err != nil {
		return nil, err
	}
	return nil, nil
}

// meshBLAS builds a structure over m's triangles in model space.
func meshBLAS(reg *framegraph.Registry, m *scene.Mesh) (gpu.BottomLevelAS, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	positions, err := framegraph.CreateBufferFromSlice(reg, m.Positions,
		gputypes.BufferUsageVertex|gputypes.BufferUsageStorage, gpu.MemoryHintGpuOptimal)
	if err != nil {
		return nil, err
	}
	indices, err := framegraph.CreateBufferFromSlice(reg, m.Indices,
		gputypes.BufferUsageIndex|gputypes.BufferUsageStorage, gpu.MemoryHintGpuOptimal)
	if err != nil {
		return nil, err
	}
	return reg.CreateBottomLevelAccelerationStructure([]gpu.RTGeometry{{
		VertexBuffer: positions,
		VertexFormat: gputypes.VertexFormatFloat32x3,
		VertexStride: gputypes.VertexFormatFloat32x3.Size(),
		IndexBuffer:  indices,
		IndexFormat:  scene.IndexFormat,
		Transform:    m.Transform.Local,
	}})
}

// parentWorld returns the world transform of the model owning m.
func parentWorld(m *scene.Mesh) f32.Mat4 {
	if m.Transform.Parent == nil {
		return scene.Identity()
	}
	return m.Transform.Parent.World()
}
