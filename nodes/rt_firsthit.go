// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// RTFirstHit traces one primary ray per pixel against the scene structure
// and writes the base color of the first surface hit, or the environment,
// to "image".
type RTFirstHit struct {
	scene   *scene.Scene
	objects gpu.BindingSet
}

// NewRTFirstHit returns a first hit node for s.
func NewRTFirstHit(s *scene.Scene) *RTFirstHit { return &RTFirstHit{scene: s} }

func (n *RTFirstHit) Name() string        { return RTFirstHitName }
func (n *RTFirstHit) DisplayName() string { return "RT First Hit" }

func (n *RTFirstHit) ConstructNode(reg *framegraph.Registry) error {
	if err := requireRayTracing(reg); err != nil {
		return err
	}
	var err error
	n.objects, err = buildRTObjectData(reg, newRTLayout(n.scene).modelMeshes())
	return err
}

func (n *RTFirstHit) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	image, err := reg.CreateTexture2D(reg.WindowRenderTarget().Extent(),
		gputypes.TextureFormatRGBA16Float, gpu.TextureUsageStorageAndSample)
	if err != nil {
		return nil, err
	}
	if err := reg.Publish("image", image); err != nil {
		return nil, err
	}

	timeBuf, err := uniformBuffer[float32](reg)
	if err != nil {
		return nil, err
	}
	envMap, err := environmentMap(reg)
	if err != nil {
		return nil, err
	}
	envSet, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.TextureBinding(0, gpu.ShaderStageRTMiss, envMap),
	})
	if err != nil {
		return nil, err
	}

	tlas, err := reg.RequireTopLevelAccelerationStructure(RTAccelerationStructuresName, "scene")
	if err != nil {
		return nil, err
	}
	cameraBuf, err := reg.RequireBuffer(SceneName, "camera")
	if err != nil {
		return nil, err
	}
	frameSet, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.AccelerationStructureBinding(0, gpu.ShaderStageRTRayGen, tlas),
		gpu.StorageImageBinding(1, gpu.ShaderStageRTRayGen, image),
		gpu.UniformBinding(2, gpu.ShaderStageRTRayGen, cameraBuf),
		gpu.UniformBinding(3, gpu.ShaderStageRTMiss, timeBuf),
	})
	if err != nil {
		return nil, err
	}

	sbt := gpu.ShaderBindingTable{
		RayGen:    gpu.NewShaderFile("rt-firsthit/raygen.rgen.wgsl"),
		HitGroups: []gpu.HitGroup{{ClosestHit: gpu.NewShaderFile("rt-firsthit/closestHit.rchit.wgsl")}},
		Miss:      []gpu.ShaderFile{gpu.NewShaderFile("rt-firsthit/miss.rmiss.wgsl")},
	}
	state, err := reg.CreateRayTracingState(sbt, []gpu.BindingSet{frameSet, n.objects, envSet}, 1)
	if err != nil {
		return nil, err
	}

	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		cmds.SetRayTracingState(state)
		cmds.BindSet(frameSet, 0)
		upload(cmds, timeBuf, float32(frame.ElapsedTime))
		cmds.BindSet(n.objects, 1)
		cmds.BindSet(envSet, 2)
		cmds.TraceRays(frame.WindowExtent.Min(image.Extent()))
	}, nil
}
