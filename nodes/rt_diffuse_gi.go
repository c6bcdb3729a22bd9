// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// DefaultMaxSamplesPerPixel caps diffuse GI accumulation.
const DefaultMaxSamplesPerPixel = 1024

// Keys handled by RTDiffuseGI.
const (
	KeyResetAccumulation = gpucontext.KeyR
	KeyUseModels         = gpucontext.KeyO
	KeyUseProxies        = gpucontext.KeyP
)

// RTDiffuseGI accumulates one diffuse bounce per pixel and frame from the
// g-buffer surfaces and publishes the running average as "diffuseGI".
//
// Accumulation restarts when the camera moves or KeyResetAccumulation is
// held, and stops once MaxSamplesPerPixel samples were taken.
type RTDiffuseGI struct {
	scene        *scene.Scene
	objects      gpu.BindingSet
	accumulation gpu.Texture

	accumulated   int
	cameraVersion uint64

	MaxSamplesPerPixel int

	// Render disables the node entirely when false.
	Render bool

	// IgnoreColor treats every surface as white.
	IgnoreColor bool

	// UseProxies traces against proxy geometry instead of the models.
	UseProxies bool
}

// NewRTDiffuseGI returns a diffuse GI node for s.
func NewRTDiffuseGI(s *scene.Scene) *RTDiffuseGI {
	return &RTDiffuseGI{scene: s, MaxSamplesPerPixel: DefaultMaxSamplesPerPixel, Render: true}
}

func (n *RTDiffuseGI) Name() string        { return RTDiffuseGIName }
func (n *RTDiffuseGI) DisplayName() string { return "RT Diffuse GI" }

// SamplesPerPixel returns the number of samples accumulated so far.
func (n *RTDiffuseGI) SamplesPerPixel() int { return n.accumulated }

func (n *RTDiffuseGI) ConstructNode(reg *framegraph.Registry) error {
	if err := requireRayTracing(reg); err != nil {
		return err
	}
	var err error
	if n.objects, err = buildRTObjectData(reg, newRTLayout(n.scene).meshes); err != nil {
		return err
	}
	n.accumulation, err = reg.CreateTexture2D(reg.WindowRenderTarget().Extent(),
		gputypes.TextureFormatRGBA16Float, gpu.TextureUsageStorageAndSample)
	return err
}

// giState is one traceable configuration: a frame set over a top level
// structure and the pipeline using it.
type giState struct {
	frameSet gpu.BindingSet
	state    gpu.RayTracingState
}

func (n *RTDiffuseGI) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	var gbuf [3]gpu.Texture
	for i, label := range []string{"baseColor", "normal", "depth"} {
		tex, err := reg.RequireTexture(GBufferName, label)
		if err != nil {
			return nil, err
		}
		gbuf[i] = tex
	}
	var bufs [3]gpu.Buffer
	for i, label := range []string{"camera", "environmentData", "directionalLight"} {
		buf, err := reg.RequireBuffer(SceneName, label)
		if err != nil {
			return nil, err
		}
		bufs[i] = buf
	}
	envMap, err := environmentMap(reg)
	if err != nil {
		return nil, err
	}

	sbt := gpu.ShaderBindingTable{
		RayGen:    gpu.NewShaderFile("rt-diffuse-gi/raygen.rgen.wgsl"),
		HitGroups: []gpu.HitGroup{{ClosestHit: gpu.NewShaderFile("rt-diffuse-gi/closestHit.rchit.wgsl")}},
		Miss: []gpu.ShaderFile{
			gpu.NewShaderFile("rt-diffuse-gi/miss.rmiss.wgsl"),
			gpu.NewShaderFile("rt-diffuse-gi/shadow.rmiss.wgsl"),
		},
	}
	stateFor := func(label string) (giState, error) {
		tlas, err := reg.RequireTopLevelAccelerationStructure(RTAccelerationStructuresName, label)
		if err != nil {
			return giState{}, err
		}
		set, err := reg.CreateBindingSet([]gpu.ShaderBinding{
			gpu.AccelerationStructureBinding(0, gpu.ShaderStageRTRayGen|gpu.ShaderStageRTClosestHit, tlas),
			gpu.StorageImageBinding(1, gpu.ShaderStageRTRayGen, n.accumulation),
			gpu.TextureBinding(2, gpu.ShaderStageRTRayGen, gbuf[0]),
			gpu.TextureBinding(3, gpu.ShaderStageRTRayGen, gbuf[1]),
			gpu.TextureBinding(4, gpu.ShaderStageRTRayGen, gbuf[2]),
			gpu.UniformBinding(5, gpu.ShaderStageRTRayGen, bufs[0]),
			gpu.UniformBinding(6, gpu.ShaderStageRTMiss, bufs[1]),
			gpu.TextureBinding(7, gpu.ShaderStageRTMiss, envMap),
			gpu.UniformBinding(8, gpu.ShaderStageRTClosestHit, bufs[2]),
		})
		if err != nil {
			return giState{}, err
		}
		state, err := reg.CreateRayTracingState(sbt, []gpu.BindingSet{set, n.objects}, 2)
		if err != nil {
			return giState{}, err
		}
		return giState{frameSet: set, state: state}, nil
	}
	models, err := stateFor("scene")
	if err != nil {
		return nil, err
	}
	proxy, err := stateFor("proxy")
	if err != nil {
		return nil, err
	}

	diffuseGI, err := reg.CreateTexture2D(reg.WindowRenderTarget().Extent(),
		gputypes.TextureFormatRGBA16Float, gpu.TextureUsageStorageAndSample)
	if err != nil {
		return nil, err
	}
	if err := reg.Publish("diffuseGI", diffuseGI); err != nil {
		return nil, err
	}
	avgSet, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.StorageImageBinding(0, gpu.ShaderStageCompute, n.accumulation),
		gpu.StorageImageBinding(1, gpu.ShaderStageCompute, diffuseGI),
	})
	if err != nil {
		return nil, err
	}
	avgState, err := reg.CreateComputeState(gpu.NewComputeShader("common/averageAccum.comp.wgsl"), []gpu.BindingSet{avgSet})
	if err != nil {
		return nil, err
	}

	n.cameraVersion = n.scene.Camera.Version()
	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		if !n.Render {
			return
		}
		switch {
		case frame.Input.WasKeyPressed(KeyUseModels):
			n.UseProxies = false
		case frame.Input.WasKeyPressed(KeyUseProxies):
			n.UseProxies = true
		}

		active := models
		if n.UseProxies {
			active = proxy
		}
		cmds.SetRayTracingState(active.state)
		cmds.BindSet(active.frameSet, 0)
		cmds.BindSet(n.objects, 1)
		cmds.PushConstantBool(gpu.ShaderStageRTRayGen, 0, n.IgnoreColor)
		cmds.PushConstantUint32(gpu.ShaderStageRTRayGen, 4, uint32(frame.FrameIndex))

		waitStage := gpu.PipelineStageRayTracing
		if frame.FrameIndex == 0 {
			waitStage = gpu.PipelineStageHost
		}
		cmds.WaitEvent(0, waitStage)
		cmds.ResetEvent(0, gpu.PipelineStageRayTracing)

		camera := n.scene.Camera
		if camera.DidModify(n.cameraVersion) || frame.Input.IsKeyDown(KeyResetAccumulation) {
			cmds.ClearTexture(n.accumulation, gputypes.ColorTransparent)
			n.accumulated = 0
			n.cameraVersion = camera.Version()
		}
		// The images keep their setup size when the window grows.
		extent := frame.WindowExtent.Min(n.accumulation.Extent())
		if n.accumulated < n.MaxSamplesPerPixel {
			cmds.TraceRays(extent)
			n.accumulated++
		}
		cmds.DebugBarrier()

		cmds.SetComputeState(avgState)
		cmds.BindSet(avgSet, 0)
		cmds.PushConstantUint32(gpu.ShaderStageCompute, 0, uint32(n.accumulated))
		cmds.Dispatch(extent, gpu.LocalSize(16, 16))

		cmds.SignalEvent(0, gpu.PipelineStageRayTracing)
	}, nil
}
