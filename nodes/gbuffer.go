// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// GBuffer renders surface normals, base color and depth at window
// resolution for the screen space and ray traced passes.
type GBuffer struct {
	scene     *scene.Scene
	drawables []drawable
}

// NewGBuffer returns a g-buffer node drawing s.
func NewGBuffer(s *scene.Scene) *GBuffer { return &GBuffer{scene: s} }

func (n *GBuffer) Name() string        { return GBufferName }
func (n *GBuffer) DisplayName() string { return "G-Buffer" }

func (n *GBuffer) ConstructNode(reg *framegraph.Registry) error {
	var err error
	n.drawables, err = buildDrawables(reg, n.scene, true)
	return err
}

func (n *GBuffer) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	extent := reg.WindowRenderTarget().Extent()
	targets := []struct {
		label  string
		format gputypes.TextureFormat
		tex    gpu.Texture
	}{
		{label: "normal", format: gputypes.TextureFormatRGBA16Float},
		{label: "baseColor", format: gputypes.TextureFormatRGBA8Unorm},
		{label: "depth", format: gputypes.TextureFormatDepth32Float},
	}
	for i := range targets {
		t := &targets[i]
		tex, err := reg.CreateTexture2D(extent, t.format, gpu.TextureUsageAttachAndSample)
		if err != nil {
			return nil, err
		}
		if err := reg.Publish(t.label, tex); err != nil {
			return nil, err
		}
		t.tex = tex
	}

	rt, err := reg.CreateRenderTarget([]gpu.Attachment{
		gpu.ColorAttachment(gpu.AttachmentColor0, targets[0].tex),
		gpu.ColorAttachment(gpu.AttachmentColor1, targets[1].tex),
		gpu.DepthAttachment(targets[2].tex),
	})
	if err != nil {
		return nil, err
	}

	cameraBuf, err := reg.RequireBuffer(SceneName, "camera")
	if err != nil {
		return nil, err
	}
	frameSet, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.UniformBinding(0, gpu.ShaderStageVertex, cameraBuf),
	})
	if err != nil {
		return nil, err
	}

	state, err := reg.CreateRenderState(gpu.RenderStateDescription{
		Target:       rt,
		VertexLayout: scene.VertexLayout(),
		Shader:       gpu.NewGraphicsShader("gbuffer/gbuffer.vert.wgsl", "gbuffer/gbuffer.frag.wgsl"),
		BindingSets:  layout(frameSet, n.drawables),
		Viewport:     gpu.ViewportFor(extent),
		Raster:       defaultRaster(),
		Depth:        gpu.DefaultDepthState(),
	})
	if err != nil {
		return nil, err
	}

	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		cmds.SetRenderState(state, gpu.DefaultClearValue())
		cmds.BindSet(frameSet, 0)
		drawAll(cmds, n.drawables)
		cmds.EndRendering()
	}, nil
}

func defaultRaster() gpu.RasterState {
	return gpu.RasterState{
		Topology:  gputypes.PrimitiveTopologyTriangleList,
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  gputypes.CullModeBack,
	}
}
