// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// DefaultShadowMapResolution is the edge length of the sun shadow map.
const DefaultShadowMapResolution = 2048

// ShadowMap renders scene depth from the sun into a square depth texture
// published as "directional".
type ShadowMap struct {
	scene     *scene.Scene
	drawables []drawable

	Resolution uint32
}

// NewShadowMap returns a shadow map node at the default resolution.
func NewShadowMap(s *scene.Scene) *ShadowMap {
	return &ShadowMap{scene: s, Resolution: DefaultShadowMapResolution}
}

func (n *ShadowMap) Name() string        { return ShadowMapName }
func (n *ShadowMap) DisplayName() string { return "Shadow Mapping" }

func (n *ShadowMap) ConstructNode(reg *framegraph.Registry) error {
	var err error
	n.drawables, err = buildDrawables(reg, n.scene, false)
	return err
}

func (n *ShadowMap) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	extent := gpu.Extent2D{Width: n.Resolution, Height: n.Resolution}
	depth, err := reg.CreateTexture2D(extent, gputypes.TextureFormatDepth32Float, gpu.TextureUsageAttachAndSample)
	if err != nil {
		return nil, err
	}
	if err := reg.Publish("directional", depth); err != nil {
		return nil, err
	}
	rt, err := reg.CreateRenderTarget([]gpu.Attachment{gpu.DepthAttachment(depth)})
	if err != nil {
		return nil, err
	}

	lightBuf, err := reg.RequireBuffer(SceneName, "directionalLight")
	if err != nil {
		return nil, err
	}
	frameSet, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.UniformBinding(0, gpu.ShaderStageVertex, lightBuf),
	})
	if err != nil {
		return nil, err
	}

	state, err := reg.CreateRenderState(gpu.RenderStateDescription{
		Target:       rt,
		VertexLayout: scene.VertexLayout(),
		Shader: gpu.Shader{
			Type:  gpu.ShaderTypeRaster,
			Files: []gpu.ShaderFile{gpu.NewShaderFile("shadow/shadow.vert.wgsl")},
		},
		BindingSets: layout(frameSet, n.drawables),
		Viewport:    gpu.ViewportFor(extent),
		Raster:      defaultRaster(),
		Depth:       gpu.DefaultDepthState(),
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
