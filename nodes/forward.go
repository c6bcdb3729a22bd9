// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// forwardColorUsage lets later passes sample, copy and write the color
// target in compute shaders.
const forwardColorUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageStorageBinding | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst

// Forward shades every mesh directly with the sun, its shadow map and the
// environment. It publishes "color" in linear HDR and "depth".
type Forward struct {
	scene     *scene.Scene
	drawables []drawable

	// ClearColor is the color of pixels no mesh covers.
	ClearColor gputypes.Color
}

// NewForward returns a forward node drawing s.
func NewForward(s *scene.Scene) *Forward {
	return &Forward{scene: s, ClearColor: gputypes.ColorBlack}
}

func (n *Forward) Name() string        { return ForwardName }
func (n *Forward) DisplayName() string { return "Forward" }

func (n *Forward) ConstructNode(reg *framegraph.Registry) error {
	var err error
	n.drawables, err = buildDrawables(reg, n.scene, true)
	return err
}

func (n *Forward) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	extent := reg.WindowRenderTarget().Extent()
	color, err := reg.CreateTexture2D(extent, gputypes.TextureFormatRGBA16Float, forwardColorUsage)
	if err != nil {
		return nil, err
	}
	depth, err := reg.CreateTexture2D(extent, gputypes.TextureFormatDepth32Float, gpu.TextureUsageAttachAndSample)
	if err != nil {
		return nil, err
	}
	if err := reg.Publish("color", color); err != nil {
		return nil, err
	}
	if err := reg.Publish("depth", depth); err != nil {
		return nil, err
	}
	rt, err := reg.CreateRenderTarget([]gpu.Attachment{
		gpu.ColorAttachment(gpu.AttachmentColor0, color),
		gpu.DepthAttachment(depth),
	})
	if err != nil {
		return nil, err
	}

	frameSet, err := forwardFrameSet(reg)
	if err != nil {
		return nil, err
	}

	state, err := reg.CreateRenderState(gpu.RenderStateDescription{
		Target:       rt,
		VertexLayout: scene.VertexLayout(),
		Shader:       gpu.NewGraphicsShader("forward/forward.vert.wgsl", "forward/forward.frag.wgsl"),
		BindingSets:  layout(frameSet, n.drawables),
		Viewport:     gpu.ViewportFor(extent),
		Raster:       defaultRaster(),
		Depth:        gpu.DefaultDepthState(),
	})
	if err != nil {
		return nil, err
	}

	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		cv := gpu.DefaultClearValue()
		cv.Color = n.ClearColor
		cmds.SetRenderState(state, cv)
		cmds.BindSet(frameSet, 0)
		drawAll(cmds, n.drawables)
		cmds.EndRendering()
	}, nil
}

// forwardFrameSet binds the scene uniforms, the sun shadow map and the
// environment map. Missing optional textures fall back to white pixels.
func forwardFrameSet(reg *framegraph.Registry) (gpu.BindingSet, error) {
	var bufs [3]gpu.Buffer
	for i, label := range []string{"camera", "directionalLight", "environmentData"} {
		buf, err := reg.RequireBuffer(SceneName, label)
		if err != nil {
			return nil, err
		}
		bufs[i] = buf
	}

	shadowMap, ok := reg.GetTexture(ShadowMapName, "directional")
	if !ok {
		var err error
		if shadowMap, err = reg.CreatePixelTexture(gputypes.ColorWhite, false); err != nil {
			return nil, err
		}
	}
	envMap, err := environmentMap(reg)
	if err != nil {
		return nil, err
	}

	return reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.UniformBinding(0, gpu.ShaderStageVertex|gpu.ShaderStageFragment, bufs[0]),
		gpu.UniformBinding(1, gpu.ShaderStageFragment, bufs[1]),
		gpu.UniformBinding(2, gpu.ShaderStageFragment, bufs[2]),
		gpu.TextureBinding(3, gpu.ShaderStageFragment, shadowMap),
		gpu.TextureBinding(4, gpu.ShaderStageFragment, envMap),
	})
}

// environmentMap returns the scene's environment map, or a white sRGB
// pixel when the scene has none.
func environmentMap(reg *framegraph.Registry) (gpu.Texture, error) {
	if tex, ok := reg.GetTexture(SceneName, "environmentMap"); ok {
		return tex, nil
	}
	return reg.CreatePixelTexture(gputypes.ColorWhite, true)
}
