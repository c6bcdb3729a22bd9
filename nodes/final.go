// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
)

// Tonemap selects the operator mapping HDR color to the display range.
type Tonemap uint32

const (
	TonemapClamp Tonemap = iota
	TonemapReinhard
	TonemapACES
)

var tonemapNames = [...]string{
	TonemapClamp:    "clamp",
	TonemapReinhard: "reinhard",
	TonemapACES:     "aces",
}

func (t Tonemap) String() string {
	if int(t) < len(tonemapNames) {
		return tonemapNames[t]
	}
	return fmt.Sprintf("Tonemap(%d)", uint32(t))
}

// ParseTonemap parses a tonemap name case-insensitively.
func ParseTonemap(s string) (Tonemap, error) {
	for i, name := range tonemapNames {
		if strings.EqualFold(s, name) {
			return Tonemap(i), nil
		}
	}
	return 0, fmt.Errorf("nodes: unknown tonemap %q", s)
}

// Final tonemaps an HDR texture into the window render target with a full
// screen triangle.
type Final struct {
	// Source is the texture presented. Default: forward/color.
	Source Source

	Exposure float32
	Tonemap  Tonemap
}

// NewFinal returns a final node presenting the forward color target with
// ACES tonemapping.
func NewFinal() *Final {
	return &Final{
		Source:   Source{Node: ForwardName, Label: "color"},
		Exposure: 1,
		Tonemap:  TonemapACES,
	}
}

func (n *Final) Name() string        { return FinalName }
func (n *Final) DisplayName() string { return "Final" }

func (n *Final) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	src, err := reg.RequireTexture(n.Source.Node, n.Source.Label)
	if err != nil {
		return nil, err
	}
	set, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.TextureBinding(0, gpu.ShaderStageFragment, src),
	})
	if err != nil {
		return nil, err
	}

	window := reg.WindowRenderTarget()
	state, err := reg.CreateRenderState(gpu.RenderStateDescription{
		Target:      window,
		Shader:      gpu.NewGraphicsShader("final/fullscreen.vert.wgsl", "final/tonemap.frag.wgsl"),
		BindingSets: []gpu.BindingSet{set},
		Viewport:    gpu.ViewportFor(window.Extent()),
		Raster: gpu.RasterState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
	})
	if err != nil {
		return nil, err
	}

	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		cmds.SetRenderState(state, gpu.DefaultClearValue())
		cmds.BindSet(set, 0)
		cmds.PushConstantFloat32(gpu.ShaderStageFragment, 0, n.Exposure)
		cmds.PushConstantUint32(gpu.ShaderStageFragment, 4, uint32(n.Tonemap))
		cmds.Draw(3)
		cmds.EndRendering()
	}, nil
}
