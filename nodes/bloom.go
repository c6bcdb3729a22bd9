// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
)

// Bloom defaults.
const (
	BloomDownsamples        = 6
	DefaultBloomBlurRadius  = 0.001
	DefaultBloomBlendAmount = 0.04
)

var bloomLocalSize = gpu.LocalSize(16, 16)

// Bloom blurs the forward color target through a chain of half resolution
// images and blends the result back into it. The final upsampled image is
// published as "bloom".
type Bloom struct {
	// Source is the HDR image bloom reads and blends into. It must be a
	// storage capable RGBA16Float texture. Default: forward/color.
	Source Source

	BlurRadius float32
	Blend      float32
	Enabled    bool
}

// NewBloom returns an enabled bloom node over the forward color target.
func NewBloom() *Bloom {
	return &Bloom{
		Source:     Source{Node: ForwardName, Label: "color"},
		BlurRadius: DefaultBloomBlurRadius,
		Blend:      DefaultBloomBlendAmount,
		Enabled:    true,
	}
}

func (n *Bloom) Name() string { return BloomName }

// bloomLevels returns the extents of the bloom chain starting at base,
// halving each level down to one pixel.
func bloomLevels(base gpu.Extent2D) []gpu.Extent2D {
	levels := make([]gpu.Extent2D, BloomDownsamples+1)
	e := base
	for i := range levels {
		levels[i] = e
		e = gpu.Extent2D{Width: max(e.Width/2, 1), Height: max(e.Height/2, 1)}
	}
	return levels
}

func (n *Bloom) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	target, err := reg.RequireTexture(n.Source.Node, n.Source.Label)
	if err != nil {
		return nil, err
	}

	levels := bloomLevels(target.Extent())
	down := make([]gpu.Texture, len(levels))
	up := make([]gpu.Texture, len(levels))
	for i, e := range levels {
		if down[i], err = reg.CreateTexture2D(e, gputypes.TextureFormatRGBA16Float, gpu.TextureUsageStorageAndSample); err != nil {
			return nil, err
		}
		if up[i], err = reg.CreateTexture2D(e, gputypes.TextureFormatRGBA16Float, gpu.TextureUsageStorageAndSample); err != nil {
			return nil, err
		}
	}

	// downSets[i] writes down[i+1] from down[i]; upSets[i] writes up[i]
	// from up[i+1] and down[i].
	var downSets, upSets []gpu.BindingSet
	for i := 1; i <= BloomDownsamples; i++ {
		set, err := reg.CreateBindingSet([]gpu.ShaderBinding{
			gpu.StorageImageBinding(0, gpu.ShaderStageCompute, down[i]),
			gpu.StorageImageBinding(1, gpu.ShaderStageCompute, down[i-1]),
		})
		if err != nil {
			return nil, err
		}
		downSets = append(downSets, set)

		set, err = reg.CreateBindingSet([]gpu.ShaderBinding{
			gpu.StorageImageBinding(0, gpu.ShaderStageCompute, up[i-1]),
			gpu.StorageImageBinding(1, gpu.ShaderStageCompute, up[i]),
			gpu.StorageImageBinding(2, gpu.ShaderStageCompute, down[i-1]),
		})
		if err != nil {
			return nil, err
		}
		upSets = append(upSets, set)
	}

	downState, err := reg.CreateComputeState(gpu.NewComputeShader("bloom/downsample.comp.wgsl"), downSets[:1])
	if err != nil {
		return nil, err
	}
	upState, err := reg.CreateComputeState(gpu.NewComputeShader("bloom/upsample.comp.wgsl"), upSets[:1])
	if err != nil {
		return nil, err
	}

	blendSet, err := reg.CreateBindingSet([]gpu.ShaderBinding{
		gpu.StorageImageBinding(0, gpu.ShaderStageCompute, target),
		gpu.StorageImageBinding(1, gpu.ShaderStageCompute, up[0]),
	})
	if err != nil {
		return nil, err
	}
	blendState, err := reg.CreateComputeState(gpu.NewComputeShader("bloom/blend.comp.wgsl"), []gpu.BindingSet{blendSet})
	if err != nil {
		return nil, err
	}

	if err := reg.Publish("bloom", up[0]); err != nil {
		return nil, err
	}

	bottom := len(levels) - 1
	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		cmds.CopyTexture(target, down[0])

		cmds.SetComputeState(downState)
		for i, set := range downSets {
			cmds.BindSet(set, 0)
			cmds.Dispatch(down[i+1].Extent(), bloomLocalSize)
			cmds.DebugBarrier()
		}

		cmds.CopyTexture(down[bottom], up[bottom])

		cmds.SetComputeState(upState)
		cmds.PushConstantFloat32(gpu.ShaderStageCompute, 0, n.BlurRadius)
		for i := len(upSets) - 1; i >= 0; i-- {
			cmds.BindSet(upSets[i], 0)
			cmds.Dispatch(up[i].Extent(), bloomLocalSize)
			cmds.DebugBarrier()
		}

		if !n.Enabled {
			return
		}
		cmds.SetComputeState(blendState)
		cmds.BindSet(blendSet, 0)
		cmds.PushConstantFloat32(gpu.ShaderStageCompute, 0, n.Blend)
		cmds.Dispatch(target.Extent(), bloomLocalSize)
	}, nil
}
