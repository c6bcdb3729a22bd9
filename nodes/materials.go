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

// materialTextures are the sampled textures of one material. Missing maps
// are replaced by pixel textures so every material binds the same layout.
type materialTextures struct {
	baseColor         gpu.Texture
	normal            gpu.Texture
	metallicRoughness gpu.Texture
	emissive          gpu.Texture
}

// materialFactors multiply the sampled textures in the shader.
type materialFactors struct {
	baseColor f32.Vec4
	emissive  f32.Vec3
	metallic  float32
	roughness float32
}

func colorOf(v f32.Vec4) gputypes.Color {
	return gputypes.Color{R: float64(v[0]), G: float64(v[1]), B: float64(v[2]), A: float64(v[3])}
}

// baseColorTexture loads the base color map, or a pixel of the base color
// factor when the material has none. The factor is already linear, so the
// pixel is not sRGB.
func baseColorTexture(reg *framegraph.Registry, m *scene.Material) (gpu.Texture, error) {
	if m.BaseColor == "" {
		return reg.CreatePixelTexture(colorOf(m.BaseColorFactor), false)
	}
	return reg.LoadTexture2D(m.BaseColor, true, true)
}

func loadMaterial(reg *framegraph.Registry, m *scene.Material) (materialTextures, materialFactors, error) {
	var tex materialTextures
	factors := materialFactors{
		baseColor: m.BaseColorFactor,
		emissive:  m.EmissiveFactor,
		metallic:  m.Metallic,
		roughness: m.Roughness,
	}

	var err error
	if tex.baseColor, err = baseColorTexture(reg, m); err != nil {
		return tex, factors, err
	}
	if m.BaseColor == "" {
		// The pixel already holds the factor.
		factors.baseColor = f32.Vec4{1, 1, 1, 1}
	}

	maps := []struct {
		path     string
		srgb     bool
		fallback gputypes.Color
		dst      *gpu.Texture
	}{
		{m.Normal, false, gputypes.Color{R: 0.5, G: 0.5, B: 1, A: 1}, &tex.normal},
		{m.MetallicRoughness, false, gputypes.ColorWhite, &tex.metallicRoughness},
		{m.Emissive, true, gputypes.ColorWhite, &tex.emissive},
	}
	for _, mp := range maps {
		if mp.path == "" {
			*mp.dst, err = reg.CreatePixelTexture(mp.fallback, mp.srgb)
		} else {
			*mp.dst, err = reg.LoadTexture2D(mp.path, mp.srgb, true)
		}
		if err != nil {
			return tex, factors, err
		}
	}
	return tex, factors, nil
}
