// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/nodes"
)

func init() {
	Register(nodes.SceneName, newScene)
	Register(nodes.ShadowMapName, newShadowMap)
	Register(nodes.GBufferName, newGBuffer)
	Register(nodes.ForwardName, newForward)
	Register(nodes.BloomName, newBloom)
	Register(nodes.RTAccelerationStructuresName, newRTAccelerationStructures)
	Register(nodes.RTFirstHitName, newRTFirstHit)
	Register(nodes.RTDiffuseGIName, newRTDiffuseGI)
	Register(nodes.FinalName, newFinal)
}

type noParams struct{}

type sceneParams struct {
	ControlCamera bool `hcl:"control_camera,optional"`
}

func newScene(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	n := nodes.NewSceneUniform(ctx.Scene)
	p := sceneParams{ControlCamera: n.ControlCamera}
	if err := ctx.Decode(body, &p); err != nil {
		return nil, err
	}
	n.ControlCamera = p.ControlCamera
	return n, nil
}

type shadowMapParams struct {
	Resolution uint32 `hcl:"resolution,optional"`
}

func newShadowMap(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	n := nodes.NewShadowMap(ctx.Scene)
	p := shadowMapParams{Resolution: n.Resolution}
	if err := ctx.Decode(body, &p); err != nil {
		return nil, err
	}
	if p.Resolution == 0 {
		return nil, fmt.Errorf("resolution must be positive")
	}
	n.Resolution = p.Resolution
	return n, nil
}

func newGBuffer(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	if err := ctx.Decode(body, &noParams{}); err != nil {
		return nil, err
	}
	return nodes.NewGBuffer(ctx.Scene), nil
}

type forwardParams struct {
	ClearColor hcl.Expression `hcl:"clear_color,optional"`
}

func newForward(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	n := nodes.NewForward(ctx.Scene)
	var p forwardParams
	if err := ctx.Decode(body, &p); err != nil {
		return nil, err
	}
	c, ok, err := decodeColor(p.ClearColor, ctx.Eval)
	if err != nil {
		return nil, fmt.Errorf("clear_color: %w", err)
	}
	if ok {
		n.ClearColor = c
	}
	return n, nil
}

// decodeColor evaluates a list of three or four numbers. Alpha defaults
// to one. ok is false when the expression is null.
func decodeColor(expr hcl.Expression, eval *hcl.EvalContext) (c gputypes.Color, ok bool, err error) {
	v, diags := expr.Value(eval)
	if diags.HasErrors() {
		return c, false, diags
	}
	if v.IsNull() {
		return c, false, nil
	}
	v, err = convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return c, false, err
	}
	var rgba []float64
	if err := gocty.FromCtyValue(v, &rgba); err != nil {
		return c, false, err
	}
	switch len(rgba) {
	case 3:
		rgba = append(rgba, 1)
	case 4:
	default:
		return c, false, fmt.Errorf("want 3 or 4 components, got %d", len(rgba))
	}
	return gputypes.Color{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, true, nil
}

type bloomParams struct {
	Source     string  `hcl:"source,optional"`
	BlurRadius float32 `hcl:"blur_radius,optional"`
	Blend      float32 `hcl:"blend,optional"`
	Enabled    bool    `hcl:"enabled,optional"`
}

func newBloom(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	n := nodes.NewBloom()
	p := bloomParams{
		Source:     n.Source.String(),
		BlurRadius: n.BlurRadius,
		Blend:      n.Blend,
		Enabled:    n.Enabled,
	}
	if err := ctx.Decode(body, &p); err != nil {
		return nil, err
	}
	src, err := parseSource(p.Source)
	if err != nil {
		return nil, err
	}
	n.Source = src
	n.BlurRadius = p.BlurRadius
	n.Blend = p.Blend
	n.Enabled = p.Enabled
	return n, nil
}

func newRTAccelerationStructures(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	if err := ctx.Decode(body, &noParams{}); err != nil {
		return nil, err
	}
	return nodes.NewRTAccelerationStructures(ctx.Scene), nil
}

func newRTFirstHit(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	if err := ctx.Decode(body, &noParams{}); err != nil {
		return nil, err
	}
	return nodes.NewRTFirstHit(ctx.Scene), nil
}

type rtDiffuseGIParams struct {
	MaxSamplesPerPixel int  `hcl:"max_samples_per_pixel,optional"`
	Render             bool `hcl:"render,optional"`
	IgnoreColor        bool `hcl:"ignore_color,optional"`
	UseProxies         bool `hcl:"use_proxies,optional"`
}

func newRTDiffuseGI(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	n := nodes.NewRTDiffuseGI(ctx.Scene)
	p := rtDiffuseGIParams{
		MaxSamplesPerPixel: n.MaxSamplesPerPixel,
		Render:             n.Render,
		IgnoreColor:        n.IgnoreColor,
		UseProxies:         n.UseProxies,
	}
	if err := ctx.Decode(body, &p); err != nil {
		return nil, err
	}
	if p.MaxSamplesPerPixel <= 0 {
		return nil, fmt.Errorf("max_samples_per_pixel must be positive")
	}
	n.MaxSamplesPerPixel = p.MaxSamplesPerPixel
	n.Render = p.Render
	n.IgnoreColor = p.IgnoreColor
	n.UseProxies = p.UseProxies
	return n, nil
}

type finalParams struct {
	Source   string  `hcl:"source,optional"`
	Exposure float32 `hcl:"exposure,optional"`
	Tonemap  string  `hcl:"tonemap,optional"`
}

func newFinal(ctx *BuildContext, body hcl.Body) (framegraph.Node, error) {
	n := nodes.NewFinal()
	p := finalParams{
		Source:   n.Source.String(),
		Exposure: n.Exposure,
		Tonemap:  n.Tonemap.String(),
	}
	if err := ctx.Decode(body, &p); err != nil {
		return nil, err
	}
	src, err := parseSource(p.Source)
	if err != nil {
		return nil, err
	}
	tm, err := nodes.ParseTonemap(p.Tonemap)
	if err != nil {
		return nil, err
	}
	n.Source = src
	n.Exposure = p.Exposure
	n.Tonemap = tm
	return n, nil
}

// parseSource parses "node/label".
func parseSource(s string) (nodes.Source, error) {
	node, label, ok := strings.Cut(s, "/")
	if !ok || node == "" || label == "" {
		return nodes.Source{}, fmt.Errorf("source %q: want \"node/label\"", s)
	}
	return nodes.Source{Node: node, Label: label}, nil
}
