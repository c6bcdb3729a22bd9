// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
)

// Node names.
const (
	SceneName                    = "scene"
	ShadowMapName                = "shadow-map"
	GBufferName                  = "g-buffer"
	ForwardName                  = "forward"
	BloomName                    = "bloom"
	RTAccelerationStructuresName = "rt-acceleration-structures"
	RTFirstHitName               = "rt-firsthit"
	RTDiffuseGIName              = "rt-diffuse-gi"
	FinalName                    = "final"
)

// ErrEmptyScene is returned by nodes that cannot work without geometry.
var ErrEmptyScene = errors.New("nodes: scene has no meshes")

//go:embed shaders
var embedded embed.FS

// Shaders holds the WGSL sources referenced by the nodes.
var Shaders fs.FS = mustSub(embedded, "shaders")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Source names a published texture.
type Source struct {
	Node  string
	Label string
}

func (s Source) String() string { return s.Node + "/" + s.Label }

// requireRayTracing fails unless ray tracing is active.
func requireRayTracing(reg *framegraph.Registry) error {
	if !reg.HasCapability(gpu.CapabilityRtxRayTracing) {
		return fmt.Errorf("%w: %s needs %s", gpu.ErrCapabilityInactive, reg.Node(), gpu.CapabilityRtxRayTracing)
	}
	return nil
}
