// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"path"
	"strings"

	"github.com/gogpu/gputypes"
)

// ShaderStage is a set of pipeline stages.
type ShaderStage uint16

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
	ShaderStageRTRayGen
	ShaderStageRTMiss
	ShaderStageRTClosestHit
	ShaderStageRTAnyHit
	ShaderStageRTIntersection
)

// ShaderStageRTAll covers every ray tracing stage.
const ShaderStageRTAll = ShaderStageRTRayGen | ShaderStageRTMiss | ShaderStageRTClosestHit |
	ShaderStageRTAnyHit | ShaderStageRTIntersection

var shaderStageNames = []struct {
	stage ShaderStage
	name  string
	ext   string
}{
	{ShaderStageVertex, "Vertex", "vert"},
	{ShaderStageFragment, "Fragment", "frag"},
	{ShaderStageCompute, "Compute", "comp"},
	{ShaderStageRTRayGen, "RayGen", "rgen"},
	{ShaderStageRTMiss, "Miss", "rmiss"},
	{ShaderStageRTClosestHit, "ClosestHit", "rchit"},
	{ShaderStageRTAnyHit, "AnyHit", "rahit"},
	{ShaderStageRTIntersection, "Intersection", "rint"},
}

// Has reports whether every stage in other is in s.
func (s ShaderStage) Has(other ShaderStage) bool {
	return s&other == other
}

// IsRayTracing reports whether s contains any ray tracing stage.
func (s ShaderStage) IsRayTracing() bool {
	return s&ShaderStageRTAll != 0
}

func (s ShaderStage) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for _, n := range shaderStageNames {
		if s&n.stage != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ToGPUTypes returns the raster and compute stages of s as gputypes
// stages. Ray tracing stages have no WebGPU equivalent and are dropped.
func (s ShaderStage) ToGPUTypes() gputypes.ShaderStage {
	var out gputypes.ShaderStage
	if s&ShaderStageVertex != 0 {
		out |= gputypes.ShaderStageVertex
	}
	if s&ShaderStageFragment != 0 {
		out |= gputypes.ShaderStageFragment
	}
	if s&ShaderStageCompute != 0 {
		out |= gputypes.ShaderStageCompute
	}
	return out
}

// ShaderFile names a WGSL source file and the stage it implements.
//
// The stage is taken from the second to last extension of the path:
// "bloom/downsample.comp.wgsl" is a compute shader, "forward/main.frag.wgsl"
// a fragment shader.
type ShaderFile struct {
	Path  string
	Stage ShaderStage
}

// NewShaderFile returns a ShaderFile with the stage derived from p.
// The stage is zero when p carries no known stage extension.
func NewShaderFile(p string) ShaderFile {
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	ext := strings.TrimPrefix(path.Ext(base), ".")
	for _, n := range shaderStageNames {
		if n.ext == ext {
			return ShaderFile{Path: p, Stage: n.stage}
		}
	}
	return ShaderFile{Path: p}
}

// EntryPoint returns the conventional entry point for the file's stage.
func (f ShaderFile) EntryPoint() string {
	switch f.Stage {
	case ShaderStageVertex:
		return "vs_main"
	case ShaderStageFragment:
		return "fs_main"
	case ShaderStageCompute:
		return "cs_main"
	default:
		return "main"
	}
}

// ShaderType tells raster shaders from compute shaders.
type ShaderType uint8

const (
	ShaderTypeRaster ShaderType = iota
	ShaderTypeCompute
)

// Shader is a set of files forming one raster or compute program.
type Shader struct {
	Type  ShaderType
	Files []ShaderFile
}

// NewGraphicsShader returns a raster shader from a vertex and a fragment
// file.
func NewGraphicsShader(vertex, fragment string) Shader {
	return Shader{
		Type:  ShaderTypeRaster,
		Files: []ShaderFile{NewShaderFile(vertex), NewShaderFile(fragment)},
	}
}

// NewComputeShader returns a compute shader from one file.
func NewComputeShader(file string) Shader {
	return Shader{Type: ShaderTypeCompute, Files: []ShaderFile{NewShaderFile(file)}}
}

// Validate checks that the files fit the shader type.
func (s Shader) Validate() error {
	switch s.Type {
	case ShaderTypeRaster:
		var hasVertex bool
		for _, f := range s.Files {
			if f.Stage != ShaderStageVertex && f.Stage != ShaderStageFragment {
				return fmt.Errorf("%w: %s is not a raster stage", ErrInvalidDescription, f.Path)
			}
			hasVertex = hasVertex || f.Stage == ShaderStageVertex
		}
		if !hasVertex {
			return fmt.Errorf("%w: raster shader without vertex stage", ErrInvalidDescription)
		}
	case ShaderTypeCompute:
		if len(s.Files) != 1 || s.Files[0].Stage != ShaderStageCompute {
			return fmt.Errorf("%w: compute shader must be exactly one compute file", ErrInvalidDescription)
		}
	default:
		return fmt.Errorf("%w: unknown shader type %d", ErrInvalidDescription, s.Type)
	}
	return nil
}

// HitGroup is the set of shaders run when a ray hits geometry.
type HitGroup struct {
	ClosestHit   ShaderFile
	AnyHit       *ShaderFile
	Intersection *ShaderFile
}

// ShaderBindingTable maps ray tracing stages to shader files.
type ShaderBindingTable struct {
	RayGen    ShaderFile
	HitGroups []HitGroup
	Miss      []ShaderFile
}

// Files returns every file referenced by the table.
func (t ShaderBindingTable) Files() []ShaderFile {
	files := []ShaderFile{t.RayGen}
	for _, g := range t.HitGroups {
		files = append(files, g.ClosestHit)
		if g.AnyHit != nil {
			files = append(files, *g.AnyHit)
		}
		if g.Intersection != nil {
			files = append(files, *g.Intersection)
		}
	}
	return append(files, t.Miss...)
}

// Validate checks that each slot holds a file of the matching stage.
func (t ShaderBindingTable) Validate() error {
	if t.RayGen.Stage != ShaderStageRTRayGen {
		return fmt.Errorf("%w: raygen slot holds %q", ErrInvalidDescription, t.RayGen.Path)
	}
	for i, g := range t.HitGroups {
		if g.ClosestHit.Stage != ShaderStageRTClosestHit {
			return fmt.Errorf("%w: hit group %d closest hit holds %q", ErrInvalidDescription, i, g.ClosestHit.Path)
		}
		if g.AnyHit != nil && g.AnyHit.Stage != ShaderStageRTAnyHit {
			return fmt.Errorf("%w: hit group %d any hit holds %q", ErrInvalidDescription, i, g.AnyHit.Path)
		}
		if g.Intersection != nil && g.Intersection.Stage != ShaderStageRTIntersection {
			return fmt.Errorf("%w: hit group %d intersection holds %q", ErrInvalidDescription, i, g.Intersection.Path)
		}
	}
	for i, m := range t.Miss {
		if m.Stage != ShaderStageRTMiss {
			return fmt.Errorf("%w: miss %d holds %q", ErrInvalidDescription, i, m.Path)
		}
	}
	return nil
}
