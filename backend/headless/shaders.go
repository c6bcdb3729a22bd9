// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/framegraph/gpu"
)

// shaderModule is a loaded shader file. SPIRV is nil when the backend
// has no shader file system or the stage has no WGSL equivalent.
type shaderModule struct {
	File  gpu.ShaderFile
	SPIRV []byte
}

// shaderCache compiles each shader path once.
type shaderCache struct {
	fsys     fs.FS
	validate bool
	modules  map[string][]byte
}

func newShaderCache(fsys fs.FS, validate bool) *shaderCache {
	return &shaderCache{fsys: fsys, validate: validate, modules: make(map[string][]byte)}
}

func (c *shaderCache) load(files []gpu.ShaderFile) ([]shaderModule, error) {
	modules := make([]shaderModule, 0, len(files))
	for _, f := range files {
		code, err := c.compile(f)
		if err != nil {
			return nil, err
		}
		modules = append(modules, shaderModule{File: f, SPIRV: code})
	}
	return modules, nil
}

func (c *shaderCache) compile(f gpu.ShaderFile) ([]byte, error) {
	if c.fsys == nil {
		return nil, nil
	}
	if code, ok := c.modules[f.Path]; ok {
		return code, nil
	}

	src, err := fs.ReadFile(c.fsys, f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gpu.ErrShaderCompile, err)
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", gpu.ErrShaderCompile, f.Path)
	}

	var code []byte
	// Ray tracing stages have no WGSL form; their sources are only
	// checked for presence.
	if !f.Stage.IsRayTracing() {
		code, err = naga.CompileWithOptions(string(src), naga.CompileOptions{
			SPIRVVersion: spirv.Version1_3,
			Validate:     c.validate,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", gpu.ErrShaderCompile, f.Path, err)
		}
	}
	c.modules[f.Path] = code
	return code, nil
}

// CompileAll compiles every .wgsl file in fsys and returns the errors
// keyed by path. It backs the validate command.
func CompileAll(fsys fs.FS, validate bool) (map[string]error, error) {
	cache := newShaderCache(fsys, validate)
	failures := make(map[string]error)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".wgsl") {
			return nil
		}
		f := gpu.NewShaderFile(p)
		if _, cerr := cache.compile(f); cerr != nil {
			failures[p] = cerr
		}
		return nil
	})
	return failures, err
}

