// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"io/fs"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/framegraph/gpu"
)

// Default configuration values.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	// DefaultMemoryBudget caps the bytes of buffers and textures alive at
	// once.
	DefaultMemoryBudget = 2 << 30
)

// Config configures a headless backend.
type Config struct {
	// Window supplies the window extent each frame. When nil a fixed
	// window of Width x Height is used.
	Window gpucontext.WindowProvider

	// Width and Height size the fixed window. Default: 1280x720.
	Width, Height int

	// Capabilities lists the capabilities reported active. Default: none.
	Capabilities []gpu.Capability

	// ShaderFS holds WGSL sources. When nil shader files are accepted
	// without compilation.
	ShaderFS fs.FS

	// ValidateShaders runs naga IR validation during compilation.
	ValidateShaders bool

	// MaxFrames makes ExecuteFrame return false once that many frames
	// were executed. Zero means no limit.
	MaxFrames int

	// MemoryBudget is the allocation limit in bytes; creations beyond it
	// fail with gpu.ErrOutOfMemory. Default: DefaultMemoryBudget.
	MemoryBudget uint64

	// AdapterName is reported by AdapterInfo. Default: "Headless".
	AdapterName string
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.MemoryBudget == 0 {
		c.MemoryBudget = DefaultMemoryBudget
	}
	if c.AdapterName == "" {
		c.AdapterName = "Headless"
	}
	if c.Window == nil {
		c.Window = gpucontext.NullWindowProvider{W: c.Width, H: c.Height, SF: 1}
	}
	return c
}
