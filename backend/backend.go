// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"io/fs"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/framegraph/gpu"
)

// Backend name constants.
const (
	// BackendHeadless is the in-memory validating backend.
	BackendHeadless = "headless"
	// BackendVulkan is reserved for a Vulkan driver with ray tracing.
	BackendVulkan = "vulkan"
	// BackendWebGPU is reserved for a WebGPU driver.
	BackendWebGPU = "webgpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Options configures a backend at open time. Zero fields take the
// backend's defaults.
type Options struct {
	// Width and Height are the window extent in pixels.
	Width, Height int

	// Window overrides Width and Height with a live window size.
	Window gpucontext.WindowProvider

	// Capabilities lists the capabilities to activate. Backends ignore
	// capabilities they cannot provide.
	Capabilities []gpu.Capability

	// ShaderFS holds shader sources referenced by gpu.ShaderFile paths.
	ShaderFS fs.FS

	// MaxFrames stops ExecuteFrame after that many frames. Zero means
	// no limit.
	MaxFrames int
}

// Factory opens a backend.
type Factory func(opts Options) (gpu.Backend, error)

// Describer is implemented by backends that can report what they are.
type Describer interface {
	AdapterInfo() gpucontext.AdapterInfo
	Capabilities() []gpu.Capability
}
