// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "github.com/gogpu/gputypes"

// Backend is a GPU resource factory, capability oracle and frame driver.
//
// All Create* calls are synchronous and happen during graph setup. They
// must not be called concurrently with ExecuteFrame on the same backend.
// A failed creation returns a nil handle and an error wrapping one of the
// package sentinels (ErrInvalidDescription, ErrOutOfMemory,
// ErrShaderCompile, ErrCapabilityInactive).
type Backend interface {
	// HasActiveCapability reports whether c is enabled. It never fails.
	HasActiveCapability(c Capability) bool

	// CreateBuffer allocates size bytes restricted to usage.
	CreateBuffer(size uint64, usage gputypes.BufferUsage, hint MemoryHint) (Buffer, error)

	CreateTexture(desc TextureDescription) (Texture, error)

	// CreateRenderTarget fails unless all attachments share one extent.
	CreateRenderTarget(attachments []Attachment) (RenderTarget, error)

	// CreateBindingSet fails if two bindings share a slot index.
	CreateBindingSet(bindings []ShaderBinding) (BindingSet, error)

	// CreateRenderState compiles a raster pipeline. Identical
	// descriptions produce equivalent pipelines.
	CreateRenderState(desc RenderStateDescription) (RenderState, error)

	CreateBottomLevelAccelerationStructure(geometries []RTGeometry) (BottomLevelAS, error)
	CreateTopLevelAccelerationStructure(instances []RTGeometryInstance) (TopLevelAS, error)

	CreateRayTracingState(sbt ShaderBindingTable, sets []BindingSet, maxRecursionDepth uint32) (RayTracingState, error)
	CreateComputeState(shader Shader, sets []BindingSet) (ComputeState, error)

	// WindowRenderTarget returns the target presented to the window. It
	// is owned by the backend and valid until Close.
	WindowRenderTarget() RenderTarget

	// ExecuteFrame acquires the window target, asks rec to record the
	// frame, submits it and presents. It returns false when the host loop
	// should stop, including when rec fails.
	ExecuteFrame(elapsed, delta float64, rec FrameRecorder) bool

	// Close releases backend-owned resources.
	Close() error
}

// FrameRecorder records one frame's commands.
type FrameRecorder interface {
	RecordFrame(elapsed, delta float64, windowExtent Extent2D, cmds *CommandList) error
}

// FrameRecorderFunc adapts a function to FrameRecorder.
type FrameRecorderFunc func(elapsed, delta float64, windowExtent Extent2D, cmds *CommandList) error

// RecordFrame calls f.
func (f FrameRecorderFunc) RecordFrame(elapsed, delta float64, windowExtent Extent2D, cmds *CommandList) error {
	return f(elapsed, delta, windowExtent, cmds)
}
