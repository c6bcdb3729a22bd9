// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "github.com/gogpu/gputypes"

// ResourceKind identifies the kind of a resource handle.
type ResourceKind uint8

const (
	KindBuffer ResourceKind = iota
	KindTexture
	KindRenderTarget
	KindBindingSet
	KindRenderState
	KindBottomLevelAS
	KindTopLevelAS
	KindRayTracingState
	KindComputeState
)

var resourceKindNames = [...]string{
	KindBuffer:          "Buffer",
	KindTexture:         "Texture",
	KindRenderTarget:    "RenderTarget",
	KindBindingSet:      "BindingSet",
	KindRenderState:     "RenderState",
	KindBottomLevelAS:   "BottomLevelAS",
	KindTopLevelAS:      "TopLevelAS",
	KindRayTracingState: "RayTracingState",
	KindComputeState:    "ComputeState",
}

// String returns the kind name.
func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return "Unknown"
}

// Resource is the part shared by every handle.
type Resource interface {
	// Kind returns the resource kind.
	Kind() ResourceKind

	// Release frees the backend-side state. Releasing twice returns
	// ErrReleased.
	Release() error
}

// Buffer is a linear block of GPU memory.
type Buffer interface {
	Resource

	// Size returns the buffer size in bytes.
	Size() uint64

	// Usage returns the usage flags the buffer was created with.
	Usage() gputypes.BufferUsage

	// MemoryHint returns the residency hint the buffer was created with.
	MemoryHint() MemoryHint

	// Update writes data at offset. The write must fit inside the buffer.
	Update(offset uint64, data []byte) error
}

// Texture is a two-dimensional image.
type Texture interface {
	Resource

	Extent() Extent2D
	Format() gputypes.TextureFormat
	Usage() gputypes.TextureUsage

	// MipLevels returns the number of mip levels, at least 1.
	MipLevels() uint32

	// Upload replaces the pixel data of the given mip level. data must
	// hold exactly one level's worth of tightly packed pixels.
	Upload(level uint32, data []byte) error
}

// RenderTarget is a set of attachments a render state draws into.
type RenderTarget interface {
	Resource

	Extent() Extent2D
	ColorAttachmentCount() int
	HasDepthAttachment() bool
}

// BindingSet is a group of shader bindings bound together.
type BindingSet interface {
	Resource

	Bindings() []ShaderBinding
}

// RenderState is a compiled raster pipeline.
type RenderState interface {
	Resource

	RenderTarget() RenderTarget
	BindingSets() []BindingSet
}

// ComputeState is a compiled compute pipeline.
type ComputeState interface {
	Resource

	BindingSets() []BindingSet
}

// RayTracingState is a compiled ray tracing pipeline.
type RayTracingState interface {
	Resource

	BindingSets() []BindingSet
	MaxRecursionDepth() uint32
}

// BottomLevelAS is an acceleration structure over triangle geometry.
type BottomLevelAS interface {
	Resource

	GeometryCount() int
}

// TopLevelAS is an acceleration structure over BLAS instances.
type TopLevelAS interface {
	Resource

	InstanceCount() int
}
