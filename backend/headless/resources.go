// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/gpu"
)

// resource is embedded in every handle type.
type resource struct {
	owner    *Backend
	id       uint64
	kind     gpu.ResourceKind
	bytes    uint64
	released bool
}

func (r *resource) Kind() gpu.ResourceKind { return r.kind }

func (r *resource) Release() error {
	if r.released {
		return fmt.Errorf("%s %d: %w", r.kind, r.id, gpu.ErrReleased)
	}
	r.released = true
	r.owner.untrack(r)
	return nil
}

func (r *resource) isReleased() bool { return r.released }

type releaser interface {
	isReleased() bool
}

// ID returns the backend-unique resource id, starting at 1.
func (r *resource) ID() uint64 { return r.id }

type buffer struct {
	resource
	usage gputypes.BufferUsage
	hint  gpu.MemoryHint
	data  []byte
}

func (b *buffer) Size() uint64                { return uint64(len(b.data)) }
func (b *buffer) Usage() gputypes.BufferUsage { return b.usage }
func (b *buffer) MemoryHint() gpu.MemoryHint  { return b.hint }
func (b *buffer) Bytes() []byte               { return b.data }

func (b *buffer) Update(offset uint64, data []byte) error {
	switch {
	case b.released:
		return gpu.ErrReleased
	case !b.usage.Contains(gputypes.BufferUsageCopyDst) && !b.usage.Contains(gputypes.BufferUsageMapWrite):
		return fmt.Errorf("%w: buffer %d is not writable (usage %#x)", gpu.ErrInvalidDescription, b.id, uint64(b.usage))
	case offset+uint64(len(data)) > uint64(len(b.data)):
		return fmt.Errorf("%w: write of %d bytes at %d overflows buffer of %d",
			gpu.ErrInvalidDescription, len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

type texture struct {
	resource
	desc   gpu.TextureDescription
	levels [][]byte
}

func (t *texture) Extent() gpu.Extent2D           { return t.desc.Extent }
func (t *texture) Format() gputypes.TextureFormat { return t.desc.Format }
func (t *texture) Usage() gputypes.TextureUsage   { return t.desc.Usage }
func (t *texture) MipLevels() uint32              { return uint32(len(t.levels)) }

// Level returns the stored pixels of a mip level.
func (t *texture) Level(level uint32) []byte { return t.levels[level] }

func (t *texture) Upload(level uint32, data []byte) error {
	if t.released {
		return gpu.ErrReleased
	}
	if int(level) >= len(t.levels) {
		return fmt.Errorf("%w: mip level %d of %d", gpu.ErrInvalidDescription, level, len(t.levels))
	}
	if want := len(t.levels[level]); len(data) != want {
		return fmt.Errorf("%w: level %d needs %d bytes, got %d", gpu.ErrInvalidDescription, level, want, len(data))
	}
	copy(t.levels[level], data)
	return nil
}

// levelExtent returns the extent of mip level.
func levelExtent(e gpu.Extent2D, level uint32) gpu.Extent2D {
	return gpu.Extent2D{Width: max(e.Width>>level, 1), Height: max(e.Height>>level, 1)}
}

type renderTarget struct {
	resource
	extent      gpu.Extent2D
	attachments []gpu.Attachment

	// window is set for the window target, whose extent follows the
	// window provider.
	window *Backend
}

func (r *renderTarget) Extent() gpu.Extent2D {
	if r.window != nil {
		return r.window.windowExtent()
	}
	return r.extent
}

func (r *renderTarget) ColorAttachmentCount() int {
	if r.window != nil {
		return 1
	}
	n := 0
	for _, a := range r.attachments {
		if a.Type.IsColor() {
			n++
		}
	}
	return n
}

func (r *renderTarget) HasDepthAttachment() bool {
	for _, a := range r.attachments {
		if a.Type == gpu.AttachmentDepth {
			return true
		}
	}
	return false
}

type bindingSet struct {
	resource
	bindings []gpu.ShaderBinding
}

func (s *bindingSet) Bindings() []gpu.ShaderBinding { return s.bindings }

type renderState struct {
	resource
	desc    gpu.RenderStateDescription
	modules []shaderModule
}

func (s *renderState) RenderTarget() gpu.RenderTarget { return s.desc.Target }
func (s *renderState) BindingSets() []gpu.BindingSet  { return s.desc.BindingSets }

type computeState struct {
	resource
	sets    []gpu.BindingSet
	modules []shaderModule
}

func (s *computeState) BindingSets() []gpu.BindingSet { return s.sets }

type rayTracingState struct {
	resource
	sets    []gpu.BindingSet
	depth   uint32
	sbt     gpu.ShaderBindingTable
	modules []shaderModule
}

func (s *rayTracingState) BindingSets() []gpu.BindingSet { return s.sets }
func (s *rayTracingState) MaxRecursionDepth() uint32     { return s.depth }

type bottomLevelAS struct {
	resource
	geometries []gpu.RTGeometry
}

func (a *bottomLevelAS) GeometryCount() int { return len(a.geometries) }

type topLevelAS struct {
	resource
	instances []gpu.RTGeometryInstance
}

func (a *topLevelAS) InstanceCount() int { return len(a.instances) }
