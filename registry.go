// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"slices"

	"github.com/gogpu/gputypes"
	"go.uber.org/multierr"

	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/internal/imageio"
)

// Registry creates, owns and names the resources of one graph.
//
// Every resource created through a Registry is owned by it and released
// by Close in reverse creation order. Nodes receive a Registry scoped to
// their own name: Publish records entries under that name, and lookups
// name the producing node explicitly.
//
// A Registry is sealed once graph setup completes; creating or
// publishing afterwards returns ErrSealed.
//
// Registry is not safe for concurrent use.
type Registry struct {
	node  string
	state *registryState
}

type registryState struct {
	backend gpu.Backend
	assets  fs.FS

	resources []gpu.Resource

	pixelCache map[pixelKey]gpu.Texture
	loadCache  map[string]loadedTexture

	published    map[publishKey]gpu.Resource
	publishOrder []publishKey

	// nodePhase is set while ConstructNode runs; nothing may be
	// published then.
	nodePhase bool
	sealed    bool
	closed    bool
}

type pixelKey struct {
	rgba uint32
	srgb bool
}

type loadedTexture struct {
	tex          gpu.Texture
	srgb         bool
	generateMips bool
}

type publishKey struct {
	node  string
	label string
}

func newRegistry(backend gpu.Backend, assets fs.FS) *Registry {
	return &Registry{state: &registryState{
		backend:    backend,
		assets:     assets,
		pixelCache: make(map[pixelKey]gpu.Texture),
		loadCache:  make(map[string]loadedTexture),
		published:  make(map[publishKey]gpu.Resource),
	}}
}

// forNode returns a view of r that publishes as node.
func (r *Registry) forNode(node string) *Registry {
	return &Registry{node: node, state: r.state}
}

// Node returns the name of the node this view belongs to.
func (r *Registry) Node() string { return r.node }

// HasCapability reports whether the backend has c active. Nodes use it to
// choose between optional feature paths.
func (r *Registry) HasCapability(c gpu.Capability) bool {
	return r.state.backend.HasActiveCapability(c)
}

// WindowRenderTarget returns the backend's window target.
func (r *Registry) WindowRenderTarget() gpu.RenderTarget {
	return r.state.backend.WindowRenderTarget()
}

// ResourceCount returns the number of resources owned by the registry.
func (r *Registry) ResourceCount() int {
	return len(r.state.resources)
}

func (r *Registry) checkWritable() error {
	switch {
	case r.state.closed:
		return fmt.Errorf("framegraph: registry closed: %w", gpu.ErrReleased)
	case r.state.sealed:
		return ErrSealed
	}
	return nil
}

func (r *Registry) seal() { r.state.sealed = true }

// create runs fn and takes ownership of its result.
func create[T gpu.Resource](r *Registry, kind gpu.ResourceKind, fn func() (T, error)) (T, error) {
	var zero T
	if err := r.checkWritable(); err != nil {
		return zero, err
	}
	res, err := fn()
	if err != nil {
		return zero, &ResourceError{Node: r.node, Kind: kind, Err: err}
	}
	r.state.resources = append(r.state.resources, res)
	Logger().Debug("framegraph: resource created", "node", r.node, "kind", kind, "index", len(r.state.resources)-1)
	return res, nil
}

// CreateBuffer creates an uninitialised buffer of size bytes.
func (r *Registry) CreateBuffer(size uint64, usage gputypes.BufferUsage, hint gpu.MemoryHint) (gpu.Buffer, error) {
	return create(r, gpu.KindBuffer, func() (gpu.Buffer, error) {
		return r.state.backend.CreateBuffer(size, usage, hint)
	})
}

// CreateBufferWithData creates a buffer holding data. CopyDst is added to
// usage so the initial upload is legal.
func (r *Registry) CreateBufferWithData(data []byte, usage gputypes.BufferUsage, hint gpu.MemoryHint) (gpu.Buffer, error) {
	return create(r, gpu.KindBuffer, func() (gpu.Buffer, error) {
		buf, err := r.state.backend.CreateBuffer(uint64(len(data)), usage|gputypes.BufferUsageCopyDst, hint)
		if err != nil {
			return nil, err
		}
		if err := buf.Update(0, data); err != nil {
			return nil, multierr.Append(err, buf.Release())
		}
		return buf, nil
	})
}

// CreateBufferFromSlice creates a buffer holding data encoded little
// endian. T must have a fixed size as defined by encoding/binary.
func CreateBufferFromSlice[T any](r *Registry, data []T, usage gputypes.BufferUsage, hint gpu.MemoryHint) (gpu.Buffer, error) {
	if binary.Size(data) < 0 {
		return nil, &ResourceError{Node: r.node, Kind: gpu.KindBuffer,
			Err: fmt.Errorf("%w: %T has no fixed size", gpu.ErrInvalidDescription, data)}
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return nil, &ResourceError{Node: r.node, Kind: gpu.KindBuffer, Err: err}
	}
	return r.CreateBufferWithData(buf.Bytes(), usage, hint)
}

// CreateTexture creates a texture from a full description.
func (r *Registry) CreateTexture(desc gpu.TextureDescription) (gpu.Texture, error) {
	return create(r, gpu.KindTexture, func() (gpu.Texture, error) {
		return r.state.backend.CreateTexture(desc)
	})
}

// CreateTexture2D creates a linear filtered texture without mips.
func (r *Registry) CreateTexture2D(extent gpu.Extent2D, format gputypes.TextureFormat, usage gputypes.TextureUsage) (gpu.Texture, error) {
	return r.CreateTexture(gpu.NewTextureDescription(extent, format, usage))
}

// CreateRenderTarget creates a render target over attachments.
func (r *Registry) CreateRenderTarget(attachments []gpu.Attachment) (gpu.RenderTarget, error) {
	return create(r, gpu.KindRenderTarget, func() (gpu.RenderTarget, error) {
		return r.state.backend.CreateRenderTarget(attachments)
	})
}

// CreateBindingSet creates a binding set.
func (r *Registry) CreateBindingSet(bindings []gpu.ShaderBinding) (gpu.BindingSet, error) {
	return create(r, gpu.KindBindingSet, func() (gpu.BindingSet, error) {
		return r.state.backend.CreateBindingSet(bindings)
	})
}

// CreateRenderState compiles a raster pipeline.
func (r *Registry) CreateRenderState(desc gpu.RenderStateDescription) (gpu.RenderState, error) {
	return create(r, gpu.KindRenderState, func() (gpu.RenderState, error) {
		return r.state.backend.CreateRenderState(desc)
	})
}

// CreateBottomLevelAccelerationStructure builds a BLAS over geometries.
func (r *Registry) CreateBottomLevelAccelerationStructure(geometries []gpu.RTGeometry) (gpu.BottomLevelAS, error) {
	return create(r, gpu.KindBottomLevelAS, func() (gpu.BottomLevelAS, error) {
		return r.state.backend.CreateBottomLevelAccelerationStructure(geometries)
	})
}

// CreateTopLevelAccelerationStructure builds a TLAS over instances.
func (r *Registry) CreateTopLevelAccelerationStructure(instances []gpu.RTGeometryInstance) (gpu.TopLevelAS, error) {
	return create(r, gpu.KindTopLevelAS, func() (gpu.TopLevelAS, error) {
		return r.state.backend.CreateTopLevelAccelerationStructure(instances)
	})
}

// CreateRayTracingState compiles a ray tracing pipeline.
func (r *Registry) CreateRayTracingState(sbt gpu.ShaderBindingTable, sets []gpu.BindingSet, maxRecursionDepth uint32) (gpu.RayTracingState, error) {
	return create(r, gpu.KindRayTracingState, func() (gpu.RayTracingState, error) {
		return r.state.backend.CreateRayTracingState(sbt, sets, maxRecursionDepth)
	})
}

// CreateComputeState compiles a compute pipeline.
func (r *Registry) CreateComputeState(shader gpu.Shader, sets []gpu.BindingSet) (gpu.ComputeState, error) {
	return create(r, gpu.KindComputeState, func() (gpu.ComputeState, error) {
		return r.state.backend.CreateComputeState(shader, sets)
	})
}

// CreatePixelTexture returns a 1x1 texture of color. Calls with colors
// that quantise to the same 8-bit value and the same srgb flag return the
// same texture.
func (r *Registry) CreatePixelTexture(color gputypes.Color, srgb bool) (gpu.Texture, error) {
	key := pixelKey{rgba: quantizeColor(color), srgb: srgb}
	if tex, ok := r.state.pixelCache[key]; ok {
		return tex, nil
	}

	format := gputypes.TextureFormatRGBA8Unorm
	if srgb {
		format = gputypes.TextureFormatRGBA8UnormSrgb
	}
	desc := gpu.NewTextureDescription(gpu.Extent2D{Width: 1, Height: 1}, format, gpu.TextureUsageSampled)
	desc.MinFilter, desc.MagFilter = gputypes.FilterModeNearest, gputypes.FilterModeNearest

	tex, err := r.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	var px [4]byte
	binary.LittleEndian.PutUint32(px[:], key.rgba)
	if err := tex.Upload(0, px[:]); err != nil {
		return nil, &ResourceError{Node: r.node, Kind: gpu.KindTexture, Err: err}
	}
	r.state.pixelCache[key] = tex
	return tex, nil
}

// quantizeColor packs c into RGBA8, R in the lowest byte.
func quantizeColor(c gputypes.Color) uint32 {
	q := func(v float64) uint32 {
		v = math.Max(0, math.Min(1, v))
		return uint32(math.Round(v * 255))
	}
	return q(c.R) | q(c.G)<<8 | q(c.B)<<16 | q(c.A)<<24
}

// LoadTexture2D decodes the image at path from the graph's asset file
// system into a texture. Repeated loads of a path return the cached
// texture; if the flags differ from the first load a warning is logged
// and the cached texture is still returned.
func (r *Registry) LoadTexture2D(path string, srgb, generateMips bool) (gpu.Texture, error) {
	if cached, ok := r.state.loadCache[path]; ok {
		if cached.srgb != srgb || cached.generateMips != generateMips {
			Logger().Warn("framegraph: texture reloaded with different flags",
				"node", r.node, "path", path, "srgb", srgb, "mips", generateMips)
		}
		return cached.tex, nil
	}
	if r.state.assets == nil {
		return nil, &ResourceError{Node: r.node, Kind: gpu.KindTexture,
			Err: fmt.Errorf("load %s: no asset file system configured", path)}
	}

	img, err := imageio.Load(r.state.assets, path)
	if err != nil {
		return nil, &ResourceError{Node: r.node, Kind: gpu.KindTexture, Err: err}
	}

	format := gputypes.TextureFormatRGBA8Unorm
	if srgb {
		format = gputypes.TextureFormatRGBA8UnormSrgb
	}
	extent := gpu.Extent2D{Width: uint32(img.Rect.Dx()), Height: uint32(img.Rect.Dy())}
	desc := gpu.NewTextureDescription(extent, format, gpu.TextureUsageSampled)
	if generateMips {
		desc.MipFilter = gputypes.MipmapFilterModeLinear
	}

	tex, err := r.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	for level, mip := range imageio.MipChain(img, int(tex.MipLevels())) {
		if err := tex.Upload(uint32(level), mip.Pix); err != nil {
			return nil, &ResourceError{Node: r.node, Kind: gpu.KindTexture, Err: err}
		}
	}
	r.state.loadCache[path] = loadedTexture{tex: tex, srgb: srgb, generateMips: generateMips}
	Logger().Debug("framegraph: texture loaded", "node", r.node, "path", path, "extent", extent, "mips", tex.MipLevels())
	return tex, nil
}

// Publish makes res visible to later nodes as (node, label). Publishing a
// label twice from the same node is an error, and so is publishing from
// ConstructNode: entries appear during ConstructFrame so that only nodes
// listed after the producer can see them.
func (r *Registry) Publish(label string, res gpu.Resource) error {
	if err := r.checkWritable(); err != nil {
		return err
	}
	if r.state.nodePhase {
		return fmt.Errorf("%w: node %q, label %q", ErrPublishPhase, r.node, label)
	}
	if res == nil {
		return fmt.Errorf("framegraph: node %q: publish %q: nil resource", r.node, label)
	}
	key := publishKey{node: r.node, label: label}
	if _, dup := r.state.published[key]; dup {
		return &PublishError{Node: r.node, Label: label}
	}
	r.state.published[key] = res
	r.state.publishOrder = append(r.state.publishOrder, key)
	Logger().Debug("framegraph: published", "node", r.node, "label", label, "kind", res.Kind())
	return nil
}

func lookup[T gpu.Resource](r *Registry, node, label string) (T, bool) {
	res, ok := r.state.published[publishKey{node: node, label: label}]
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := res.(T)
	return typed, ok
}

// GetTexture returns the texture node published as label. A miss is not
// an error; callers fall back or call RequireTexture.
func (r *Registry) GetTexture(node, label string) (gpu.Texture, bool) {
	return lookup[gpu.Texture](r, node, label)
}

// GetBuffer returns the buffer node published as label.
func (r *Registry) GetBuffer(node, label string) (gpu.Buffer, bool) {
	return lookup[gpu.Buffer](r, node, label)
}

// GetTopLevelAccelerationStructure returns the TLAS node published as
// label.
func (r *Registry) GetTopLevelAccelerationStructure(node, label string) (gpu.TopLevelAS, bool) {
	return lookup[gpu.TopLevelAS](r, node, label)
}

// RequireTexture is GetTexture for nodes with no fallback.
func (r *Registry) RequireTexture(node, label string) (gpu.Texture, error) {
	if tex, ok := r.GetTexture(node, label); ok {
		return tex, nil
	}
	return nil, &LookupError{Consumer: r.node, Node: node, Label: label, Kind: gpu.KindTexture}
}

// RequireBuffer is GetBuffer for nodes with no fallback.
func (r *Registry) RequireBuffer(node, label string) (gpu.Buffer, error) {
	if buf, ok := r.GetBuffer(node, label); ok {
		return buf, nil
	}
	return nil, &LookupError{Consumer: r.node, Node: node, Label: label, Kind: gpu.KindBuffer}
}

// RequireTopLevelAccelerationStructure is GetTopLevelAccelerationStructure
// for nodes with no fallback.
func (r *Registry) RequireTopLevelAccelerationStructure(node, label string) (gpu.TopLevelAS, error) {
	if tlas, ok := r.GetTopLevelAccelerationStructure(node, label); ok {
		return tlas, nil
	}
	return nil, &LookupError{Consumer: r.node, Node: node, Label: label, Kind: gpu.KindTopLevelAS}
}

// Published returns the labels node published, in publish order.
func (r *Registry) Published(node string) []string {
	var labels []string
	for _, k := range r.state.publishOrder {
		if k.node == node {
			labels = append(labels, k.label)
		}
	}
	return labels
}

// Close releases every owned resource in reverse creation order and
// returns all release errors combined. Close is idempotent.
func (r *Registry) Close() error {
	s := r.state
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	for _, res := range slices.Backward(s.resources) {
		if rerr := res.Release(); rerr != nil {
			Logger().Warn("framegraph: release failed", "kind", res.Kind(), "err", rerr)
			err = multierr.Append(err, rerr)
		}
	}
	s.resources = nil
	clear(s.pixelCache)
	clear(s.loadCache)
	clear(s.published)
	s.publishOrder = nil
	return err
}
