// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/input"
)

func init() {
	backend.Register(backend.BackendHeadless, func(opts backend.Options) (gpu.Backend, error) {
		return New(Config{
			Window:       opts.Window,
			Width:        opts.Width,
			Height:       opts.Height,
			Capabilities: opts.Capabilities,
			ShaderFS:     opts.ShaderFS,
			MaxFrames:    opts.MaxFrames,
		}), nil
	})
}

// Backend is the headless gpu.Backend.
//
// Backend is not safe for concurrent use, except for the event
// dispatcher returned by Events.
type Backend struct {
	cfg     Config
	active  map[gpu.Capability]bool
	shaders *shaderCache
	events  input.Dispatcher
	logger  atomic.Pointer[slog.Logger]

	nextID    uint64
	live      map[uint64]*resource
	allocated uint64

	window *renderTarget
	cmds   *gpu.CommandList
	last   []gpu.Command
	stats  Stats
	closed bool
}

var (
	_ gpu.Backend       = (*Backend)(nil)
	_ backend.Describer = (*Backend)(nil)
)

// New returns a headless backend configured by cfg.
func New(cfg Config) *Backend {
	cfg = cfg.withDefaults()
	b := &Backend{
		cfg:     cfg,
		active:  make(map[gpu.Capability]bool, len(cfg.Capabilities)),
		shaders: newShaderCache(cfg.ShaderFS, cfg.ValidateShaders),
		live:    make(map[uint64]*resource),
		cmds:    gpu.NewCommandList(),
		stats:   newStats(),
	}
	for _, c := range cfg.Capabilities {
		if c.Valid() {
			b.active[c] = true
		}
	}
	b.logger.Store(slog.New(slog.DiscardHandler))
	b.window = &renderTarget{window: b}
	b.window.resource = resource{owner: b, kind: gpu.KindRenderTarget}
	return b
}

// SetLogger sets the backend's logger. framegraph calls it when a graph
// is created on the backend.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.logger.Store(l)
}

func (b *Backend) log() *slog.Logger { return b.logger.Load() }

// Events returns the backend's event source. Hosts feed synthetic input
// through it.
func (b *Backend) Events() *input.Dispatcher { return &b.events }

// AdapterInfo describes the backend as an adapter.
func (b *Backend) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: b.cfg.AdapterName, Type: gpucontext.AdapterTypeSoftware}
}

// Capabilities returns the active capabilities in declaration order.
func (b *Backend) Capabilities() []gpu.Capability {
	var caps []gpu.Capability
	for _, c := range gpu.AllCapabilities() {
		if b.active[c] {
			caps = append(caps, c)
		}
	}
	return caps
}

// HasActiveCapability implements gpu.Backend.
func (b *Backend) HasActiveCapability(c gpu.Capability) bool { return b.active[c] }

// LiveResources returns the number of created and not yet released
// resources.
func (b *Backend) LiveResources() int { return len(b.live) }

// Allocated returns the bytes held by live buffers and textures.
func (b *Backend) Allocated() uint64 { return b.allocated }

func (b *Backend) track(kind gpu.ResourceKind, bytes uint64) (resource, error) {
	if b.closed {
		return resource{}, fmt.Errorf("headless: backend closed: %w", gpu.ErrReleased)
	}
	if b.allocated+bytes > b.cfg.MemoryBudget {
		return resource{}, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			gpu.ErrOutOfMemory, bytes, b.allocated, b.cfg.MemoryBudget)
	}
	b.nextID++
	b.allocated += bytes
	return resource{owner: b, id: b.nextID, kind: kind, bytes: bytes}, nil
}

// register records r as live once its handle is fully built.
func (b *Backend) register(r *resource) {
	b.live[r.id] = r
	b.log().Debug("headless: created", "kind", r.kind, "id", r.id, "bytes", r.bytes)
}

func (b *Backend) untrack(r *resource) {
	if _, ok := b.live[r.id]; !ok {
		return
	}
	delete(b.live, r.id)
	b.allocated -= r.bytes
}

func (b *Backend) requireRayTracing() error {
	if !b.active[gpu.CapabilityRtxRayTracing] {
		return fmt.Errorf("%w: %s", gpu.ErrCapabilityInactive, gpu.CapabilityRtxRayTracing)
	}
	return nil
}

// CreateBuffer implements gpu.Backend.
func (b *Backend) CreateBuffer(size uint64, usage gputypes.BufferUsage, hint gpu.MemoryHint) (gpu.Buffer, error) {
	switch {
	case size == 0:
		return nil, fmt.Errorf("%w: buffer size is zero", gpu.ErrInvalidDescription)
	case usage == gputypes.BufferUsageNone || usage.ContainsUnknownBits():
		return nil, fmt.Errorf("%w: buffer usage %#x", gpu.ErrInvalidDescription, uint64(usage))
	}
	res, err := b.track(gpu.KindBuffer, size)
	if err != nil {
		return nil, err
	}
	buf := &buffer{resource: res, usage: usage, hint: hint, data: make([]byte, size)}
	b.register(&buf.resource)
	return buf, nil
}

// CreateTexture implements gpu.Backend.
func (b *Backend) CreateTexture(desc gpu.TextureDescription) (gpu.Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	bpp := uint64(gpu.BytesPerPixel(desc.Format))
	if bpp == 0 {
		return nil, fmt.Errorf("%w: unsupported format %s", gpu.ErrInvalidDescription, desc.Format)
	}
	levels := make([][]byte, desc.MipLevels())
	var total uint64
	for i := range levels {
		e := levelExtent(desc.Extent, uint32(i))
		total += uint64(e.Width) * uint64(e.Height) * bpp
	}
	res, err := b.track(gpu.KindTexture, total)
	if err != nil {
		return nil, err
	}
	for i := range levels {
		e := levelExtent(desc.Extent, uint32(i))
		levels[i] = make([]byte, uint64(e.Width)*uint64(e.Height)*bpp)
	}
	tex := &texture{resource: res, desc: desc, levels: levels}
	b.register(&tex.resource)
	return tex, nil
}

// CreateRenderTarget implements gpu.Backend.
func (b *Backend) CreateRenderTarget(attachments []gpu.Attachment) (gpu.RenderTarget, error) {
	extent, err := gpu.ValidateAttachments(attachments)
	if err != nil {
		return nil, err
	}
	for _, a := range attachments {
		if r, ok := a.Texture.(releaser); ok && r.isReleased() {
			return nil, fmt.Errorf("%w: attachment %d", gpu.ErrReleased, a.Type)
		}
	}
	res, err := b.track(gpu.KindRenderTarget, 0)
	if err != nil {
		return nil, err
	}
	rt := &renderTarget{resource: res, extent: extent, attachments: slices.Clone(attachments)}
	b.register(&rt.resource)
	return rt, nil
}

// CreateBindingSet implements gpu.Backend.
func (b *Backend) CreateBindingSet(bindings []gpu.ShaderBinding) (gpu.BindingSet, error) {
	if err := gpu.ValidateBindings(bindings); err != nil {
		return nil, err
	}
	for _, sb := range bindings {
		if sb.Type == gpu.BindingAccelerationStructure {
			if err := b.requireRayTracing(); err != nil {
				return nil, err
			}
		}
		if sb.Stages.IsRayTracing() {
			if err := b.requireRayTracing(); err != nil {
				return nil, err
			}
		}
	}
	res, err := b.track(gpu.KindBindingSet, 0)
	if err != nil {
		return nil, err
	}
	set := &bindingSet{resource: res, bindings: slices.Clone(bindings)}
	b.register(&set.resource)
	return set, nil
}

// CreateRenderState implements gpu.Backend.
func (b *Backend) CreateRenderState(desc gpu.RenderStateDescription) (gpu.RenderState, error) {
	if desc.Target == nil {
		return nil, fmt.Errorf("%w: render state without target", gpu.ErrInvalidDescription)
	}
	if desc.Shader.Type != gpu.ShaderTypeRaster {
		return nil, fmt.Errorf("%w: render state needs a raster shader", gpu.ErrInvalidDescription)
	}
	if err := desc.Shader.Validate(); err != nil {
		return nil, err
	}
	if desc.Depth.TestDepth && !desc.Target.HasDepthAttachment() {
		return nil, fmt.Errorf("%w: depth test without depth attachment", gpu.ErrInvalidDescription)
	}
	modules, err := b.shaders.load(desc.Shader.Files)
	if err != nil {
		return nil, err
	}
	res, err := b.track(gpu.KindRenderState, 0)
	if err != nil {
		return nil, err
	}
	desc.BindingSets = slices.Clone(desc.BindingSets)
	rs := &renderState{resource: res, desc: desc, modules: modules}
	b.register(&rs.resource)
	return rs, nil
}

// CreateComputeState implements gpu.Backend.
func (b *Backend) CreateComputeState(shader gpu.Shader, sets []gpu.BindingSet) (gpu.ComputeState, error) {
	if shader.Type != gpu.ShaderTypeCompute {
		return nil, fmt.Errorf("%w: compute state needs a compute shader", gpu.ErrInvalidDescription)
	}
	if err := shader.Validate(); err != nil {
		return nil, err
	}
	modules, err := b.shaders.load(shader.Files)
	if err != nil {
		return nil, err
	}
	res, err := b.track(gpu.KindComputeState, 0)
	if err != nil {
		return nil, err
	}
	cs := &computeState{resource: res, sets: slices.Clone(sets), modules: modules}
	b.register(&cs.resource)
	return cs, nil
}

// CreateRayTracingState implements gpu.Backend.
func (b *Backend) CreateRayTracingState(sbt gpu.ShaderBindingTable, sets []gpu.BindingSet, maxRecursionDepth uint32) (gpu.RayTracingState, error) {
	if err := b.requireRayTracing(); err != nil {
		return nil, err
	}
	if err := sbt.Validate(); err != nil {
		return nil, err
	}
	if maxRecursionDepth == 0 {
		return nil, fmt.Errorf("%w: max recursion depth is zero", gpu.ErrInvalidDescription)
	}
	modules, err := b.shaders.load(sbt.Files())
	if err != nil {
		return nil, err
	}
	res, err := b.track(gpu.KindRayTracingState, 0)
	if err != nil {
		return nil, err
	}
	rts := &rayTracingState{resource: res, sets: slices.Clone(sets), depth: maxRecursionDepth, sbt: sbt, modules: modules}
	b.register(&rts.resource)
	return rts, nil
}

// CreateBottomLevelAccelerationStructure implements gpu.Backend.
func (b *Backend) CreateBottomLevelAccelerationStructure(geometries []gpu.RTGeometry) (gpu.BottomLevelAS, error) {
	if err := b.requireRayTracing(); err != nil {
		return nil, err
	}
	if len(geometries) == 0 {
		return nil, fmt.Errorf("%w: BLAS without geometry", gpu.ErrInvalidDescription)
	}
	for i, g := range geometries {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
	}
	res, err := b.track(gpu.KindBottomLevelAS, 0)
	if err != nil {
		return nil, err
	}
	blas := &bottomLevelAS{resource: res, geometries: slices.Clone(geometries)}
	b.register(&blas.resource)
	return blas, nil
}

// CreateTopLevelAccelerationStructure implements gpu.Backend.
func (b *Backend) CreateTopLevelAccelerationStructure(instances []gpu.RTGeometryInstance) (gpu.TopLevelAS, error) {
	if err := b.requireRayTracing(); err != nil {
		return nil, err
	}
	for i, inst := range instances {
		if err := inst.Validate(); err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		if r, ok := inst.BLAS.(releaser); ok && r.isReleased() {
			return nil, fmt.Errorf("instance %d: %w", i, gpu.ErrReleased)
		}
	}
	res, err := b.track(gpu.KindTopLevelAS, 0)
	if err != nil {
		return nil, err
	}
	tlas := &topLevelAS{resource: res, instances: slices.Clone(instances)}
	b.register(&tlas.resource)
	return tlas, nil
}

// WindowRenderTarget implements gpu.Backend. Its extent follows the
// window provider.
func (b *Backend) WindowRenderTarget() gpu.RenderTarget { return b.window }

func (b *Backend) windowExtent() gpu.Extent2D {
	w, h := b.cfg.Window.Size()
	return gpu.Extent2D{Width: uint32(max(w, 0)), Height: uint32(max(h, 0))}
}

// ExecuteFrame implements gpu.Backend. It records the frame through rec,
// checks that no command references a released resource and updates the
// statistics. It returns false once MaxFrames frames ran, after Close, or
// when recording fails.
func (b *Backend) ExecuteFrame(elapsed, delta float64, rec gpu.FrameRecorder) bool {
	if b.closed {
		return false
	}
	if b.cfg.MaxFrames > 0 && b.stats.Frames >= b.cfg.MaxFrames {
		return false
	}

	b.cmds.Reset()
	extent := b.windowExtent()
	if err := rec.RecordFrame(elapsed, delta, extent, b.cmds); err != nil {
		b.log().Warn("headless: frame recording failed", "frame", b.stats.Frames, "err", err)
		b.stats.Failed++
		return false
	}
	if err := checkReleased(b.cmds.Commands()); err != nil {
		b.log().Warn("headless: frame uses released resource", "frame", b.stats.Frames, "err", err)
		b.stats.Failed++
		return false
	}

	b.last = append(b.last[:0], b.cmds.Commands()...)
	b.stats.record(b.last, elapsed)
	if b.log().Enabled(context.Background(), slog.LevelDebug) {
		b.log().Debug("headless: frame executed", "frame", b.stats.Frames-1,
			"commands", len(b.last), "extent", extent)
	}
	return true
}

// LastFrame returns the commands of the most recent successful frame.
// The slice is reused by the next frame.
func (b *Backend) LastFrame() []gpu.Command { return b.last }

// Stats returns a copy of the frame statistics.
func (b *Backend) Stats() Stats { return b.stats.clone() }

// Close implements gpu.Backend. Resources still alive are reported and
// dropped.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if n := len(b.live); n > 0 {
		b.log().Warn("headless: closed with live resources", "count", n)
	}
	clear(b.live)
	b.allocated = 0
	b.log().Info("headless: closed", "frames", b.stats.Frames)
	return nil
}
