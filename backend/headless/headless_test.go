// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/gpu"
)

const vertexWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(-0.5, -0.5),
        vec2<f32>(0.5, -0.5),
        vec2<f32>(0.0, 0.5)
    );
    return vec4<f32>(pos[idx], 0.0, 1.0);
}
`

const fragmentWGSL = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

const computeWGSL = `
@compute @workgroup_size(64, 1, 1)
fn cs_main(@builtin(global_invocation_id) id: vec3<u32>) {
    var temp: u32 = id.x * 2u;
}
`

func colorTexture(t *testing.T, b *Backend, w, h uint32) gpu.Texture {
	t.Helper()
	tex, err := b.CreateTexture(gpu.NewTextureDescription(gpu.Extent2D{Width: w, Height: h},
		gputypes.TextureFormatRGBA16Float, gpu.TextureUsageAttachAndSample))
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	return tex
}

func TestCreateValidation(t *testing.T) {
	b := New(Config{})
	small := colorTexture(t, b, 16, 16)
	large := colorTexture(t, b, 32, 32)

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"zero buffer", func() error {
			_, err := b.CreateBuffer(0, gputypes.BufferUsageUniform, gpu.MemoryHintGpuOptimal)
			return err
		}, gpu.ErrInvalidDescription},
		{"no buffer usage", func() error {
			_, err := b.CreateBuffer(16, gputypes.BufferUsageNone, gpu.MemoryHintGpuOptimal)
			return err
		}, gpu.ErrInvalidDescription},
		{"zero texture", func() error {
			_, err := b.CreateTexture(gpu.NewTextureDescription(gpu.Extent2D{}, gputypes.TextureFormatRGBA8Unorm, gpu.TextureUsageSampled))
			return err
		}, gpu.ErrInvalidDescription},
		{"mismatched attachments", func() error {
			_, err := b.CreateRenderTarget([]gpu.Attachment{
				gpu.ColorAttachment(gpu.AttachmentColor0, small),
				gpu.ColorAttachment(gpu.AttachmentColor1, large),
			})
			return err
		}, gpu.ErrInvalidDescription},
		{"duplicate binding", func() error {
			_, err := b.CreateBindingSet([]gpu.ShaderBinding{
				gpu.TextureBinding(0, gpu.ShaderStageFragment, small),
				gpu.TextureBinding(0, gpu.ShaderStageFragment, large),
			})
			return err
		}, gpu.ErrInvalidDescription},
		{"blas without capability", func() error {
			_, err := b.CreateBottomLevelAccelerationStructure(nil)
			return err
		}, gpu.ErrCapabilityInactive},
		{"tlas without capability", func() error {
			_, err := b.CreateTopLevelAccelerationStructure(nil)
			return err
		}, gpu.ErrCapabilityInactive},
		{"compute state with raster shader", func() error {
			_, err := b.CreateComputeState(gpu.NewGraphicsShader("a.vert.wgsl", "a.frag.wgsl"), nil)
			return err
		}, gpu.ErrInvalidDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMemoryBudget(t *testing.T) {
	b := New(Config{MemoryBudget: 1024})
	if _, err := b.CreateBuffer(1000, gputypes.BufferUsageStorage, gpu.MemoryHintGpuOnly); err != nil {
		t.Fatalf("CreateBuffer(1000) error = %v", err)
	}
	_, err := b.CreateBuffer(100, gputypes.BufferUsageStorage, gpu.MemoryHintGpuOnly)
	if !errors.Is(err, gpu.ErrOutOfMemory) {
		t.Errorf("CreateBuffer over budget error = %v, want ErrOutOfMemory", err)
	}
}

func TestBufferUpdate(t *testing.T) {
	b := New(Config{})
	buf, err := b.CreateBuffer(8, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst, gpu.MemoryHintGpuOptimal)
	if err != nil {
		t.Fatal(err)
	}
	if err := buf.Update(4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := buf.(*buffer).Bytes(); got[4] != 1 || got[7] != 4 {
		t.Errorf("Bytes() = %v, want data at offset 4", got)
	}
	if err := buf.Update(6, []byte{1, 2, 3}); !errors.Is(err, gpu.ErrInvalidDescription) {
		t.Errorf("overflowing Update() error = %v, want ErrInvalidDescription", err)
	}

	ro, _ := b.CreateBuffer(4, gputypes.BufferUsageUniform, gpu.MemoryHintGpuOptimal)
	if err := ro.Update(0, []byte{1}); !errors.Is(err, gpu.ErrInvalidDescription) {
		t.Errorf("Update() on read-only buffer error = %v, want ErrInvalidDescription", err)
	}
}

func TestTextureMipUpload(t *testing.T) {
	b := New(Config{})
	desc := gpu.NewTextureDescription(gpu.Extent2D{Width: 4, Height: 2}, gputypes.TextureFormatRGBA8Unorm, gpu.TextureUsageSampled)
	desc.MipFilter = gputypes.MipmapFilterModeLinear
	tex, err := b.CreateTexture(desc)
	if err != nil {
		t.Fatal(err)
	}
	if tex.MipLevels() != 3 {
		t.Fatalf("MipLevels() = %d, want 3", tex.MipLevels())
	}
	sizes := []int{4 * 2 * 4, 2 * 1 * 4, 1 * 1 * 4}
	for level, n := range sizes {
		if err := tex.Upload(uint32(level), make([]byte, n)); err != nil {
			t.Errorf("Upload(%d, %d bytes) error = %v", level, n, err)
		}
	}
	if err := tex.Upload(0, make([]byte, 3)); err == nil {
		t.Error("Upload() with short data succeeded")
	}
	if err := tex.Upload(3, make([]byte, 4)); err == nil {
		t.Error("Upload() past last level succeeded")
	}
}

func TestReleaseTracking(t *testing.T) {
	b := New(Config{})
	buf, _ := b.CreateBuffer(64, gputypes.BufferUsageStorage, gpu.MemoryHintGpuOnly)
	tex := colorTexture(t, b, 8, 8)

	if got := b.LiveResources(); got != 2 {
		t.Errorf("LiveResources() = %d, want 2", got)
	}
	if err := buf.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := buf.Release(); !errors.Is(err, gpu.ErrReleased) {
		t.Errorf("second Release() error = %v, want ErrReleased", err)
	}
	if got, want := b.Allocated(), uint64(8*8*8); got != want {
		t.Errorf("Allocated() = %d, want %d", got, want)
	}
	_ = tex.Release()
	if got := b.LiveResources(); got != 0 {
		t.Errorf("LiveResources() = %d, want 0", got)
	}
}

func TestShaderCompilation(t *testing.T) {
	fsys := fstest.MapFS{
		"tri.vert.wgsl": {Data: []byte(vertexWGSL)},
		"tri.frag.wgsl": {Data: []byte(fragmentWGSL)},
		"sum.comp.wgsl": {Data: []byte(computeWGSL)},
		"bad.comp.wgsl": {Data: []byte("@compute fn broken(")},
	}
	b := New(Config{ShaderFS: fsys})
	target := b.WindowRenderTarget()

	rs, err := b.CreateRenderState(gpu.RenderStateDescription{
		Target: target,
		Shader: gpu.NewGraphicsShader("tri.vert.wgsl", "tri.frag.wgsl"),
	})
	if err != nil {
		t.Fatalf("CreateRenderState() error = %v", err)
	}
	for _, m := range rs.(*renderState).modules {
		if len(m.SPIRV) < 4 {
			t.Errorf("module %s has no SPIR-V", m.File.Path)
		}
	}

	if _, err := b.CreateComputeState(gpu.NewComputeShader("sum.comp.wgsl"), nil); err != nil {
		t.Errorf("CreateComputeState(sum) error = %v", err)
	}
	if _, err := b.CreateComputeState(gpu.NewComputeShader("bad.comp.wgsl"), nil); !errors.Is(err, gpu.ErrShaderCompile) {
		t.Errorf("CreateComputeState(bad) error = %v, want ErrShaderCompile", err)
	}
	if _, err := b.CreateComputeState(gpu.NewComputeShader("missing.comp.wgsl"), nil); !errors.Is(err, gpu.ErrShaderCompile) {
		t.Errorf("CreateComputeState(missing) error = %v, want ErrShaderCompile", err)
	}

	failures, err := CompileAll(fsys, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 1 || failures["bad.comp.wgsl"] == nil {
		t.Errorf("CompileAll() failures = %v, want only bad.comp.wgsl", failures)
	}
}

func TestRayTracingWithCapability(t *testing.T) {
	b := New(Config{Capabilities: []gpu.Capability{gpu.CapabilityRtxRayTracing}})
	vb, _ := b.CreateBuffer(36, gputypes.BufferUsageVertex|gputypes.BufferUsageStorage, gpu.MemoryHintGpuOnly)
	ib, _ := b.CreateBuffer(6, gputypes.BufferUsageIndex|gputypes.BufferUsageStorage, gpu.MemoryHintGpuOnly)

	blas, err := b.CreateBottomLevelAccelerationStructure([]gpu.RTGeometry{{
		VertexBuffer: vb,
		VertexFormat: gputypes.VertexFormatFloat32x3,
		VertexStride: 12,
		IndexBuffer:  ib,
		IndexFormat:  gputypes.IndexFormatUint16,
		Transform:    gpu.Identity,
	}})
	if err != nil {
		t.Fatalf("CreateBottomLevelAccelerationStructure() error = %v", err)
	}
	tlas, err := b.CreateTopLevelAccelerationStructure([]gpu.RTGeometryInstance{{
		BLAS: blas, Transform: gpu.Identity, HitMask: 0xff,
	}})
	if err != nil {
		t.Fatalf("CreateTopLevelAccelerationStructure() error = %v", err)
	}
	if tlas.InstanceCount() != 1 {
		t.Errorf("InstanceCount() = %d, want 1", tlas.InstanceCount())
	}

	sbt := gpu.ShaderBindingTable{
		RayGen:    gpu.NewShaderFile("fh.rgen.wgsl"),
		HitGroups: []gpu.HitGroup{{ClosestHit: gpu.NewShaderFile("fh.rchit.wgsl")}},
		Miss:      []gpu.ShaderFile{gpu.NewShaderFile("fh.rmiss.wgsl")},
	}
	if _, err := b.CreateRayTracingState(sbt, nil, 0); !errors.Is(err, gpu.ErrInvalidDescription) {
		t.Errorf("CreateRayTracingState(depth 0) error = %v, want ErrInvalidDescription", err)
	}
	if _, err := b.CreateRayTracingState(sbt, nil, 1); err != nil {
		t.Errorf("CreateRayTracingState() error = %v", err)
	}
}

func TestExecuteFrame(t *testing.T) {
	b := New(Config{Width: 320, Height: 200, MaxFrames: 2})
	var extents []gpu.Extent2D
	rec := gpu.FrameRecorderFunc(func(_, _ float64, e gpu.Extent2D, cmds *gpu.CommandList) error {
		extents = append(extents, e)
		cmds.DebugBarrier()
		return nil
	})

	for i := range 2 {
		if !b.ExecuteFrame(float64(i), 1.0/60, rec) {
			t.Fatalf("ExecuteFrame() frame %d = false, want true", i)
		}
	}
	if b.ExecuteFrame(2, 1.0/60, rec) {
		t.Error("ExecuteFrame() past MaxFrames = true, want false")
	}

	st := b.Stats()
	if st.Frames != 2 || st.ByType[gpu.CmdDebugBarrier] != 2 {
		t.Errorf("Stats() = %+v, want 2 frames with 2 barriers", st)
	}
	want := gpu.Extent2D{Width: 320, Height: 200}
	for _, e := range extents {
		if e != want {
			t.Errorf("recorded extent = %v, want %v", e, want)
		}
	}
}

func TestExecuteFrameFailures(t *testing.T) {
	b := New(Config{})
	if b.ExecuteFrame(0, 0, gpu.FrameRecorderFunc(func(float64, float64, gpu.Extent2D, *gpu.CommandList) error {
		return errors.New("boom")
	})) {
		t.Error("ExecuteFrame() with failing recorder = true, want false")
	}

	tex := colorTexture(t, b, 4, 4)
	_ = tex.Release()
	if b.ExecuteFrame(0, 0, gpu.FrameRecorderFunc(func(_, _ float64, _ gpu.Extent2D, cmds *gpu.CommandList) error {
		cmds.ClearTexture(tex, gputypes.ColorBlack)
		return nil
	})) {
		t.Error("ExecuteFrame() using a released texture = true, want false")
	}
	if got := b.Stats().Failed; got != 2 {
		t.Errorf("Stats().Failed = %d, want 2", got)
	}
}

type resizingWindow struct {
	gpucontext.NullWindowProvider
}

func TestWindowExtentFollowsProvider(t *testing.T) {
	win := &resizingWindow{gpucontext.NullWindowProvider{W: 100, H: 50, SF: 1}}
	b := New(Config{Window: win})
	if got := b.WindowRenderTarget().Extent(); got != (gpu.Extent2D{Width: 100, Height: 50}) {
		t.Errorf("Extent() = %v, want 100x50", got)
	}
	win.W, win.H = 640, 480
	if got := b.WindowRenderTarget().Extent(); got != (gpu.Extent2D{Width: 640, Height: 480}) {
		t.Errorf("Extent() after resize = %v, want 640x480", got)
	}
}

func TestRegisteredWithBackendPackage(t *testing.T) {
	b, err := backend.Open(backend.BackendHeadless, backend.Options{
		Capabilities: []gpu.Capability{gpu.CapabilityShader16BitFloat},
	})
	if err != nil {
		t.Fatalf("Open(headless) error = %v", err)
	}
	defer b.Close()
	if !b.HasActiveCapability(gpu.CapabilityShader16BitFloat) {
		t.Error("HasActiveCapability(Shader16BitFloat) = false, want true")
	}
	if b.HasActiveCapability(gpu.CapabilityRtxRayTracing) {
		t.Error("HasActiveCapability(RtxRayTracing) = true, want false")
	}
	if d, ok := b.(backend.Describer); !ok || d.AdapterInfo().Type != gpucontext.AdapterTypeSoftware {
		t.Error("headless backend does not describe itself as a software adapter")
	}
}
