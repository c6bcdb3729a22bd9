// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "github.com/gogpu/gputypes"

type testBuffer struct {
	size  uint64
	usage gputypes.BufferUsage
}

func (b *testBuffer) Kind() ResourceKind            { return KindBuffer }
func (b *testBuffer) Release() error                { return nil }
func (b *testBuffer) Size() uint64                  { return b.size }
func (b *testBuffer) Usage() gputypes.BufferUsage   { return b.usage }
func (b *testBuffer) MemoryHint() MemoryHint        { return MemoryHintGpuOptimal }
func (b *testBuffer) Update(uint64, []byte) error   { return nil }

type testTexture struct {
	extent Extent2D
	format gputypes.TextureFormat
	usage  gputypes.TextureUsage
}

func (t *testTexture) Kind() ResourceKind             { return KindTexture }
func (t *testTexture) Release() error                 { return nil }
func (t *testTexture) Extent() Extent2D               { return t.extent }
func (t *testTexture) Format() gputypes.TextureFormat { return t.format }
func (t *testTexture) Usage() gputypes.TextureUsage   { return t.usage }
func (t *testTexture) MipLevels() uint32              { return 1 }
func (t *testTexture) Upload(uint32, []byte) error    { return nil }

type testSet struct{ bindings []ShaderBinding }

func (s *testSet) Kind() ResourceKind        { return KindBindingSet }
func (s *testSet) Release() error            { return nil }
func (s *testSet) Bindings() []ShaderBinding { return s.bindings }

type testPipeline struct {
	kind ResourceKind
	sets []BindingSet
}

func (p *testPipeline) Kind() ResourceKind         { return p.kind }
func (p *testPipeline) Release() error             { return nil }
func (p *testPipeline) BindingSets() []BindingSet  { return p.sets }
func (p *testPipeline) RenderTarget() RenderTarget { return nil }
func (p *testPipeline) MaxRecursionDepth() uint32  { return 1 }

func newColorTexture(w, h uint32) *testTexture {
	return &testTexture{
		extent: Extent2D{Width: w, Height: h},
		format: gputypes.TextureFormatRGBA16Float,
		usage:  TextureUsageStorageAndSample | gputypes.TextureUsageRenderAttachment,
	}
}
