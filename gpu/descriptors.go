// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"
)

// MemoryHint guides where a buffer lives.
type MemoryHint uint8

const (
	// MemoryHintGpuOptimal places the buffer in device memory, written
	// through staging.
	MemoryHintGpuOptimal MemoryHint = iota
	// MemoryHintGpuOnly is never written by the host after creation.
	MemoryHintGpuOnly
	// MemoryHintTransferOptimal is host visible and updated every frame.
	MemoryHintTransferOptimal
	// MemoryHintReadback is host visible and read back after GPU writes.
	MemoryHintReadback
)

var memoryHintNames = [...]string{
	MemoryHintGpuOptimal:      "GpuOptimal",
	MemoryHintGpuOnly:         "GpuOnly",
	MemoryHintTransferOptimal: "TransferOptimal",
	MemoryHintReadback:        "Readback",
}

func (h MemoryHint) String() string {
	if int(h) < len(memoryHintNames) {
		return memoryHintNames[h]
	}
	return "Unknown"
}

// Common texture usage combinations.
const (
	TextureUsageSampled          = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	TextureUsageAttachAndSample  = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
	TextureUsageStorageAndSample = gputypes.TextureUsageStorageBinding | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
)

// TextureDescription describes a texture to create.
type TextureDescription struct {
	Extent Extent2D
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage

	MinFilter gputypes.FilterMode
	MagFilter gputypes.FilterMode

	// MipFilter is MipmapFilterModeUndefined for textures without mips.
	MipFilter gputypes.MipmapFilterMode

	// SampleCount is 0 or 1 for single sampled textures.
	SampleCount uint32
}

// NewTextureDescription returns a linear filtered, single sampled
// description without mips.
func NewTextureDescription(extent Extent2D, format gputypes.TextureFormat, usage gputypes.TextureUsage) TextureDescription {
	return TextureDescription{
		Extent:      extent,
		Format:      format,
		Usage:       usage,
		MinFilter:   gputypes.FilterModeLinear,
		MagFilter:   gputypes.FilterModeLinear,
		SampleCount: 1,
	}
}

// HasMipmaps reports whether the texture has a full mip chain.
func (d TextureDescription) HasMipmaps() bool {
	return d.MipFilter != gputypes.MipmapFilterModeUndefined
}

// MipLevels returns the number of levels in the mip chain, 1 without mips.
func (d TextureDescription) MipLevels() uint32 {
	if !d.HasMipmaps() {
		return 1
	}
	return MipLevelCount(d.Extent)
}

// Validate checks the description preconditions.
func (d TextureDescription) Validate() error {
	if d.Extent.IsZero() {
		return fmt.Errorf("%w: texture extent %s", ErrInvalidDescription, d.Extent)
	}
	if d.Format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: texture format undefined", ErrInvalidDescription)
	}
	if d.Usage == gputypes.TextureUsageNone || d.Usage.ContainsUnknownBits() {
		return fmt.Errorf("%w: texture usage %#x", ErrInvalidDescription, uint64(d.Usage))
	}
	if d.Format.IsDepthStencil() && d.Usage.Contains(gputypes.TextureUsageStorageBinding) {
		return fmt.Errorf("%w: depth format %s cannot be a storage image", ErrInvalidDescription, d.Format)
	}
	if d.SampleCount > 1 && d.HasMipmaps() {
		return fmt.Errorf("%w: multisampled texture cannot have mips", ErrInvalidDescription)
	}
	return nil
}

// MipLevelCount returns floor(log2(max(width, height))) + 1.
func MipLevelCount(e Extent2D) uint32 {
	m := max(e.Width, e.Height)
	if m == 0 {
		return 1
	}
	return uint32(bits.Len32(m))
}

// BytesPerPixel returns the size of one texel for uncompressed color and
// depth formats, or 0 for formats the package does not know.
func BytesPerPixel(f gputypes.TextureFormat) uint32 {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRG16Float:
		return 4
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return 4
	case gputypes.TextureFormatRGBA16Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	case gputypes.TextureFormatDepth32Float, gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8:
		return 4
	default:
		return 0
	}
}

// AttachmentType selects the slot an attachment is bound to.
type AttachmentType uint8

const (
	AttachmentColor0 AttachmentType = iota
	AttachmentColor1
	AttachmentColor2
	AttachmentColor3
	AttachmentDepth
)

// IsColor reports whether t is a color slot.
func (t AttachmentType) IsColor() bool {
	return t < AttachmentDepth
}

// Attachment binds a texture to a render target slot.
type Attachment struct {
	Type    AttachmentType
	Texture Texture
	LoadOp  gputypes.LoadOp
	StoreOp gputypes.StoreOp
}

// ColorAttachment returns a cleared, stored color attachment.
func ColorAttachment(slot AttachmentType, tex Texture) Attachment {
	return Attachment{Type: slot, Texture: tex, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore}
}

// DepthAttachment returns a cleared, stored depth attachment.
func DepthAttachment(tex Texture) Attachment {
	return Attachment{Type: AttachmentDepth, Texture: tex, LoadOp: gputypes.LoadOpClear, StoreOp: gputypes.StoreOpStore}
}

// ValidateAttachments checks that attachments are non-empty, use distinct
// slots, match formats to slots and share one extent. It returns that
// extent.
func ValidateAttachments(attachments []Attachment) (Extent2D, error) {
	if len(attachments) == 0 {
		return Extent2D{}, fmt.Errorf("%w: render target without attachments", ErrInvalidDescription)
	}
	var extent Extent2D
	used := make(map[AttachmentType]bool, len(attachments))
	for i, a := range attachments {
		if a.Texture == nil {
			return Extent2D{}, fmt.Errorf("%w: attachment %d has no texture", ErrInvalidDescription, i)
		}
		if used[a.Type] {
			return Extent2D{}, fmt.Errorf("%w: attachment slot %d used twice", ErrInvalidDescription, a.Type)
		}
		used[a.Type] = true
		if a.Type.IsColor() == a.Texture.Format().HasDepth() {
			return Extent2D{}, fmt.Errorf("%w: attachment %d format %s does not fit slot", ErrInvalidDescription, i, a.Texture.Format())
		}
		if !a.Texture.Usage().Contains(gputypes.TextureUsageRenderAttachment) {
			return Extent2D{}, fmt.Errorf("%w: attachment %d texture lacks RenderAttachment usage", ErrInvalidDescription, i)
		}
		if i == 0 {
			extent = a.Texture.Extent()
		} else if a.Texture.Extent() != extent {
			return Extent2D{}, fmt.Errorf("%w: attachment %d extent %s does not match %s",
				ErrInvalidDescription, i, a.Texture.Extent(), extent)
		}
	}
	return extent, nil
}

// VertexLayout describes a single interleaved vertex buffer.
type VertexLayout struct {
	Stride     uint64
	Attributes []gputypes.VertexAttribute
}

// NewVertexLayout builds a tightly packed layout from formats, assigning
// shader locations in order.
func NewVertexLayout(formats ...gputypes.VertexFormat) VertexLayout {
	var layout VertexLayout
	for i, f := range formats {
		layout.Attributes = append(layout.Attributes, gputypes.VertexAttribute{
			Format:         f,
			Offset:         layout.Stride,
			ShaderLocation: uint32(i),
		})
		layout.Stride += f.Size()
	}
	return layout
}

// BufferLayout returns the layout as a per-vertex gputypes layout.
func (l VertexLayout) BufferLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: l.Stride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  l.Attributes,
	}
}

// Viewport is the rectangle rasterisation maps to.
type Viewport struct {
	X, Y          float32
	Width, Height float32
}

// ViewportFor returns a viewport covering extent.
func ViewportFor(extent Extent2D) Viewport {
	return Viewport{Width: float32(extent.Width), Height: float32(extent.Height)}
}

// BlendState configures color blending. A disabled state replaces.
type BlendState struct {
	Enabled bool
	State   gputypes.BlendState
}

// AlphaBlending returns standard non-premultiplied alpha blending.
func AlphaBlending() BlendState {
	return BlendState{Enabled: true, State: gputypes.BlendStateAlpha()}
}

// RasterState configures primitive assembly.
type RasterState struct {
	Topology  gputypes.PrimitiveTopology
	FrontFace gputypes.FrontFace
	CullMode  gputypes.CullMode
}

// DepthState configures depth testing.
type DepthState struct {
	TestDepth  bool
	WriteDepth bool
	Compare    gputypes.CompareFunction
}

// DefaultDepthState tests and writes depth with a less-than compare.
func DefaultDepthState() DepthState {
	return DepthState{TestDepth: true, WriteDepth: true, Compare: gputypes.CompareFunctionLess}
}

// DepthStencil converts the state to a gputypes depth-stencil state for
// the given depth format.
func (d DepthState) DepthStencil(format gputypes.TextureFormat) gputypes.DepthStencilState {
	ds := gputypes.DefaultDepthStencilState(format)
	ds.DepthWriteEnabled = d.WriteDepth
	ds.DepthCompare = d.Compare
	if !d.TestDepth {
		ds.DepthCompare = gputypes.CompareFunctionAlways
	}
	return ds
}

// RenderStateDescription holds everything needed to compile a raster
// pipeline.
type RenderStateDescription struct {
	Target       RenderTarget
	VertexLayout VertexLayout
	Shader       Shader
	BindingSets  []BindingSet
	Viewport     Viewport
	Blend        BlendState
	Raster       RasterState
	Depth        DepthState
}
