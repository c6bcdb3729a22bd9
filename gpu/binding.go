// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ShaderBindingType is the kind of resource a binding slot holds.
type ShaderBindingType uint8

const (
	BindingUniformBuffer ShaderBindingType = iota
	BindingStorageBuffer
	BindingStorageImage
	BindingTextureSampler
	BindingTextureSamplerArray
	BindingStorageBufferArray
	BindingAccelerationStructure
)

var bindingTypeNames = [...]string{
	BindingUniformBuffer:         "UniformBuffer",
	BindingStorageBuffer:         "StorageBuffer",
	BindingStorageImage:          "StorageImage",
	BindingTextureSampler:        "TextureSampler",
	BindingTextureSamplerArray:   "TextureSamplerArray",
	BindingStorageBufferArray:    "StorageBufferArray",
	BindingAccelerationStructure: "AccelerationStructure",
}

func (t ShaderBindingType) String() string {
	if int(t) < len(bindingTypeNames) {
		return bindingTypeNames[t]
	}
	return "Unknown"
}

// IsArray reports whether the binding holds an array of resources.
func (t ShaderBindingType) IsArray() bool {
	return t == BindingTextureSamplerArray || t == BindingStorageBufferArray
}

// ShaderBinding binds one resource, or an array of resources, to a slot.
type ShaderBinding struct {
	Index  uint32
	Stages ShaderStage
	Type   ShaderBindingType

	// Count is the declared array size. For arrays it may exceed the
	// number of resources supplied; it is 1 otherwise.
	Count uint32

	Buffers               []Buffer
	Textures              []Texture
	AccelerationStructure TopLevelAS
}

// UniformBinding binds buf as a uniform buffer.
func UniformBinding(index uint32, stages ShaderStage, buf Buffer) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingUniformBuffer, Count: 1, Buffers: []Buffer{buf}}
}

// StorageBufferBinding binds buf as a storage buffer.
func StorageBufferBinding(index uint32, stages ShaderStage, buf Buffer) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingStorageBuffer, Count: 1, Buffers: []Buffer{buf}}
}

// BufferArrayBinding binds bufs as an array of storage buffers.
func BufferArrayBinding(index uint32, stages ShaderStage, bufs []Buffer) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingStorageBufferArray, Count: uint32(len(bufs)), Buffers: bufs}
}

// TextureBinding binds tex as a sampled texture.
func TextureBinding(index uint32, stages ShaderStage, tex Texture) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingTextureSampler, Count: 1, Textures: []Texture{tex}}
}

// StorageImageBinding binds tex as a read-write storage image.
func StorageImageBinding(index uint32, stages ShaderStage, tex Texture) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingStorageImage, Count: 1, Textures: []Texture{tex}}
}

// TextureArrayBinding binds texs as an array of sampled textures declared
// with count elements in the shader.
func TextureArrayBinding(index uint32, stages ShaderStage, texs []Texture, count uint32) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingTextureSamplerArray, Count: count, Textures: texs}
}

// AccelerationStructureBinding binds tlas for ray queries and tracing.
func AccelerationStructureBinding(index uint32, stages ShaderStage, tlas TopLevelAS) ShaderBinding {
	return ShaderBinding{Index: index, Stages: stages, Type: BindingAccelerationStructure, Count: 1, AccelerationStructure: tlas}
}

// Validate checks a single binding.
func (b ShaderBinding) Validate() error {
	if b.Stages == 0 {
		return fmt.Errorf("%w: binding %d has no stages", ErrInvalidDescription, b.Index)
	}
	switch b.Type {
	case BindingUniformBuffer, BindingStorageBuffer:
		if len(b.Buffers) != 1 || b.Buffers[0] == nil {
			return fmt.Errorf("%w: binding %d needs one buffer", ErrInvalidDescription, b.Index)
		}
		want := gputypes.BufferUsageUniform
		if b.Type == BindingStorageBuffer {
			want = gputypes.BufferUsageStorage
		}
		if !b.Buffers[0].Usage().Contains(want) {
			return fmt.Errorf("%w: binding %d buffer lacks %s usage", ErrInvalidDescription, b.Index, b.Type)
		}
	case BindingTextureSampler, BindingStorageImage:
		if len(b.Textures) != 1 || b.Textures[0] == nil {
			return fmt.Errorf("%w: binding %d needs one texture", ErrInvalidDescription, b.Index)
		}
		want := gputypes.TextureUsageTextureBinding
		if b.Type == BindingStorageImage {
			want = gputypes.TextureUsageStorageBinding
		}
		if !b.Textures[0].Usage().Contains(want) {
			return fmt.Errorf("%w: binding %d texture lacks %s usage", ErrInvalidDescription, b.Index, b.Type)
		}
	case BindingStorageBufferArray:
		if len(b.Buffers) == 0 || uint32(len(b.Buffers)) > b.Count {
			return fmt.Errorf("%w: binding %d holds %d buffers for %d slots", ErrInvalidDescription, b.Index, len(b.Buffers), b.Count)
		}
		for _, buf := range b.Buffers {
			if buf == nil {
				return fmt.Errorf("%w: binding %d has a nil buffer", ErrInvalidDescription, b.Index)
			}
		}
	case BindingTextureSamplerArray:
		if len(b.Textures) == 0 || uint32(len(b.Textures)) > b.Count {
			return fmt.Errorf("%w: binding %d holds %d textures for %d slots", ErrInvalidDescription, b.Index, len(b.Textures), b.Count)
		}
		for _, tex := range b.Textures {
			if tex == nil {
				return fmt.Errorf("%w: binding %d has a nil texture", ErrInvalidDescription, b.Index)
			}
		}
	case BindingAccelerationStructure:
		if b.AccelerationStructure == nil {
			return fmt.Errorf("%w: binding %d has no acceleration structure", ErrInvalidDescription, b.Index)
		}
	default:
		return fmt.Errorf("%w: binding %d has unknown type %d", ErrInvalidDescription, b.Index, b.Type)
	}
	return nil
}

// ValidateBindings checks every binding and that slot indices are unique.
func ValidateBindings(bindings []ShaderBinding) error {
	seen := make(map[uint32]bool, len(bindings))
	for _, b := range bindings {
		if seen[b.Index] {
			return fmt.Errorf("%w: binding index %d used twice", ErrInvalidDescription, b.Index)
		}
		seen[b.Index] = true
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}
