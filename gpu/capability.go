// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Capability identifies an optional GPU feature.
type Capability uint8

const (
	// CapabilityRtxRayTracing enables acceleration structures and
	// ray tracing pipelines.
	CapabilityRtxRayTracing Capability = iota

	// CapabilityShader16BitFloat enables 16-bit floats in shader code.
	CapabilityShader16BitFloat

	// CapabilityShaderTextureArrayDynamicIndexing allows non-uniform
	// indexing into arrays of sampled textures.
	CapabilityShaderTextureArrayDynamicIndexing

	// CapabilityShaderBufferArrayDynamicIndexing allows non-uniform
	// indexing into arrays of storage buffers.
	CapabilityShaderBufferArrayDynamicIndexing

	capabilityCount
)

var capabilityNames = [...]string{
	CapabilityRtxRayTracing:                     "RtxRayTracing",
	CapabilityShader16BitFloat:                  "Shader16BitFloat",
	CapabilityShaderTextureArrayDynamicIndexing: "ShaderTextureArrayDynamicIndexing",
	CapabilityShaderBufferArrayDynamicIndexing:  "ShaderBufferArrayDynamicIndexing",
}

// String returns the capability name.
func (c Capability) String() string {
	if int(c) < len(capabilityNames) {
		return capabilityNames[c]
	}
	return fmt.Sprintf("Capability(%d)", uint8(c))
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	return c < capabilityCount
}

// Feature returns the WebGPU feature bit that backs this capability on
// backends built on gogpu/wgpu. The second result is false for
// capabilities with no WebGPU equivalent.
func (c Capability) Feature() (gputypes.Feature, bool) {
	if c == CapabilityShader16BitFloat {
		return gputypes.FeatureShaderF16, true
	}
	return 0, false
}

// AllCapabilities returns every known capability in declaration order.
func AllCapabilities() []Capability {
	all := make([]Capability, 0, capabilityCount)
	for c := Capability(0); c < capabilityCount; c++ {
		all = append(all, c)
	}
	return all
}

// ParseCapability parses a capability name. Matching is case-insensitive
// and ignores '-' and '_' so "rtx-ray-tracing" and "RtxRayTracing" are
// equivalent.
func ParseCapability(s string) (Capability, error) {
	norm := normalizeCapabilityName(s)
	for c := Capability(0); c < capabilityCount; c++ {
		if normalizeCapabilityName(capabilityNames[c]) == norm {
			return c, nil
		}
	}
	return 0, fmt.Errorf("gpu: unknown capability %q", s)
}

func normalizeCapabilityName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

// MissingCapabilities returns the members of required for which active
// reports false, in the order they appear in required. Duplicates are
// reported once.
func MissingCapabilities(required []Capability, active func(Capability) bool) []Capability {
	var missing []Capability
	seen := make(map[Capability]bool, len(required))
	for _, c := range required {
		if seen[c] {
			continue
		}
		seen[c] = true
		if !active(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
