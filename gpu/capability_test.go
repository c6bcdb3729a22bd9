// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCapabilityString(t *testing.T) {
	tests := []struct {
		c    Capability
		want string
	}{
		{CapabilityRtxRayTracing, "RtxRayTracing"},
		{CapabilityShader16BitFloat, "Shader16BitFloat"},
		{CapabilityShaderTextureArrayDynamicIndexing, "ShaderTextureArrayDynamicIndexing"},
		{CapabilityShaderBufferArrayDynamicIndexing, "ShaderBufferArrayDynamicIndexing"},
		{Capability(200), "Capability(200)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Capability(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestParseCapability(t *testing.T) {
	tests := []struct {
		in      string
		want    Capability
		wantErr bool
	}{
		{"RtxRayTracing", CapabilityRtxRayTracing, false},
		{"rtx-ray-tracing", CapabilityRtxRayTracing, false},
		{" shader_16bit_float ", CapabilityShader16BitFloat, false},
		{"shaderbufferarraydynamicindexing", CapabilityShaderBufferArrayDynamicIndexing, false},
		{"mesh-shaders", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCapability(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCapability(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseCapability(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMissingCapabilities(t *testing.T) {
	active := func(c Capability) bool { return c == CapabilityShader16BitFloat }

	tests := []struct {
		name     string
		required []Capability
		want     []Capability
	}{
		{"none required", nil, nil},
		{"subset", []Capability{CapabilityShader16BitFloat}, nil},
		{"missing rt", []Capability{CapabilityRtxRayTracing, CapabilityShader16BitFloat}, []Capability{CapabilityRtxRayTracing}},
		{"duplicates reported once", []Capability{CapabilityRtxRayTracing, CapabilityRtxRayTracing}, []Capability{CapabilityRtxRayTracing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingCapabilities(tt.required, active)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MissingCapabilities() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllCapabilities(t *testing.T) {
	all := AllCapabilities()
	if len(all) != 4 {
		t.Fatalf("len(AllCapabilities()) = %d, want 4", len(all))
	}
	for _, c := range all {
		if !c.Valid() {
			t.Errorf("%v.Valid() = false", c)
		}
	}
	if Capability(4).Valid() {
		t.Error("Capability(4).Valid() = true, want false")
	}
}

func TestCapabilityFeature(t *testing.T) {
	f, ok := CapabilityShader16BitFloat.Feature()
	if !ok || f != gputypes.FeatureShaderF16 {
		t.Errorf("Shader16BitFloat.Feature() = %v, %v, want FeatureShaderF16, true", f, ok)
	}
	if _, ok := CapabilityRtxRayTracing.Feature(); ok {
		t.Error("RtxRayTracing.Feature() ok = true, want false")
	}
}
