// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"io/fs"

	"github.com/gogpu/framegraph/gpu"
)

// GraphOption configures a RenderGraph during creation.
//
// Example:
//
//	g := framegraph.New(backend,
//	    framegraph.WithRequiredCapabilities(gpu.CapabilityRtxRayTracing),
//	    framegraph.WithAssetFS(os.DirFS("assets")),
//	)
type GraphOption func(*graphOptions)

type graphOptions struct {
	required []gpu.Capability
	optional []gpu.Capability
	assets   fs.FS
}

func defaultOptions() graphOptions {
	return graphOptions{}
}

// WithRequiredCapabilities adds capabilities that must be active for
// Setup to succeed. Setup fails before any node is constructed if one is
// missing.
func WithRequiredCapabilities(caps ...gpu.Capability) GraphOption {
	return func(o *graphOptions) {
		o.required = append(o.required, caps...)
	}
}

// WithOptionalCapabilities adds capabilities the graph uses when present.
// Missing optional capabilities are logged at Warn level during Setup.
func WithOptionalCapabilities(caps ...gpu.Capability) GraphOption {
	return func(o *graphOptions) {
		o.optional = append(o.optional, caps...)
	}
}

// WithAssetFS sets the file system Registry.LoadTexture2D reads from.
func WithAssetFS(fsys fs.FS) GraphOption {
	return func(o *graphOptions) {
		o.assets = fsys
	}
}
