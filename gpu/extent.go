// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Extent2D is a width and height in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether either dimension is zero.
func (e Extent2D) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// AspectRatio returns width divided by height, or 1 for a zero height.
func (e Extent2D) AspectRatio() float32 {
	if e.Height == 0 {
		return 1
	}
	return float32(e.Width) / float32(e.Height)
}

// Extent3D returns e as a single-layer gputypes.Extent3D.
func (e Extent2D) Extent3D() gputypes.Extent3D {
	return gputypes.NewExtent2D(e.Width, e.Height)
}

// Half returns e with both dimensions halved, clamped to at least 1.
func (e Extent2D) Half() Extent2D {
	return Extent2D{Width: max(e.Width/2, 1), Height: max(e.Height/2, 1)}
}

// Min returns the per-dimension minimum of e and o.
func (e Extent2D) Min(o Extent2D) Extent2D {
	return Extent2D{Width: min(e.Width, o.Width), Height: min(e.Height, o.Height)}
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// LocalSize returns a compute workgroup size of x by y by 1.
func LocalSize(x, y uint32) gputypes.Extent3D {
	return gputypes.Extent3D{Width: x, Height: y, DepthOrArrayLayers: 1}
}
