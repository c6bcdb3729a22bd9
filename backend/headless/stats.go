// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"fmt"
	"maps"

	"github.com/gogpu/framegraph/gpu"
)

// Stats accumulates what the backend executed.
type Stats struct {
	// Frames is the number of successfully executed frames.
	Frames int
	// Failed counts frames whose recording failed.
	Failed int

	Commands int
	ByType   map[gpu.CommandType]int

	// Workgroups is the total number of compute workgroups dispatched.
	Workgroups uint64
	// Rays is the total number of rays launched by TraceRays.
	Rays uint64

	// Elapsed is the elapsed time passed with the last frame.
	Elapsed float64
}

func newStats() Stats {
	return Stats{ByType: make(map[gpu.CommandType]int)}
}

func (s *Stats) record(cmds []gpu.Command, elapsed float64) {
	s.Frames++
	s.Commands += len(cmds)
	s.Elapsed = elapsed
	for _, c := range cmds {
		s.ByType[c.Type()]++
		switch c := c.(type) {
		case gpu.DispatchCommand:
			g := c.GroupCount
			s.Workgroups += uint64(g.Width) * uint64(g.Height) * uint64(g.DepthOrArrayLayers)
		case gpu.TraceRaysCommand:
			s.Rays += uint64(c.Extent.Width) * uint64(c.Extent.Height)
		}
	}
}

func (s Stats) clone() Stats {
	s.ByType = maps.Clone(s.ByType)
	return s
}

// checkReleased returns an error for the first command that references
// a released resource.
func checkReleased(cmds []gpu.Command) error {
	for i, c := range cmds {
		for _, res := range referenced(c) {
			if r, ok := res.(releaser); ok && r.isReleased() {
				return fmt.Errorf("command %d (%s): %s: %w", i, c.Type(), res.Kind(), gpu.ErrReleased)
			}
		}
	}
	return nil
}

func referenced(c gpu.Command) []gpu.Resource {
	switch c := c.(type) {
	case gpu.SetRenderStateCommand:
		return []gpu.Resource{c.State}
	case gpu.SetComputeStateCommand:
		return []gpu.Resource{c.State}
	case gpu.SetRayTracingStateCommand:
		return []gpu.Resource{c.State}
	case gpu.BindSetCommand:
		return []gpu.Resource{c.Set}
	case gpu.BindVertexBufferCommand:
		return []gpu.Resource{c.Buffer}
	case gpu.BindIndexBufferCommand:
		return []gpu.Resource{c.Buffer}
	case gpu.ClearTextureCommand:
		return []gpu.Resource{c.Texture}
	case gpu.CopyTextureCommand:
		return []gpu.Resource{c.Src, c.Dst}
	case gpu.TextureWriteBarrierCommand:
		return []gpu.Resource{c.Texture}
	}
	return nil
}
