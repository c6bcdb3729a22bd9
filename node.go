// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/input"
)

// FrameContext is the per-frame state handed to every execute function.
// It is rebuilt by the graph each frame and must not be retained.
type FrameContext struct {
	ElapsedTime  float64
	DeltaTime    float64
	FrameIndex   uint64
	WindowExtent gpu.Extent2D

	// Input is the input snapshot for this frame. It is never nil.
	Input *input.State
}

// ExecuteFunc records one node's work for a frame. It must not create
// resources; everything it touches was created during construction.
type ExecuteFunc func(frame *FrameContext, cmds *gpu.CommandList)

// Node is a self-contained render stage.
//
// ConstructFrame is called once during Setup, after every node's
// ConstructNode and after the ConstructFrame of all nodes listed before
// it. It may look up resources those nodes published and returns the
// function run every frame.
type Node interface {
	Name() string
	ConstructFrame(reg *Registry) (ExecuteFunc, error)
}

// NodeConstructor is implemented by nodes with persistent resources that
// do not depend on other nodes. ConstructNode runs before any
// ConstructFrame and must not publish; Publish returns ErrPublishPhase.
type NodeConstructor interface {
	ConstructNode(reg *Registry) error
}

// NodeFunc adapts a construct-frame function to a Node.
type NodeFunc struct {
	NodeName  string
	Construct func(reg *Registry) (ExecuteFunc, error)
}

// Name returns the node name.
func (f NodeFunc) Name() string { return f.NodeName }

// ConstructFrame calls f.Construct.
func (f NodeFunc) ConstructFrame(reg *Registry) (ExecuteFunc, error) {
	return f.Construct(reg)
}
