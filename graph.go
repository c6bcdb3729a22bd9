// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"

	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/input"
)

// Graph owns an ordered list of nodes and the Registry they share.
//
// A Graph is assembled with AddNode, constructed once with Setup and then
// rendered once per frame. Nodes run in the order they were added, both
// during construction and every frame; a node that looks up another
// node's published resource must be added after it.
//
// Graph implements gpu.FrameRecorder, so a frame is driven with
//
//	backend.ExecuteFrame(elapsed, delta, g)
//
// Graph is not safe for concurrent use.
type Graph struct {
	backend  gpu.Backend
	opts     graphOptions
	registry *Registry
	input    *input.State

	nodes    []Node
	names    map[string]struct{}
	executes []ExecuteFunc

	setUp      bool
	failed     bool
	frameIndex uint64
}

// New creates an empty graph drawing on backend.
func New(backend gpu.Backend, opts ...GraphOption) *Graph {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	propagateLogger(backend)
	return &Graph{
		backend:  backend,
		opts:     o,
		registry: newRegistry(backend, o.assets),
		input:    input.NewState(),
		names:    make(map[string]struct{}),
	}
}

// AddNode appends n to the graph. Names must be unique.
func (g *Graph) AddNode(n Node) error {
	if g.setUp || g.failed {
		return ErrSealed
	}
	name := n.Name()
	if _, dup := g.names[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	g.names[name] = struct{}{}
	g.nodes = append(g.nodes, n)
	return nil
}

// Nodes returns the nodes in execution order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Registry returns the graph's registry, unscoped to any node.
func (g *Graph) Registry() *Registry { return g.registry }

// Input returns the input state handed to nodes every frame.
func (g *Graph) Input() *input.State { return g.input }

// FrameIndex returns the index the next recorded frame will carry.
func (g *Graph) FrameIndex() uint64 { return g.frameIndex }

// Setup constructs every node.
//
// Required capabilities are checked first; if any is inactive Setup
// returns a *CapabilityError and no node is constructed. Then every
// node's ConstructNode runs, followed by every node's ConstructFrame, in
// the order the nodes were added. The first failure aborts Setup and
// leaves the graph unusable; resources created so far are released by
// Close.
func (g *Graph) Setup() error {
	switch {
	case g.setUp:
		return fmt.Errorf("framegraph: Setup called twice")
	case g.failed:
		return fmt.Errorf("framegraph: Setup after failed setup")
	}
	if err := g.setup(); err != nil {
		g.failed = true
		g.registry.seal()
		Logger().Error("framegraph: setup failed", "err", err)
		return err
	}
	g.setUp = true
	g.registry.seal()
	Logger().Info("framegraph: setup complete",
		"nodes", len(g.nodes), "resources", g.registry.ResourceCount())
	return nil
}

func (g *Graph) setup() error {
	if missing := gpu.MissingCapabilities(g.opts.required, g.backend.HasActiveCapability); len(missing) > 0 {
		return &CapabilityError{Missing: missing}
	}
	for _, c := range g.opts.optional {
		if !g.backend.HasActiveCapability(c) {
			Logger().Warn("framegraph: optional capability not active", "capability", c)
		}
	}

	if err := g.constructNodes(); err != nil {
		return err
	}

	g.executes = make([]ExecuteFunc, 0, len(g.nodes))
	for _, n := range g.nodes {
		exec, err := n.ConstructFrame(g.registry.forNode(n.Name()))
		if err != nil {
			return &NodeError{Node: n.Name(), Phase: "construct frame", Err: err}
		}
		if exec == nil {
			exec = func(*FrameContext, *gpu.CommandList) {}
		}
		g.executes = append(g.executes, exec)
	}
	return nil
}

func (g *Graph) constructNodes() error {
	g.registry.state.nodePhase = true
	defer func() { g.registry.state.nodePhase = false }()
	for _, n := range g.nodes {
		nc, ok := n.(NodeConstructor)
		if !ok {
			continue
		}
		if err := nc.ConstructNode(g.registry.forNode(n.Name())); err != nil {
			return &NodeError{Node: n.Name(), Phase: "construct node", Err: err}
		}
	}
	return nil
}

// Render runs every node's execute function, in order, against cmds.
// It returns the first command misuse recorded in cmds.
func (g *Graph) Render(frame *FrameContext, cmds *gpu.CommandList) error {
	if !g.setUp {
		return ErrNotSetUp
	}
	for _, exec := range g.executes {
		exec(frame, cmds)
	}
	return cmds.Err()
}

// RecordFrame implements gpu.FrameRecorder. Frame indices start at zero
// and increase by one per recorded frame.
func (g *Graph) RecordFrame(elapsed, delta float64, windowExtent gpu.Extent2D, cmds *gpu.CommandList) error {
	frame := FrameContext{
		ElapsedTime:  elapsed,
		DeltaTime:    delta,
		FrameIndex:   g.frameIndex,
		WindowExtent: windowExtent,
		Input:        g.input,
	}
	err := g.Render(&frame, cmds)
	if err != nil {
		return err
	}
	cmds.Finish()
	g.frameIndex++
	g.input.BeginFrame()
	return cmds.Err()
}

// Close releases every resource the graph's nodes created. It does not
// close the backend.
func (g *Graph) Close() error {
	forgetLogger(g.backend)
	g.executes = nil
	return g.registry.Close()
}
