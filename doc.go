// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framegraph drives a renderer built from named render nodes.
//
// # Overview
//
// A Graph holds an ordered list of nodes that share one Registry. Each node
// creates its persistent GPU resources once, publishes the ones other nodes
// need under a label, and returns a function that records its work every
// frame. The GPU itself sits behind the gpu.Backend interface.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/framegraph"
//		"github.com/gogpu/framegraph/backend/headless"
//	)
//
//	b := headless.New(headless.Config{Width: 640, Height: 480})
//	g := framegraph.New(b)
//	defer g.Close()
//
//	g.AddNode(gbufferNode)
//	g.AddNode(lightingNode) // looks up ("g-buffer", "normal")
//
//	if err := g.Setup(); err != nil {
//		log.Fatal(err)
//	}
//	for b.ExecuteFrame(elapsed, delta, g) {
//		// advance time
//	}
//
// # Construction
//
// Setup first checks the graph's required capabilities. It then calls
// ConstructNode on every node implementing NodeConstructor, and finally
// ConstructFrame on every node, always in the order the nodes were added.
// Resources are published from ConstructFrame only, so a node can only
// look up resources published by nodes added before it. Any error aborts Setup; there is no partially constructed
// graph.
//
// # Resources
//
// The Registry owns every resource it creates and releases them in reverse
// creation order when the graph is closed. Nodes hold plain interface
// values and never release anything themselves. Lookups name the
// producing node and label explicitly:
//
//	normal, err := reg.RequireTexture("g-buffer", "normal")
//
// After Setup the registry is sealed; per-frame code only records
// commands.
//
// # Logging
//
// framegraph logs through log/slog and is silent by default. See
// SetLogger.
package framegraph
