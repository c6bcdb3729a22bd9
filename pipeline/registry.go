// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"errors"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/scene"
)

// ErrUnknownNodeType is returned for a node block whose type has no
// registered factory.
var ErrUnknownNodeType = errors.New("pipeline: unknown node type")

// BuildContext is handed to node factories.
type BuildContext struct {
	// Scene is the scene every node draws.
	Scene *scene.Scene

	// Eval resolves variables and functions in node bodies.
	Eval *hcl.EvalContext
}

// Decode decodes body into the gohcl tagged struct pointed to by params.
// Attributes missing from body leave their fields untouched, so params
// may be prefilled with defaults.
func (c *BuildContext) Decode(body hcl.Body, params any) error {
	if diags := gohcl.DecodeBody(body, c.Eval, params); diags.HasErrors() {
		return diags
	}
	return nil
}

// Factory builds a node from a node block body.
type Factory func(ctx *BuildContext, body hcl.Body) (framegraph.Node, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// Register makes a node type available to pipeline files.
// Registering a nil factory or a type twice panics.
func Register(typ string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if f == nil {
		panic("pipeline: Register factory is nil")
	}
	if _, dup := factories[typ]; dup {
		panic("pipeline: Register called twice for node type " + typ)
	}
	factories[typ] = f
}

// Types returns the registered node types, sorted.
func Types() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func factoryFor(typ string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[typ]
	return f, ok
}
