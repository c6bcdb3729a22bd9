// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"fmt"
	"io/fs"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/nodes"
	"github.com/gogpu/framegraph/scene"
)

// Pipeline is a pipeline file resolved into a scene and nodes.
type Pipeline struct {
	File  *File
	Scene *scene.Scene
	Nodes []framegraph.Node

	Required []gpu.Capability
	Optional []gpu.Capability

	// Assets serves the scene file and the textures nodes load.
	Assets fs.FS
}

// Load parses the pipeline file name from fsys and builds it.
func Load(fsys fs.FS, name string, vars map[string]any) (*Pipeline, error) {
	f, err := ParseFS(fsys, name, vars)
	if err != nil {
		return nil, err
	}
	return Build(f, fsys)
}

// Build loads the scene f names from fsys, or starts an empty scene, and
// constructs every node block through its registered factory. fsys also
// serves the textures the nodes load.
func Build(f *File, fsys fs.FS) (*Pipeline, error) {
	p := &Pipeline{File: f, Assets: fsys}

	var err error
	if c := f.Capabilities; c != nil {
		if p.Required, err = parseCapabilities(c.Required); err != nil {
			return nil, err
		}
		if p.Optional, err = parseCapabilities(c.Optional); err != nil {
			return nil, err
		}
	}

	if f.Scene != "" {
		p.Scene, err = scene.Load(fsys, f.Scene)
		if err != nil {
			return nil, err
		}
	} else {
		p.Scene = scene.New()
	}

	ctx := &BuildContext{Scene: p.Scene, Eval: f.eval}
	for _, nb := range f.Nodes {
		factory, ok := factoryFor(nb.Type)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q (known: %v)", nb.DefRange, ErrUnknownNodeType, nb.Type, Types())
		}
		n, err := factory(ctx, nb.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: node %q: %w", nb.DefRange, nb.Type, err)
		}
		p.Nodes = append(p.Nodes, n)
	}

	framegraph.Logger().Info("pipeline: built",
		"nodes", len(p.Nodes), "meshes", p.Scene.MeshCount(), "required", p.Required)
	return p, nil
}

func parseCapabilities(names []string) ([]gpu.Capability, error) {
	caps := make([]gpu.Capability, 0, len(names))
	for _, name := range names {
		c, err := gpu.ParseCapability(name)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, nil
}

// BackendOptions returns the options to open the file's backend with. The
// backend is asked for every required and optional capability.
func (p *Pipeline) BackendOptions() backend.Options {
	opts := backend.Options{
		Capabilities: append(append([]gpu.Capability(nil), p.Required...), p.Optional...),
		ShaderFS:     nodes.Shaders,
		MaxFrames:    p.File.Frames,
	}
	if w := p.File.Window; w != nil {
		opts.Width, opts.Height = w.Width, w.Height
	}
	return opts
}

// OpenBackend opens the backend the file names, or the default backend.
func (p *Pipeline) OpenBackend() (gpu.Backend, error) {
	b, err := backend.Open(p.File.Backend, p.BackendOptions())
	if err != nil {
		return nil, err
	}
	framegraph.Logger().Info("pipeline: backend opened", "backend", p.File.Backend)
	return b, nil
}

// GraphOptions returns the graph options for the file's capabilities and
// assets.
func (p *Pipeline) GraphOptions() []framegraph.GraphOption {
	return []framegraph.GraphOption{
		framegraph.WithRequiredCapabilities(p.Required...),
		framegraph.WithOptionalCapabilities(p.Optional...),
		framegraph.WithAssetFS(p.Assets),
	}
}

// NewGraph returns a graph on b holding the pipeline's nodes. The graph
// is not set up.
func (p *Pipeline) NewGraph(b gpu.Backend) (*framegraph.Graph, error) {
	g := framegraph.New(b, p.GraphOptions()...)
	if err := p.Setup(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Pipeline implements app.App: Setup adds its nodes and Update does nothing.

func (p *Pipeline) RequiredCapabilities() []gpu.Capability { return p.Required }
func (p *Pipeline) OptionalCapabilities() []gpu.Capability { return p.Optional }

// Setup adds the pipeline's nodes to g in file order.
func (p *Pipeline) Setup(g *framegraph.Graph) error {
	for _, n := range p.Nodes {
		if err := g.AddNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) Update(elapsed, delta float64) {}
