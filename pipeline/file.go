// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrNoNodes is returned for a pipeline file without node blocks.
var ErrNoNodes = errors.New("pipeline: no node blocks")

// File is the decoded form of a pipeline file.
type File struct {
	Backend      string        `hcl:"backend,optional"`
	Scene        string        `hcl:"scene,optional"`
	Frames       int           `hcl:"frames,optional"`
	Window       *Window       `hcl:"window,block"`
	Capabilities *Capabilities `hcl:"capabilities,block"`
	Nodes        []*NodeBlock  `hcl:"node,block"`

	// eval is kept for the node bodies, which are decoded by Build.
	eval *hcl.EvalContext
}

type Window struct {
	Width  int `hcl:"width,optional"`
	Height int `hcl:"height,optional"`
}

// Capabilities lists capability names as accepted by gpu.ParseCapability.
type Capabilities struct {
	Required []string `hcl:"required,optional"`
	Optional []string `hcl:"optional,optional"`
}

// NodeBlock is one node "<type>" { ... } block. Its body is decoded by
// the factory registered for Type.
type NodeBlock struct {
	Type     string    `hcl:"type,label"`
	Body     hcl.Body  `hcl:",remain"`
	DefRange hcl.Range `hcl:",def_range"`
}

// ParseFS reads and parses the pipeline file name from fsys.
func ParseFS(fsys fs.FS, name string, vars map[string]any) (*File, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return Parse(data, name, vars)
}

// Parse parses a pipeline file. vars are exposed to expressions as
// var.<name>; their values must be convertible by gocty.
func Parse(data []byte, filename string, vars map[string]any) (*File, error) {
	eval, err := evalContext(vars)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	hf, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse pipeline file %s: %w", filename, diags)
	}

	f := &File{eval: eval}
	if diags := gohcl.DecodeBody(hf.Body, eval, f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode pipeline file %s: %w", filename, diags)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return f, nil
}

func (f *File) validate() error {
	if len(f.Nodes) == 0 {
		return ErrNoNodes
	}
	if f.Frames < 0 {
		return fmt.Errorf("pipeline: frames = %d, must not be negative", f.Frames)
	}
	if w := f.Window; w != nil && (w.Width < 0 || w.Height < 0) {
		return fmt.Errorf("pipeline: window %dx%d, must not be negative", w.Width, w.Height)
	}
	return nil
}

func evalContext(vars map[string]any) (*hcl.EvalContext, error) {
	values := make(map[string]cty.Value, len(vars))
	for name, v := range vars {
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return nil, fmt.Errorf("pipeline: variable %q: %w", name, err)
		}
		val, err := gocty.ToCtyValue(v, ty)
		if err != nil {
			return nil, fmt.Errorf("pipeline: variable %q: %w", name, err)
		}
		values[name] = val
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
		Functions: map[string]function.Function{
			"max":    stdlib.MaxFunc,
			"min":    stdlib.MinFunc,
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"format": stdlib.FormatFunc,
		},
	}, nil
}
