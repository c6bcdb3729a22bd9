// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/urfave/cli"

	"github.com/gogpu/framegraph/backend/headless"
	"github.com/gogpu/framegraph/nodes"
)

func validatePipeline(ctx *cli.Context) error {
	setupLogging(ctx)
	w := ctx.App.Writer

	if ctx.Bool("shaders") {
		if err := validateShaders(w); err != nil {
			return err
		}
		if ctx.NArg() == 0 {
			return nil
		}
	}

	p, err := loadPipeline(ctx)
	if err != nil {
		return err
	}
	b, err := p.OpenBackend()
	if err != nil {
		return err
	}
	defer b.Close()
	g, err := p.NewGraph(b)
	if err != nil {
		return err
	}
	defer g.Close()
	if err := g.Setup(); err != nil {
		return err
	}

	table := newTable(w, "Node", "Name", "Publishes")
	for _, n := range g.Nodes() {
		published := g.Registry().Published(n.Name())
		table.Append([]string{n.Name(), displayName(n), strings.Join(published, ", ")})
	}
	table.Render()
	fmt.Fprintf(w, "%d nodes, %d resources\n", len(g.Nodes()), g.Registry().ResourceCount())
	return nil
}

func validateShaders(w io.Writer) error {
	failures, err := headless.CompileAll(nodes.Shaders, true)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		fmt.Fprintln(w, "all shaders compiled")
		return nil
	}
	table := newTable(w, "Shader", "Error")
	for _, path := range slices.Sorted(maps.Keys(failures)) {
		table.Append([]string{path, failures[path].Error()})
	}
	table.Render()
	return fmt.Errorf("%d shaders failed to compile", len(failures))
}
