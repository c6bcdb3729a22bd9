// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/gogpu/framegraph/backend"
	"github.com/gogpu/framegraph/gpu"
)

func listCapabilities(ctx *cli.Context) error {
	setupLogging(ctx)
	w := ctx.App.Writer

	name := ctx.String("backend")
	if name == "" {
		name = backend.Default()
	}
	b, err := backend.Open(name, backend.Options{Capabilities: gpu.AllCapabilities()})
	if err != nil {
		return err
	}
	defer b.Close()

	fmt.Fprintf(w, "backend: %s\n", name)
	if d, ok := b.(backend.Describer); ok {
		info := d.AdapterInfo()
		fmt.Fprintf(w, "adapter: %s (%s)\n", info.Name, info.Type)
	}

	table := newTable(w, "Capability", "Active", "WebGPU feature")
	for _, c := range gpu.AllCapabilities() {
		feature := "-"
		if f, ok := c.Feature(); ok {
			feature = f.String()
		}
		table.Append([]string{c.String(), strconv.FormatBool(b.HasActiveCapability(c)), feature})
	}
	table.Render()
	return nil
}
