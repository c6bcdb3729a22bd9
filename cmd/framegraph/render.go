// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strconv"

	"github.com/urfave/cli"

	"github.com/gogpu/framegraph/app"
	"github.com/gogpu/framegraph/backend/headless"
)

// defaultFrames is rendered when neither the file nor --frames say.
const defaultFrames = 1

func renderPipeline(ctx *cli.Context) error {
	setupLogging(ctx)

	p, err := loadPipeline(ctx)
	if err != nil {
		return err
	}
	switch {
	case ctx.IsSet("frames"):
		p.File.Frames = ctx.Int("frames")
	case p.File.Frames == 0:
		p.File.Frames = defaultFrames
	}

	b, err := p.OpenBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := app.Run(runCtx, b, p, app.Options{MaxFrames: p.File.Frames, Assets: p.Assets})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "rendered %d frames in %s\n", res.Frames, res.Elapsed)
	if hb, ok := b.(*headless.Backend); ok {
		stats := hb.Stats()
		writeStats(w, stats)
		if stats.Failed > 0 {
			return fmt.Errorf("%d frames failed to record", stats.Failed)
		}
	}
	return nil
}

func writeStats(w io.Writer, stats headless.Stats) {
	table := newTable(w, "Command", "Count")
	for _, typ := range slices.Sorted(maps.Keys(stats.ByType)) {
		table.Append([]string{typ.String(), strconv.Itoa(stats.ByType[typ])})
	}
	table.SetFooter([]string{"TOTAL", strconv.Itoa(stats.Commands)})
	table.Render()
	fmt.Fprintf(w, "workgroups: %d, rays: %d\n", stats.Workgroups, stats.Rays)
}
