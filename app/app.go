// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package app runs a frame graph against a backend until the backend,
// a frame limit or the caller stops it.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/multierr"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/input"
)

// App is a renderer built on a frame graph.
type App interface {
	// RequiredCapabilities must all be active or Run fails before Setup.
	RequiredCapabilities() []gpu.Capability

	// OptionalCapabilities are requested but not required.
	OptionalCapabilities() []gpu.Capability

	// Setup adds the app's nodes to g. Run sets the graph up afterwards.
	Setup(g *framegraph.Graph) error

	// Update is called before every frame with the seconds since the
	// first frame and since the previous one.
	Update(elapsed, delta float64)
}

// Options configures Run. The zero value runs until the backend stops.
type Options struct {
	// MaxFrames stops the loop after that many frames. Zero means no
	// limit.
	MaxFrames int

	// Assets is the file system textures are loaded from.
	Assets fs.FS

	// Now is the clock. Default: time.Now.
	Now func() time.Time
}

// Result describes a finished run.
type Result struct {
	Frames  int
	Elapsed time.Duration
}

// eventSource is implemented by backends that deliver input events.
type eventSource interface {
	Events() *input.Dispatcher
}

// Run builds a graph on b for a, sets it up and renders frames until
// ExecuteFrame returns false, opts.MaxFrames frames were rendered or ctx
// is done. The graph is closed before Run returns; the backend is not.
//
// When ctx ends the loop, Run returns ctx.Err() along with the result.
func Run(ctx context.Context, b gpu.Backend, a App, opts Options) (res Result, err error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	graphOpts := []framegraph.GraphOption{
		framegraph.WithRequiredCapabilities(a.RequiredCapabilities()...),
		framegraph.WithOptionalCapabilities(a.OptionalCapabilities()...),
	}
	if opts.Assets != nil {
		graphOpts = append(graphOpts, framegraph.WithAssetFS(opts.Assets))
	}
	g := framegraph.New(b, graphOpts...)
	defer func() {
		err = multierr.Append(err, g.Close())
	}()

	if src, ok := b.(eventSource); ok {
		g.Input().Attach(src.Events())
	}
	if err := a.Setup(g); err != nil {
		return res, fmt.Errorf("app: setup: %w", err)
	}
	if err := g.Setup(); err != nil {
		return res, err
	}

	start := now()
	last := start
	for opts.MaxFrames == 0 || res.Frames < opts.MaxFrames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		t := now()
		elapsed, delta := t.Sub(start).Seconds(), t.Sub(last).Seconds()
		last = t

		a.Update(elapsed, delta)
		if !b.ExecuteFrame(elapsed, delta, g) {
			break
		}
		res.Frames++
		res.Elapsed = t.Sub(start)
	}

	framegraph.Logger().Info("app: run finished", "frames", res.Frames, "elapsed", res.Elapsed)
	return res, nil
}
