// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/backend/headless"
	"github.com/gogpu/framegraph/gpu"
)

// newTestGraph returns a graph on a fresh headless backend. Both are
// closed when the test ends.
func newTestGraph(t *testing.T, cfg headless.Config, opts ...GraphOption) (*Graph, *headless.Backend) {
	t.Helper()
	b := headless.New(cfg)
	g := New(b, opts...)
	t.Cleanup(func() {
		_ = g.Close()
		_ = b.Close()
	})
	return g, b
}

// producer publishes a color texture of the given extent as "color".
func producer(name string, extent gpu.Extent2D) NodeFunc {
	return NodeFunc{NodeName: name, Construct: func(reg *Registry) (ExecuteFunc, error) {
		tex, err := reg.CreateTexture2D(extent, gputypes.TextureFormatRGBA16Float, gpu.TextureUsageStorageAndSample)
		if err != nil {
			return nil, err
		}
		if err := reg.Publish("color", tex); err != nil {
			return nil, err
		}
		return func(_ *FrameContext, cmds *gpu.CommandList) {
			cmds.ClearTexture(tex, gputypes.ColorBlack)
		}, nil
	}}
}

// persistentProducer creates its texture in ConstructNode. It publishes
// it in ConstructFrame unless publishEarly is set.
type persistentProducer struct {
	name         string
	publishEarly bool
	tex          gpu.Texture
}

func (p *persistentProducer) Name() string { return p.name }

func (p *persistentProducer) ConstructNode(reg *Registry) error {
	tex, err := reg.CreateTexture2D(gpu.Extent2D{Width: 8, Height: 8}, gputypes.TextureFormatRGBA8Unorm, gpu.TextureUsageSampled)
	if err != nil {
		return err
	}
	p.tex = tex
	if p.publishEarly {
		return reg.Publish("color", tex)
	}
	return nil
}

func (p *persistentProducer) ConstructFrame(reg *Registry) (ExecuteFunc, error) {
	if p.publishEarly {
		return nil, nil
	}
	return nil, reg.Publish("color", p.tex)
}

// consumer requires ("from", "color") and records every frame it sees.
type consumer struct {
	name   string
	from   string
	seen   gpu.Texture
	frames []uint64
}

func (c *consumer) Name() string { return c.name }

func (c *consumer) ConstructFrame(reg *Registry) (ExecuteFunc, error) {
	tex, err := reg.RequireTexture(c.from, "color")
	if err != nil {
		return nil, err
	}
	c.seen = tex
	return func(frame *FrameContext, cmds *gpu.CommandList) {
		c.frames = append(c.frames, frame.FrameIndex)
		cmds.TextureWriteBarrier(tex)
	}, nil
}

// countingNode counts how often each construct phase runs.
type countingNode struct {
	name           string
	constructNode  int
	constructFrame int
}

func (n *countingNode) Name() string { return n.name }

func (n *countingNode) ConstructNode(*Registry) error {
	n.constructNode++
	return nil
}

func (n *countingNode) ConstructFrame(*Registry) (ExecuteFunc, error) {
	n.constructFrame++
	return nil, nil
}

// releaseLog wraps buffers so their release order can be observed.
type releaseLog struct {
	*headless.Backend
	order []uint64
}

type loggedBuffer struct {
	gpu.Buffer
	log *releaseLog
}

func (b *loggedBuffer) Release() error {
	b.log.order = append(b.log.order, b.Size())
	return b.Buffer.Release()
}

func (l *releaseLog) CreateBuffer(size uint64, usage gputypes.BufferUsage, hint gpu.MemoryHint) (gpu.Buffer, error) {
	buf, err := l.Backend.CreateBuffer(size, usage, hint)
	if err != nil {
		return nil, err
	}
	return &loggedBuffer{Buffer: buf, log: l}, nil
}
