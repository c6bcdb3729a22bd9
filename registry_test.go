// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/backend/headless"
	"github.com/gogpu/framegraph/gpu"
)

// setupWith runs construct as the only node of a fresh graph.
func setupWith(t *testing.T, cfg headless.Config, construct func(reg *Registry) error, opts ...GraphOption) (*Graph, error) {
	t.Helper()
	g, _ := newTestGraph(t, cfg, opts...)
	err := g.AddNode(NodeFunc{NodeName: "node", Construct: func(reg *Registry) (ExecuteFunc, error) {
		return nil, construct(reg)
	}})
	if err != nil {
		t.Fatal(err)
	}
	return g, g.Setup()
}

func TestPublishLookupIdentity(t *testing.T) {
	var published, looked gpu.Texture
	var tlasOK bool
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		tex, err := reg.CreateTexture2D(gpu.Extent2D{Width: 2, Height: 2}, gputypes.TextureFormatRGBA8Unorm, gpu.TextureUsageSampled)
		if err != nil {
			return err
		}
		published = tex
		if err := reg.Publish("tex", tex); err != nil {
			return err
		}
		looked, _ = reg.GetTexture("node", "tex")
		_, tlasOK = reg.GetTopLevelAccelerationStructure("node", "tex")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if looked != published {
		t.Error("GetTexture() returned a different handle than the one published")
	}
	if tlasOK {
		t.Error("GetTopLevelAccelerationStructure() found a texture label")
	}
}

func TestLookupMiss(t *testing.T) {
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		if _, ok := reg.GetBuffer("other", "missing"); ok {
			t.Error("GetBuffer() of unknown label reported ok")
		}
		_, err := reg.RequireBuffer("other", "missing")
		var lookup *LookupError
		if !errors.As(err, &lookup) || lookup.Consumer != "node" || lookup.Kind != gpu.KindBuffer {
			t.Errorf("RequireBuffer() error = %v, want LookupError from node for Buffer", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDuplicatePublish(t *testing.T) {
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		buf, err := reg.CreateBuffer(16, gputypes.BufferUsageUniform, gpu.MemoryHintGpuOptimal)
		if err != nil {
			return err
		}
		if err := reg.Publish("camera", buf); err != nil {
			return err
		}
		return reg.Publish("camera", buf)
	})
	if !errors.Is(err, ErrDuplicatePublish) {
		t.Errorf("Setup() error = %v, want ErrDuplicatePublish", err)
	}
}

func TestPixelTextureCache(t *testing.T) {
	red := gputypes.Color{R: 1, A: 1}
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		a, err := reg.CreatePixelTexture(red, false)
		if err != nil {
			return err
		}
		tests := []struct {
			name  string
			color gputypes.Color
			srgb  bool
			same  bool
		}{
			{"same color", red, false, true},
			{"quantizes equal", gputypes.Color{R: 0.9999, A: 1}, false, true},
			{"srgb flag", red, true, false},
			{"different color", gputypes.Color{G: 1, A: 1}, false, false},
		}
		for _, tt := range tests {
			b, err := reg.CreatePixelTexture(tt.color, tt.srgb)
			if err != nil {
				return err
			}
			if (a == b) != tt.same {
				t.Errorf("%s: same texture = %v, want %v", tt.name, a == b, tt.same)
			}
		}
		if got := a.Extent(); got != (gpu.Extent2D{Width: 1, Height: 1}) {
			t.Errorf("pixel texture extent = %v, want 1x1", got)
		}
		if raw, ok := a.(interface{ Level(uint32) []byte }); ok {
			if px := raw.Level(0); !bytes.Equal(px, []byte{255, 0, 0, 255}) {
				t.Errorf("pixel = %v, want [255 0 0 255]", px)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadTexture2DCache(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	assets := fstest.MapFS{"textures/albedo.png": {Data: testPNG(t, 8, 4)}}
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		a, err := reg.LoadTexture2D("textures/albedo.png", true, true)
		if err != nil {
			return err
		}
		if a.Format() != gputypes.TextureFormatRGBA8UnormSrgb {
			t.Errorf("Format() = %v, want RGBA8UnormSrgb", a.Format())
		}
		if a.MipLevels() != 4 {
			t.Errorf("MipLevels() = %d, want 4", a.MipLevels())
		}
		b, err := reg.LoadTexture2D("textures/albedo.png", true, true)
		if err != nil {
			return err
		}
		if a != b {
			t.Error("second LoadTexture2D() returned a different texture")
		}
		c, err := reg.LoadTexture2D("textures/albedo.png", false, false)
		if err != nil {
			return err
		}
		if a != c {
			t.Error("LoadTexture2D() with other flags did not return the cached texture")
		}
		return nil
	}, WithAssetFS(assets))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "different flags") {
		t.Errorf("flag mismatch was not logged, got: %q", logs.String())
	}
}

func TestLoadTexture2DErrors(t *testing.T) {
	tests := []struct {
		name   string
		assets fstest.MapFS
	}{
		{"no assets", nil},
		{"missing file", fstest.MapFS{}},
		{"not an image", fstest.MapFS{"a.png": {Data: []byte("plain text, not pixels")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []GraphOption
			if tt.assets != nil {
				opts = append(opts, WithAssetFS(tt.assets))
			}
			_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
				_, err := reg.LoadTexture2D("a.png", false, false)
				return err
			}, opts...)
			var resErr *ResourceError
			if !errors.As(err, &resErr) || resErr.Kind != gpu.KindTexture {
				t.Errorf("Setup() error = %v, want ResourceError for Texture", err)
			}
		})
	}
}

func TestResourceErrorNamesNodeAndKind(t *testing.T) {
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		_, err := reg.CreateTexture2D(gpu.Extent2D{}, gputypes.TextureFormatRGBA8Unorm, gpu.TextureUsageSampled)
		return err
	})
	var resErr *ResourceError
	if !errors.As(err, &resErr) {
		t.Fatalf("Setup() error = %v, want *ResourceError", err)
	}
	if resErr.Node != "node" || resErr.Kind != gpu.KindTexture {
		t.Errorf("ResourceError = {%q, %v}, want {\"node\", Texture}", resErr.Node, resErr.Kind)
	}
	if !errors.Is(err, ErrResourceCreation) || !errors.Is(err, gpu.ErrInvalidDescription) {
		t.Errorf("Setup() error = %v, want ErrResourceCreation wrapping ErrInvalidDescription", err)
	}
}

func TestRegistrySealedAfterSetup(t *testing.T) {
	g, err := setupWith(t, headless.Config{}, func(*Registry) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	reg := g.Registry()
	if _, err := reg.CreateBuffer(4, gputypes.BufferUsageUniform, gpu.MemoryHintGpuOptimal); !errors.Is(err, ErrSealed) {
		t.Errorf("CreateBuffer() after Setup error = %v, want ErrSealed", err)
	}
	if err := reg.Publish("late", g.Registry().WindowRenderTarget()); !errors.Is(err, ErrSealed) {
		t.Errorf("Publish() after Setup error = %v, want ErrSealed", err)
	}
}

type vertex struct {
	X, Y float32
}

func TestCreateBufferFromSlice(t *testing.T) {
	_, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		buf, err := CreateBufferFromSlice(reg, []vertex{{1, 2}, {3, 4}}, gputypes.BufferUsageVertex, gpu.MemoryHintGpuOnly)
		if err != nil {
			return err
		}
		if buf.Size() != 16 {
			t.Errorf("Size() = %d, want 16", buf.Size())
		}
		if !buf.Usage().Contains(gputypes.BufferUsageCopyDst) {
			t.Error("initialised buffer lacks CopyDst usage")
		}
		if raw, ok := buf.(interface{ Bytes() []byte }); ok {
			want := make([]byte, 16)
			_, _ = binary.Encode(want, binary.LittleEndian, []vertex{{1, 2}, {3, 4}})
			if !bytes.Equal(raw.Bytes(), want) {
				t.Errorf("Bytes() = %v, want %v", raw.Bytes(), want)
			}
		}

		_, err = CreateBufferFromSlice(reg, []string{"no"}, gputypes.BufferUsageVertex, gpu.MemoryHintGpuOnly)
		if !errors.Is(err, gpu.ErrInvalidDescription) {
			t.Errorf("CreateBufferFromSlice([]string) error = %v, want ErrInvalidDescription", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestPublished(t *testing.T) {
	g, err := setupWith(t, headless.Config{}, func(reg *Registry) error {
		for _, label := range []string{"normal", "depth", "baseColor"} {
			tex, err := reg.CreateTexture2D(gpu.Extent2D{Width: 4, Height: 4}, gputypes.TextureFormatRGBA8Unorm, gpu.TextureUsageSampled)
			if err != nil {
				return err
			}
			if err := reg.Publish(label, tex); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	got := g.Registry().Published("node")
	if strings.Join(got, ",") != "normal,depth,baseColor" {
		t.Errorf("Published() = %v, want [normal depth baseColor]", got)
	}
}
