// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package imageio decodes texture images and builds their mip chains.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"slices"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the data is not an image the
	// package can decode.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// decodable lists the sniffed extensions with a registered decoder.
var decodable = []string{"png", "jpg", "gif", "bmp", "tif", "webp"}

// Sniff returns the image extension detected from the leading bytes of
// data.
func Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyData
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("imageio: sniff: %w", err)
	}
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return "", fmt.Errorf("%w: not an image", ErrUnsupportedFormat)
	}
	if !slices.Contains(decodable, kind.Extension) {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, kind.Extension, kind.MIME.Value)
	}
	return kind.Extension, nil
}

// Decode decodes data into a non-premultiplied RGBA image with its origin
// at (0, 0).
func Decode(data []byte) (*image.NRGBA, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return ToNRGBA(img), nil
}

// Load reads and decodes the image at name in fsys.
func Load(fsys fs.FS, name string) (*image.NRGBA, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

// ToNRGBA converts img to a tightly packed *image.NRGBA at the origin.
// An NRGBA image already in that layout is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// MipChain returns levels images, each half the size of the previous one
// and never smaller than 1x1. Level 0 is src itself. levels below 1 are
// treated as 1.
func MipChain(src *image.NRGBA, levels int) []*image.NRGBA {
	chain := make([]*image.NRGBA, max(levels, 1))
	chain[0] = src
	for i := 1; i < len(chain); i++ {
		chain[i] = downsample(chain[i-1])
	}
	return chain
}

// downsample averages 2x2 blocks of src into a half size image. Odd edges
// repeat their last row or column.
func downsample(src *image.NRGBA) *image.NRGBA {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := max(1, sw/2), max(1, sh/2)
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))

	for dy := range dh {
		y0, y1 := dy*2, min(dy*2+1, sh-1)
		for dx := range dw {
			x0, x1 := dx*2, min(dx*2+1, sw-1)
			p := [4]int{
				src.PixOffset(x0, y0), src.PixOffset(x1, y0),
				src.PixOffset(x0, y1), src.PixOffset(x1, y1),
			}
			o := dst.PixOffset(dx, dy)
			for c := range 4 {
				sum := uint16(src.Pix[p[0]+c]) + uint16(src.Pix[p[1]+c]) +
					uint16(src.Pix[p[2]+c]) + uint16(src.Pix[p[3]+c])
				dst.Pix[o+c] = byte(sum / 4)
			}
		}
	}
	return dst
}
