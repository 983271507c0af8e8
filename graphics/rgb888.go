// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package graphics

import (
	"fmt"
	"image"
	"image/color"
	"iter"

	"github.com/GermanBionicSystems/picodisplay/image565"
)

// RGB888 is a true color surface backed by an *image.RGBA, so that any
// library drawing into image.RGBA (vector renderers, font rasterizers) can
// render directly into it. Alpha is ignored on transfer.
type RGB888 struct {
	*image.RGBA
	pen  color.RGBA
	conv converter
}

// NewRGB888 wraps img. The caller keeps ownership of img.
func NewRGB888(img *image.RGBA) *RGB888 {
	return &RGB888{RGBA: img}
}

// PenType implements Surface.
func (s *RGB888) PenType() PenType { return PenRGB888 }

// Pix implements Surface.
func (s *RGB888) Pix() []byte { return s.RGBA.Pix }

// SetChunkRows sets the number of rows per FrameConvert chunk.
func (s *RGB888) SetChunkRows(n int) { s.conv.rows = n }

// CreatePen implements Surface.
func (s *RGB888) CreatePen(r, g, b uint8) Pen {
	return Pen(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// SetPen implements Surface.
func (s *RGB888) SetPen(p Pen) {
	s.pen = color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xFF}
}

// Clear implements Surface.
func (s *RGB888) Clear() { s.Rectangle(s.Rect) }

// Pixel implements Surface.
func (s *RGB888) Pixel(p image.Point) { s.SetRGBA(p.X, p.Y, s.pen) }

// Rectangle implements Surface.
func (s *RGB888) Rectangle(r image.Rectangle) {
	r = r.Intersect(s.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.SetRGBA(x, y, s.pen)
		}
	}
}

// FrameConvert implements Surface.
func (s *RGB888) FrameConvert(to PenType) (iter.Seq[[]byte], error) {
	if to != PenRGB565 {
		return nil, fmt.Errorf("graphics: cannot convert RGB888 to %s", to)
	}
	return s.conv.frame(s.Rect, func(x, y int) image565.RGB565 {
		i := s.PixOffset(x, y)
		p := s.RGBA.Pix[i : i+3 : i+3]
		return image565.FromRGB(p[0], p[1], p[2])
	}), nil
}

// Size implements drivers.Displayer.
func (s *RGB888) Size() (int16, int16) { return size16(s.Rect) }

// SetPixel implements drivers.Displayer.
func (s *RGB888) SetPixel(x, y int16, c color.RGBA) { s.SetRGBA(int(x), int(y), c) }

// Display implements drivers.Displayer.
func (s *RGB888) Display() error { return nil }

var _ Surface = &RGB888{}
