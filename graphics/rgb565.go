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

// RGB565 is a surface in the TFT controller's native format.
type RGB565 struct {
	*image565.Image
	pen  image565.RGB565
	conv converter
}

// NewRGB565 returns a RGB565 surface. When buf is nil the surface allocates
// its own framebuffer, otherwise it draws into buf, which must be exactly
// 2*w*h bytes and outlive the surface.
func NewRGB565(r image.Rectangle, buf []byte) (*RGB565, error) {
	if buf == nil {
		return &RGB565{Image: image565.New(r)}, nil
	}
	img, err := image565.Wrap(r, buf)
	if err != nil {
		return nil, fmt.Errorf("graphics: %w", err)
	}
	return &RGB565{Image: img}, nil
}

// PenType implements Surface.
func (s *RGB565) PenType() PenType { return PenRGB565 }

// Pix implements Surface.
func (s *RGB565) Pix() []byte { return s.Image.Pix }

// SetChunkRows sets the number of rows per FrameConvert chunk.
func (s *RGB565) SetChunkRows(n int) { s.conv.rows = n }

// CreatePen implements Surface.
func (s *RGB565) CreatePen(r, g, b uint8) Pen {
	return Pen(image565.FromRGB(r, g, b))
}

// SetPen implements Surface.
func (s *RGB565) SetPen(p Pen) { s.pen = image565.RGB565(p) }

// Clear implements Surface.
func (s *RGB565) Clear() { s.Fill(s.Rect, s.pen) }

// Pixel implements Surface.
func (s *RGB565) Pixel(p image.Point) { s.SetRGB565(p.X, p.Y, s.pen) }

// Rectangle implements Surface.
func (s *RGB565) Rectangle(r image.Rectangle) { s.Fill(r, s.pen) }

// FrameConvert implements Surface.
func (s *RGB565) FrameConvert(to PenType) (iter.Seq[[]byte], error) {
	if to != PenRGB565 {
		return nil, fmt.Errorf("graphics: cannot convert RGB565 to %s", to)
	}
	return rawChunks(s.Image.Pix, s.Stride, s.conv.rows), nil
}

// Size implements drivers.Displayer.
func (s *RGB565) Size() (int16, int16) { return size16(s.Rect) }

// SetPixel implements drivers.Displayer.
func (s *RGB565) SetPixel(x, y int16, c color.RGBA) {
	s.SetRGB565(int(x), int(y), image565.FromRGB(c.R, c.G, c.B))
}

// Display implements drivers.Displayer. Frames are pushed by the display
// driver, so this is a no-op.
func (s *RGB565) Display() error { return nil }

var _ Surface = &RGB565{}
