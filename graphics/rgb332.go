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

// RGB332 is a one byte per pixel surface: 3 bits red, 3 bits green, 2 bits
// blue. It halves the framebuffer size at the cost of a conversion on each
// transfer.
type RGB332 struct {
	pix  []byte
	rect image.Rectangle
	pen  uint8
	conv converter
}

// NewRGB332 returns a RGB332 surface backed by buf, or by a new buffer if buf
// is nil.
func NewRGB332(r image.Rectangle, buf []byte) (*RGB332, error) {
	n := r.Dx() * r.Dy()
	if n < 0 {
		n = 0
	}
	if buf == nil {
		buf = make([]byte, n)
	} else if len(buf) != n {
		return nil, fmt.Errorf("graphics: buffer is %d bytes, expected %d", len(buf), n)
	}
	return &RGB332{pix: buf, rect: r}, nil
}

func rgb332(r, g, b uint8) uint8 {
	return r&0xE0 | (g&0xE0)>>3 | b>>6
}

var rgb332To565 = func() (t [256]image565.RGB565) {
	for i := range t {
		r := uint8(i) & 0xE0
		g := uint8(i) << 3 & 0xE0
		b := uint8(i) << 6
		r |= r>>3 | r>>6
		g |= g>>3 | g>>6
		b |= b>>2 | b>>4 | b>>6
		t[i] = image565.FromRGB(r, g, b)
	}
	return t
}()

func (s *RGB332) offset(x, y int) (int, bool) {
	if !(image.Point{X: x, Y: y}.In(s.rect)) {
		return 0, false
	}
	return (y-s.rect.Min.Y)*s.rect.Dx() + x - s.rect.Min.X, true
}

// PenType implements Surface.
func (s *RGB332) PenType() PenType { return PenRGB332 }

// Pix implements Surface.
func (s *RGB332) Pix() []byte { return s.pix }

// SetChunkRows sets the number of rows per FrameConvert chunk.
func (s *RGB332) SetChunkRows(n int) { s.conv.rows = n }

// ColorModel implements image.Image.
func (s *RGB332) ColorModel() color.Model { return image565.Model }

// Bounds implements image.Image.
func (s *RGB332) Bounds() image.Rectangle { return s.rect }

// At implements image.Image.
func (s *RGB332) At(x, y int) color.Color {
	if i, ok := s.offset(x, y); ok {
		return rgb332To565[s.pix[i]]
	}
	return image565.RGB565(0)
}

// Set implements draw.Image.
func (s *RGB332) Set(x, y int, c color.Color) {
	if i, ok := s.offset(x, y); ok {
		v := rgbaOf(c)
		s.pix[i] = rgb332(v.R, v.G, v.B)
	}
}

// CreatePen implements Surface.
func (s *RGB332) CreatePen(r, g, b uint8) Pen { return Pen(rgb332(r, g, b)) }

// SetPen implements Surface.
func (s *RGB332) SetPen(p Pen) { s.pen = uint8(p) }

// Clear implements Surface.
func (s *RGB332) Clear() {
	for i := range s.pix {
		s.pix[i] = s.pen
	}
}

// Pixel implements Surface.
func (s *RGB332) Pixel(p image.Point) {
	if i, ok := s.offset(p.X, p.Y); ok {
		s.pix[i] = s.pen
	}
}

// Rectangle implements Surface.
func (s *RGB332) Rectangle(r image.Rectangle) {
	r = r.Intersect(s.rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i, _ := s.offset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s.pix[i] = s.pen
			i++
		}
	}
}

// FrameConvert implements Surface.
func (s *RGB332) FrameConvert(to PenType) (iter.Seq[[]byte], error) {
	if to != PenRGB565 {
		return nil, fmt.Errorf("graphics: cannot convert RGB332 to %s", to)
	}
	return s.conv.frame(s.rect, func(x, y int) image565.RGB565 {
		i, _ := s.offset(x, y)
		return rgb332To565[s.pix[i]]
	}), nil
}

// Size implements drivers.Displayer.
func (s *RGB332) Size() (int16, int16) { return size16(s.rect) }

// SetPixel implements drivers.Displayer.
func (s *RGB332) SetPixel(x, y int16, c color.RGBA) { s.Set(int(x), int(y), c) }

// Display implements drivers.Displayer.
func (s *RGB332) Display() error { return nil }

var _ Surface = &RGB332{}
