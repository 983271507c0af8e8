// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"image/color"
	"math"

	"github.com/GermanBionicSystems/picodisplay/glyph"
)

// Clear turns all pixels off in the framebuffer.
func (d *Dev) Clear() {
	if d.buffer == nil {
		return
	}
	clear(d.buffer[1:])
}

// DrawPixel turns the pixel at (x, y) on. Coordinates outside the panel are
// ignored.
func (d *Dev) DrawPixel(x, y int) {
	if i, mask, ok := d.offset(x, y); ok {
		d.buffer[i] |= mask
	}
}

// ClearPixel turns the pixel at (x, y) off.
func (d *Dev) ClearPixel(x, y int) {
	if i, mask, ok := d.offset(x, y); ok {
		d.buffer[i] &^= mask
	}
}

// SetPixel implements drivers.Displayer. Any color but black turns the pixel
// on.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	if c.R|c.G|c.B != 0 {
		d.DrawPixel(int(x), int(y))
	} else {
		d.ClearPixel(int(x), int(y))
	}
}

// DrawLine draws a line between both points, inclusive.
//
// It draws one pixel per column, so steep lines have gaps.
func (d *Dev) DrawLine(x1, y1, x2, y2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}
	if x1 == x2 {
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for y := y1; y <= y2; y++ {
			d.DrawPixel(x1, y)
		}
		return
	}
	m := float64(y2-y1) / float64(x2-x1)
	for x := x1; x <= x2; x++ {
		d.DrawPixel(x, int(math.Round(m*float64(x-x1)))+y1)
	}
}

// FillRect turns on the w x h pixels starting at (x, y).
func (d *Dev) FillRect(x, y, w, h int) {
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			d.DrawPixel(x+i, y+j)
		}
	}
}

// DrawRect draws the outline of a rectangle. The right and bottom edges are
// at x+w and y+h.
func (d *Dev) DrawRect(x, y, w, h int) {
	d.DrawLine(x, y, x+w, y)
	d.DrawLine(x, y+h, x+w, y+h)
	d.DrawLine(x, y, x, y+h)
	d.DrawLine(x+w, y, x+w, y+h)
}

// DrawChar draws c with its top left corner at (x, y). Each font pixel
// becomes a scale x scale block; a scale of 0 is treated as 1.
//
// A nil font selects glyph.Font8x5. Characters not in the font are skipped.
func (d *Dev) DrawChar(x, y, scale int, f glyph.Font, c byte) {
	if f == nil {
		f = glyph.Font8x5
	}
	cols := f.Glyph(c)
	if cols == nil {
		return
	}
	scale = max(scale, 1)
	h := f.Height()
	for i, col := range cols {
		for j := 0; j < h; j++ {
			if col&(1<<uint(j)) == 0 {
				continue
			}
			if scale == 1 {
				d.DrawPixel(x+i, y+j)
			} else {
				d.FillRect(x+i*scale, y+j*scale, scale, scale)
			}
		}
	}
}

// DrawString draws s byte by byte, advancing by the font's glyph width plus
// spacing, times scale.
func (d *Dev) DrawString(x, y, scale int, f glyph.Font, s string) {
	if f == nil {
		f = glyph.Font8x5
	}
	adv := f.Advance(scale)
	for i := 0; i < len(s); i++ {
		d.DrawChar(x, y, scale, f, s[i])
		x += adv
	}
}

func (d *Dev) offset(x, y int) (int, byte, bool) {
	if d.buffer == nil || x < 0 || y < 0 || x >= d.rect.Dx() || y >= d.rect.Dy() {
		return 0, 0, false
	}
	return 1 + x + d.rect.Dx()*(y/8), 1 << uint(y&7), true
}
