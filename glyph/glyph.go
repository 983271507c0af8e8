// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package glyph implements the packed bitmap font tables used by the
// monochrome drawing primitives.
//
// A table is laid out as:
//
//	[height, width, spacing, first, last, column bytes...]
//
// Each glyph occupies width bytes. Each byte is one column, bit j is row j
// counted from the top.
package glyph

import (
	"errors"
	"fmt"
)

const headerSize = 5

// Font is a packed font table.
type Font []byte

// New validates a raw table and returns it as a Font.
func New(table []byte) (Font, error) {
	if len(table) < headerSize {
		return nil, errors.New("glyph: table shorter than header")
	}
	f := Font(table)
	if f.Height() == 0 || f.Height() > 8 {
		return nil, fmt.Errorf("glyph: invalid glyph height %d", f.Height())
	}
	if f.Width() == 0 {
		return nil, errors.New("glyph: invalid glyph width 0")
	}
	if f.Last() < f.First() {
		return nil, fmt.Errorf("glyph: last char %#x before first %#x", f.Last(), f.First())
	}
	want := headerSize + (int(f.Last())-int(f.First())+1)*int(f.Width())
	if len(table) != want {
		return nil, fmt.Errorf("glyph: table is %d bytes, expected %d", len(table), want)
	}
	return f, nil
}

// Height is the glyph height in pixels.
func (f Font) Height() int { return int(f[0]) }

// Width is the glyph width in pixels.
func (f Font) Width() int { return int(f[1]) }

// Spacing is the blank gap between two glyphs.
func (f Font) Spacing() int { return int(f[2]) }

// First is the first character present in the table.
func (f Font) First() byte { return f[3] }

// Last is the last character present in the table.
func (f Font) Last() byte { return f[4] }

// Advance returns the horizontal cursor advance for one character.
func (f Font) Advance(scale int) int {
	if scale < 1 {
		scale = 1
	}
	return (f.Width() + f.Spacing()) * scale
}

// Glyph returns the column bytes of c, or nil if c is not in the table.
func (f Font) Glyph(c byte) []byte {
	if len(f) < headerSize || c < f.First() || c > f.Last() {
		return nil
	}
	w := f.Width()
	off := headerSize + int(c-f.First())*w
	if off+w > len(f) {
		return nil
	}
	return f[off : off+w]
}
