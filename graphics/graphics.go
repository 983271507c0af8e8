// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package graphics provides in-memory drawing surfaces of various pixel
// formats that can be streamed to a RGB565 controller.
//
// Surfaces that are not natively RGB565 expose FrameConvert, a lazy sequence
// of converted chunks. The sequence is finite and can be ranged over once per
// frame; it ends when the iteration ends, there is no sentinel chunk.
//
// FrameConvert alternates between two chunk buffers. A consumer may keep at
// most one previously yielded chunk alive (for example an in-flight DMA
// transfer) while it receives the next one.
package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"iter"

	"github.com/GermanBionicSystems/picodisplay/image565"
	"tinygo.org/x/drivers"
)

// PenType identifies the pixel format of a surface.
type PenType int

// Supported pixel formats.
const (
	PenRGB565 PenType = iota
	PenRGB332
	PenRGB888
)

func (p PenType) String() string {
	switch p {
	case PenRGB565:
		return "RGB565"
	case PenRGB332:
		return "RGB332"
	case PenRGB888:
		return "RGB888"
	default:
		return fmt.Sprintf("PenType(%d)", int(p))
	}
}

// BytesPerPixel returns the storage size of one pixel.
func (p PenType) BytesPerPixel() int {
	switch p {
	case PenRGB565:
		return 2
	case PenRGB332:
		return 1
	case PenRGB888:
		return 4
	default:
		return 0
	}
}

// ParsePenType parses the lower case name of a pen type.
func ParsePenType(s string) (PenType, error) {
	switch s {
	case "rgb565":
		return PenRGB565, nil
	case "rgb332":
		return PenRGB332, nil
	case "rgb888":
		return PenRGB888, nil
	}
	return 0, fmt.Errorf("graphics: unknown pen type %q", s)
}

// Pen is a color already encoded in the pixel format of a surface.
type Pen uint32

// Surface is a drawable framebuffer.
type Surface interface {
	draw.Image
	drivers.Displayer

	PenType() PenType
	// Pix returns the raw framebuffer in the surface's native format.
	Pix() []byte
	// CreatePen encodes a color in the surface's native format.
	CreatePen(r, g, b uint8) Pen
	SetPen(p Pen)
	// Clear fills the whole surface with the current pen.
	Clear()
	// Pixel sets one pixel to the current pen.
	Pixel(p image.Point)
	// Rectangle fills r, clipped to the surface, with the current pen.
	Rectangle(r image.Rectangle)
	// FrameConvert returns the frame converted to another pixel format.
	FrameConvert(to PenType) (iter.Seq[[]byte], error)
}

// New allocates a surface of the given pixel format.
func New(p PenType, w, h int) (Surface, error) {
	r := image.Rect(0, 0, w, h)
	switch p {
	case PenRGB565:
		return NewRGB565(r, nil)
	case PenRGB332:
		return NewRGB332(r, nil)
	case PenRGB888:
		return NewRGB888(image.NewRGBA(r)), nil
	}
	return nil, fmt.Errorf("graphics: unsupported pen type %s", p)
}

// DefaultChunkRows is the number of rows converted per chunk.
const DefaultChunkRows = 4

// converter holds the two alternating chunk buffers shared by all frames
// converted from one surface.
type converter struct {
	rows int
	bufs [2][]byte
}

func (c *converter) frame(r image.Rectangle, at func(x, y int) image565.RGB565) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		rows := c.rows
		if rows <= 0 {
			rows = DefaultChunkRows
		}
		w := r.Dx()
		if w <= 0 {
			return
		}
		n := 0
		for y0 := r.Min.Y; y0 < r.Max.Y; y0 += rows {
			y1 := min(y0+rows, r.Max.Y)
			size := (y1 - y0) * w * 2
			b := c.bufs[n&1]
			if cap(b) < rows*w*2 {
				b = make([]byte, rows*w*2)
				c.bufs[n&1] = b
			}
			b = b[:size]
			i := 0
			for y := y0; y < y1; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					v := at(x, y)
					b[i] = byte(v >> 8)
					b[i+1] = byte(v)
					i += 2
				}
			}
			if !yield(b) {
				return
			}
			n++
		}
	}
}

// rawChunks splits an already native buffer into chunks of rows lines.
func rawChunks(pix []byte, stride, rows int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if rows <= 0 {
			rows = DefaultChunkRows
		}
		step := stride * rows
		if step <= 0 {
			return
		}
		for off := 0; off < len(pix); off += step {
			if !yield(pix[off:min(off+step, len(pix))]) {
				return
			}
		}
	}
}

func rgbaOf(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func size16(r image.Rectangle) (int16, int16) {
	return int16(r.Dx()), int16(r.Dy())
}
