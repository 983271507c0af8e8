// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image565 implements a 16 bits per pixel RGB565 image stored in the
// byte order expected on the wire by TFT controllers: high byte first.
package image565

import (
	"fmt"
	"image"
	"image/color"
)

// RGB565 is a 16 bit color with 5 bits red, 6 bits green and 5 bits blue.
type RGB565 uint16

// FromRGB packs 8 bit channels into a RGB565 color.
func FromRGB(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB expands the color to 8 bit channels.
func (c RGB565) RGB() (r, g, b uint8) {
	r5 := uint8(c >> 11 & 0x1F)
	g6 := uint8(c >> 5 & 0x3F)
	b5 := uint8(c & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xFFFF
}

func (c RGB565) String() string {
	return fmt.Sprintf("RGB565(%#04x)", uint16(c))
}

func convert(c color.Color) color.Color {
	if v, ok := c.(RGB565); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts any color to RGB565.
var Model = color.ModelFunc(convert)

// Image is an in-memory RGB565 image, two bytes per pixel, big endian.
type Image struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// New allocates a RGB565 image.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{Pix: make([]byte, 2*w*h), Stride: 2 * w, Rect: r}
}

// Wrap uses pix as the backing store of a RGB565 image without copying.
//
// The caller keeps ownership of pix; it must outlive the returned image.
func Wrap(r image.Rectangle, pix []byte) (*Image, error) {
	if want := 2 * r.Dx() * r.Dy(); len(pix) != want {
		return nil, fmt.Errorf("image565: buffer is %d bytes, expected %d", len(pix), want)
	}
	return &Image{Pix: pix, Stride: 2 * r.Dx(), Rect: r}, nil
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the pixel at (x, y). Out of bounds reads return black.
func (p *Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGB565(uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1]))
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(RGB565))
}

// SetRGB565 sets the pixel at (x, y). Out of bounds writes are ignored.
func (p *Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = byte(c >> 8)
	p.Pix[i+1] = byte(c)
}

// Fill sets every pixel of r, clipped to the image, to c.
func (p *Image) Fill(r image.Rectangle, c RGB565) {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return
	}
	hi, lo := byte(c>>8), byte(c)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := p.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p.Pix[i] = hi
			p.Pix[i+1] = lo
			i += 2
		}
	}
}

// PixOffset returns the index of the high byte of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
