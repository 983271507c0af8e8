// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFromRGB(t *testing.T) {
	c := qt.New(t)

	c.Assert(FromRGB(0, 0, 0), qt.Equals, RGB565(0))
	c.Assert(FromRGB(255, 255, 255), qt.Equals, RGB565(0xFFFF))
	c.Assert(FromRGB(255, 0, 0), qt.Equals, RGB565(0xF800))
	c.Assert(FromRGB(0, 255, 0), qt.Equals, RGB565(0x07E0))
	c.Assert(FromRGB(0, 0, 255), qt.Equals, RGB565(0x001F))
}

func TestRGBExpand(t *testing.T) {
	c := qt.New(t)

	r, g, b := RGB565(0xFFFF).RGB()
	c.Assert([]uint8{r, g, b}, qt.DeepEquals, []uint8{255, 255, 255})
	r, g, b = RGB565(0xF800).RGB()
	c.Assert([]uint8{r, g, b}, qt.DeepEquals, []uint8{255, 0, 0})
}

func TestModel(t *testing.T) {
	c := qt.New(t)

	c.Assert(Model.Convert(color.White), qt.Equals, RGB565(0xFFFF))
	c.Assert(Model.Convert(RGB565(0x1234)), qt.Equals, RGB565(0x1234))
}

func TestSetBigEndian(t *testing.T) {
	c := qt.New(t)

	img := New(image.Rect(0, 0, 4, 2))
	img.SetRGB565(1, 1, 0x013F)
	c.Assert(img.Pix[img.PixOffset(1, 1)], qt.Equals, byte(0x01))
	c.Assert(img.Pix[img.PixOffset(1, 1)+1], qt.Equals, byte(0x3F))
	c.Assert(img.RGB565At(1, 1), qt.Equals, RGB565(0x013F))

	img.SetRGB565(4, 0, 0xFFFF)
	img.SetRGB565(-1, 0, 0xFFFF)
	c.Assert(img.RGB565At(4, 0), qt.Equals, RGB565(0))
}

func TestWrap(t *testing.T) {
	c := qt.New(t)

	buf := make([]byte, 2*3*3)
	img, err := Wrap(image.Rect(0, 0, 3, 3), buf)
	c.Assert(err, qt.IsNil)
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	for _, b := range buf {
		c.Assert(b, qt.Equals, byte(0xFF))
	}

	_, err = Wrap(image.Rect(0, 0, 3, 3), buf[:4])
	c.Assert(err, qt.IsNotNil)
}

func TestFill(t *testing.T) {
	c := qt.New(t)

	img := New(image.Rect(0, 0, 4, 4))
	img.Fill(image.Rect(2, 2, 10, 10), 0xABCD)
	c.Assert(img.RGB565At(3, 3), qt.Equals, RGB565(0xABCD))
	c.Assert(img.RGB565At(1, 1), qt.Equals, RGB565(0))
}
