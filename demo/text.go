// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package demo

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// BannerFont is the font used by Banner.
var BannerFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Banner writes text on any drivers.Displayer, for example a ssd1306.Dev or
// a graphics surface. y is the baseline.
func Banner(d drivers.Displayer, x, y int16, text string, c color.RGBA) {
	tinyfont.WriteLine(d, BannerFont, x, y, text, c)
}

// BannerWidth returns the width in pixels of text written by Banner.
func BannerWidth(text string) int {
	_, w := tinyfont.LineWidth(BannerFont, text)
	return int(w)
}

// Label draws text with a 7x13 bitmap font. y is the baseline.
func Label(dst draw.Image, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
