// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package demo

import (
	"image"

	"github.com/GermanBionicSystems/picodisplay/graphics"
	"github.com/GermanBionicSystems/picodisplay/ssd1306"
)

// Thickness is the height of a trace drawn on a color surface.
const Thickness = 6

// TriangleShift is the column shift between two triangle traces.
const TriangleShift = 33

// OLEDSine draws three sine traces, one pixel per column, centered on the
// OLED framebuffer. yScale is the amplitude in pixels.
func OLEDSine(d *ssd1306.Dev, offset, yScale int) {
	b := d.Bounds()
	w := b.Dx()
	yOffset := float64(b.Dy()/2 - 1 - yScale)
	for _, p := range Phases {
		for x := 0; x < w; x++ {
			d.DrawPixel(x, SineWave(x, w, offset, p, float64(yScale), yOffset))
		}
	}
}

// Sine draws three sine traces with the current pen, centered on s.
func Sine(s graphics.Surface, offset, yScale int) {
	b := s.Bounds()
	w := b.Dx()
	yOffset := float64(b.Dy())/2 - 1 - float64(yScale)
	for _, p := range Phases {
		for x := 0; x < w; x++ {
			y := SineWave(x, w, offset, p, float64(yScale), yOffset)
			s.Rectangle(image.Rect(x, y, x+1, y+Thickness))
		}
	}
}

// Triangle draws three triangle traces with the current pen. They span the
// height of s.
func Triangle(s graphics.Surface, offset int) {
	b := s.Bounds()
	for i := range Phases {
		shift := offset + i*TriangleShift
		for x := 0; x < b.Dx(); x++ {
			y := TriangleWave(x-shift, b.Dy())
			s.Rectangle(image.Rect(x, y, x+1, y+Thickness))
		}
	}
}
