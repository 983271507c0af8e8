// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package demo

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// traceColors are the RGB colors of the three traces of the Scene.
var traceColors = [3][3]float64{
	{1, 0.35, 0.35},
	{0.35, 1, 0.35},
	{0.4, 0.55, 1},
}

// Scene is an anti-aliased rendition of the sine traces with a title.
type Scene struct {
	Title string
	face  font.Face
}

// NewScene loads the title font at size points.
func NewScene(title string, size float64) (*Scene, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	return &Scene{Title: title, face: truetype.NewFace(f, &truetype.Options{Size: size})}, nil
}

// Render draws the frame offset on img.
func (s *Scene) Render(img *image.RGBA, offset int) {
	dc := gg.NewContextForRGBA(img)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	yScale := float64(h) / 3
	yOffset := float64(h)/2 - yScale

	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetLineWidth(3)
	for i, p := range Phases {
		c := traceColors[i]
		dc.SetRGB(c[0], c[1], c[2])
		for x := 0; x < w; x++ {
			y := yScale*(sine(x, w, offset, p)+1) + yOffset
			if x == 0 {
				dc.MoveTo(float64(x), y)
			} else {
				dc.LineTo(float64(x), y)
			}
		}
		dc.Stroke()
	}
	if s.Title != "" {
		dc.SetFontFace(s.face)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(s.Title, float64(w)/2, 4, 0.5, 1)
	}
}
