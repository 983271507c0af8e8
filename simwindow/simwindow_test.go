// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package simwindow

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestUpdate(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	calls := 0
	w, err := New(image.Pt(4, 3), func() image.Image {
		calls++
		img := image.NewRGBA(image.Rect(0, 0, 4, 3))
		img.SetRGBA(1, 2, red)
		return img
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Update(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("frame called %d times", calls)
	}
	if c := w.rgba.RGBAAt(1, 2); c != red {
		t.Fatal(c)
	}
	if c := w.rgba.RGBAAt(0, 0); c != (color.RGBA{}) {
		t.Fatal(c)
	}
	if x, y := w.Layout(1000, 1000); x != 8 || y != 6 {
		t.Fatalf("%d, %d", x, y)
	}
	if s := w.String(); s != "simwindow.Window{(4,3), x2}" {
		t.Fatal(s)
	}

	w.Close()
	if err := w.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("got %v", err)
	}
}

func TestNewInvalid(t *testing.T) {
	frame := func() image.Image { return image.NewRGBA(image.Rect(0, 0, 1, 1)) }
	if _, err := New(image.Pt(0, 3), frame, nil); err == nil {
		t.Error("invalid size")
	}
	if _, err := New(image.Pt(3, 3), nil, nil); err == nil {
		t.Error("frame is required")
	}
	w, err := New(image.Pt(3, 3), frame, &Opts{Title: "oled", Scale: 4})
	if err != nil {
		t.Fatal(err)
	}
	if w.title != "oled" || w.scale != 4 {
		t.Errorf("%q, %d", w.title, w.scale)
	}
}
