// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package simwindow shows the memory of an emulated panel in a desktop
// window.
//
// Run must be called from the main goroutine. The render loop runs
// elsewhere and the window polls the panel memory on every tick.
package simwindow

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Opts represents the options available for the window.
type Opts struct {
	// Title defaults to "picodisplay".
	Title string
	// Scale is the size of a panel pixel on screen. It defaults to 2.
	Scale int
}

// Window is an ebiten game showing a panel.
type Window struct {
	frame func() image.Image
	size  image.Point
	scale int
	title string

	rgba *image.RGBA
	tex  *ebiten.Image

	mu     sync.Mutex
	closed bool
}

// New returns a window for a panel of size pixels. frame returns the panel
// memory and is called once per tick.
func New(size image.Point, frame func() image.Image, opts *Opts) (*Window, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("simwindow: invalid size %s", size)
	}
	if frame == nil {
		return nil, errors.New("simwindow: frame is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	w := &Window{
		frame: frame,
		size:  size,
		scale: opts.Scale,
		title: opts.Title,
		rgba:  image.NewRGBA(image.Rectangle{Max: size}),
	}
	if w.scale <= 0 {
		w.scale = 2
	}
	if w.title == "" {
		w.title = "picodisplay"
	}
	return w, nil
}

func (w *Window) String() string {
	return fmt.Sprintf("simwindow.Window{%s, x%d}", w.size, w.scale)
}

// Run opens the window and blocks until it is closed by the user or with
// Close.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.size.X*w.scale, w.size.Y*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

// Close makes Run return on the next tick.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ebiten.Termination
	}
	img := w.frame()
	draw.Copy(w.rgba, image.Point{}, img, img.Bounds(), draw.Src, nil)
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.tex == nil {
		w.tex = ebiten.NewImage(w.size.X, w.size.Y)
	}
	w.tex.WritePixels(w.rgba.Pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.tex, op)
}

// Layout implements ebiten.Game. The screen keeps the scaled panel size and
// is stretched to the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.size.X * w.scale, w.size.Y * w.scale
}

var _ ebiten.Game = &Window{}
