// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termscreen implements a 2D display.Drawer that outputs to a
// terminal using ANSI color codes.
//
// It previews what a panel shows, scaled down to a grid of character cells,
// when no hardware is connected.
package termscreen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Cols and Rows is the size of the preview in character cells. 0 uses the
	// panel size.
	Cols int
	Rows int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// ASCII draws with '#' and ' ' instead of colored blocks. It is implied
	// when Out is nil and stdout is not a terminal.
	ASCII bool
	// Out defaults to stdout.
	Out io.Writer

	_ struct{}
}

// Dev is a panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	ascii   bool

	// frame holds the panel content at full resolution.
	frame *image.NRGBA
	// cells is the frame scaled to the preview size.
	cells *image.NRGBA
	buf   bytes.Buffer
	drawn bool
}

// New returns a Dev previewing a panel of the size of r at the console.
func New(r image.Rectangle, opts *Opts) (*Dev, error) {
	if r.Empty() {
		return nil, errors.New("termscreen: empty panel")
	}
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = r.Dx()
	}
	if rows <= 0 {
		rows = r.Dy()
	}
	d := &Dev{
		w:       opts.Out,
		palette: *p,
		ascii:   opts.ASCII,
		frame:   image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy())),
		cells:   image.NewNRGBA(image.Rect(0, 0, cols, rows)),
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			d.ascii = true
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("termscreen.Dev{%s, %dx%d}", d.frame.Rect.Max, d.cells.Rect.Dx(), d.cells.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not corrupted.
func (d *Dev) Halt() error {
	if d.ascii {
		return nil
	}
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.frame.Rect
}

// Draw implements display.Drawer.
//
// The whole preview is redrawn in place.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.frame, r, src, sp, draw.Src)
	_, err := d.refresh()
	return err
}

// Frame is a shorthand for Draw of the whole panel.
func (d *Dev) Frame(src image.Image) error {
	return d.Draw(d.frame.Rect, src, src.Bounds().Min)
}

func (d *Dev) refresh() (int, error) {
	draw.NearestNeighbor.Scale(d.cells, d.cells.Rect, d.frame, d.frame.Rect, draw.Src, nil)
	d.buf.Reset()
	rows := d.cells.Rect.Dy()
	if d.drawn && !d.ascii {
		// Move back to the top left corner of the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA\r", rows)
	}
	for y := 0; y < rows; y++ {
		if !d.ascii {
			_, _ = d.buf.WriteString("\033[0m")
		}
		for x := 0; x < d.cells.Rect.Dx(); x++ {
			c := d.cells.NRGBAAt(x, y)
			if d.ascii {
				_ = d.buf.WriteByte(asciiCell(c))
			} else {
				_, _ = io.WriteString(&d.buf, d.palette.Block(c))
			}
		}
		if !d.ascii {
			_, _ = d.buf.WriteString("\033[0m")
		}
		_ = d.buf.WriteByte('\n')
	}
	d.drawn = true
	n, err := d.buf.WriteTo(d.w)
	return int(n), err
}

// asciiCell returns '#' for bright pixels.
func asciiCell(c color.NRGBA) byte {
	if color.GrayModel.Convert(c).(color.Gray).Y >= 0x80 {
		return '#'
	}
	return ' '
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
