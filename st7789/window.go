// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"fmt"
	"image"

	"tinygo.org/x/drivers"
)

// Scan overrides the orientation derived from the rotation with one of the
// two fixed frame memory scan directions.
type Scan uint8

// Scan directions.
const (
	// ScanDefault derives the memory access control from Opts.Rotation.
	ScanDefault Scan = iota
	// ScanHorizontal writes rows of the landscape panel.
	ScanHorizontal
	// ScanVertical writes rows of the portrait panel.
	ScanVertical
)

func (s Scan) String() string {
	switch s {
	case ScanDefault:
		return "Default"
	case ScanHorizontal:
		return "Horizontal"
	case ScanVertical:
		return "Vertical"
	default:
		return fmt.Sprintf("Scan(%d)", uint8(s))
	}
}

// orientation returns the visible size and the MADCTL value for a w x h
// panel.
func orientation(w, h int, r drivers.Rotation, scan Scan, bgr bool) (int, int, byte) {
	mirror := r >= drivers.Rotation0Mirror
	r &= 3
	rotate180 := r == drivers.Rotation180 || r == drivers.Rotation90
	if r == drivers.Rotation90 || r == drivers.Rotation270 {
		w, h = h, w
	}

	var m byte
	switch {
	case scan == ScanHorizontal:
		m = madctlSwapXY | madctlScanOrder | madctlColOrder
	case scan == ScanVertical:
		m = 0
	case w == 320 && h == 240:
		m = madctlColOrder
		if rotate180 {
			m = madctlRowOrder
		}
		m |= madctlSwapXY | madctlScanOrder
	default:
		if rotate180 {
			m = madctlColOrder | madctlRowOrder
		}
		if w > h {
			m |= madctlSwapXY | madctlScanOrder
		}
	}
	if mirror {
		m ^= madctlColOrder
	}
	if bgr {
		m |= madctlBGR
	}
	return w, h, m
}

// SetWindow selects the area, end exclusive, of the frame memory and starts
// a memory write. Pixel data sent afterward fills the area row by row.
func (d *Dev) SetWindow(r image.Rectangle) error {
	r = r.Intersect(d.rect)
	if r.Empty() {
		return fmt.Errorf("st7789: window %v outside of %v", r, d.rect)
	}
	eh := errorHandler{d: d}
	setWindow(&eh, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	d.record("window", &eh)
	return nil
}
