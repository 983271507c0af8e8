// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emu

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	gddramPages   = 8
	gddramColumns = 128
)

// ssd1306Params is the number of parameter bytes following a command.
var ssd1306Params = map[byte]int{
	0x20: 1, // memory mode
	0x21: 2, // column address
	0x22: 2, // page address
	0x81: 1, // contrast
	0x8D: 1, // charge pump
	0xA8: 1, // multiplex
	0xD3: 1, // display offset
	0xD5: 1, // clock divider
	0xD9: 1, // precharge
	0xDA: 1, // COM pins
	0xDB: 1, // VCOM deselect
}

// SSD1306 models a SSD1306 controller on an I²C bus.
type SSD1306 struct {
	addr uint16
	w, h int
	// colOffset is the first GDDRAM column wired to the panel.
	colOffset int

	mu       sync.Mutex
	ram      [gddramPages][gddramColumns]byte
	cmd      byte
	params   []byte
	colStart int
	colEnd   int
	pgStart  int
	pgEnd    int
	col      int
	page     int
	on       bool
	inverted bool
	contrast byte
	failure  error
	writes   int
}

// NewSSD1306 returns a model answering at addr for a w x h panel.
func NewSSD1306(addr uint16, w, h int) *SSD1306 {
	e := &SSD1306{addr: addr, w: w, h: h, colEnd: gddramColumns - 1, pgEnd: gddramPages - 1, contrast: 0x7F}
	if w == 64 {
		e.colOffset = 32
	}
	return e
}

func (e *SSD1306) String() string {
	return fmt.Sprintf("emu.SSD1306{%#x, %dx%d}", e.addr, e.w, e.h)
}

// SetSpeed implements i2c.Bus.
func (e *SSD1306) SetSpeed(physic.Frequency) error {
	return nil
}

// SetFailure makes every following Tx fail with err. nil restores normal
// operation.
func (e *SSD1306) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failure = err
}

// Tx implements i2c.Bus.
func (e *SSD1306) Tx(addr uint16, w, r []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failure != nil {
		return e.failure
	}
	if addr != e.addr {
		return fmt.Errorf("emu: no device at %#x", addr)
	}
	if len(r) != 0 {
		return errors.New("emu: reads are not supported")
	}
	if len(w) == 0 {
		return nil
	}
	e.writes++
	if w[0]&0x40 != 0 {
		for _, b := range w[1:] {
			e.data(b)
		}
		return nil
	}
	for _, b := range w[1:] {
		e.command(b)
	}
	return nil
}

func (e *SSD1306) command(b byte) {
	if n := ssd1306Params[e.cmd]; len(e.params) < n {
		e.params = append(e.params, b)
		if len(e.params) == n {
			e.apply()
		}
		return
	}
	e.cmd = b
	e.params = e.params[:0]
	if ssd1306Params[b] == 0 {
		e.apply()
	}
}

func (e *SSD1306) apply() {
	p := e.params
	switch {
	case e.cmd == 0xAE || e.cmd == 0xAF:
		e.on = e.cmd == 0xAF
	case e.cmd == 0xA6 || e.cmd == 0xA7:
		e.inverted = e.cmd == 0xA7
	case e.cmd == 0x81:
		e.contrast = p[0]
	case e.cmd == 0x21:
		e.colStart = int(p[0]) % gddramColumns
		e.colEnd = int(p[1]) % gddramColumns
		e.col = e.colStart
	case e.cmd == 0x22:
		e.pgStart = int(p[0]) % gddramPages
		e.pgEnd = int(p[1]) % gddramPages
		e.page = e.pgStart
	}
}

// data stores one GDDRAM byte in horizontal addressing mode.
func (e *SSD1306) data(b byte) {
	e.ram[e.page][e.col] = b
	e.col++
	if e.col > e.colEnd {
		e.col = e.colStart
		e.page++
		if e.page > e.pgEnd {
			e.page = e.pgStart
		}
	}
}

// On reports whether the display is on.
func (e *SSD1306) On() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.on
}

// Inverted reports whether the display is inverted.
func (e *SSD1306) Inverted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inverted
}

// Contrast returns the contrast level.
func (e *SSD1306) Contrast() byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contrast
}

// Writes returns the number of successful I²C writes.
func (e *SSD1306) Writes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes
}

// Frame returns a copy of the visible panel memory. Inversion is applied.
func (e *SSD1306) Frame() *image1bit.VerticalLSB {
	e.mu.Lock()
	defer e.mu.Unlock()
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, e.w, e.h))
	for p := 0; p < (e.h+7)/8; p++ {
		for x := 0; x < e.w; x++ {
			b := e.ram[p][(x+e.colOffset)%gddramColumns]
			if e.inverted {
				b = ^b
			}
			img.Pix[p*img.Stride+x] = b
		}
	}
	return img
}

var _ i2c.Bus = &SSD1306{}
