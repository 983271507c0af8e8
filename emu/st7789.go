// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emu

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/picodisplay/image565"
)

// Frame memory is 240x320. With the row/column exchange bit set the
// addressable area is 320x240, so both axes go up to 320.
const frameMemory = 320

// maxHistory bounds the command log.
const maxHistory = 1024

// ST7789 models a ST7789 controller on a SPI port.
//
// It implements spi.Port and spi.Conn. The data/command and chip select
// lines are the DC and CS pins, which must be handed to the driver.
type ST7789 struct {
	// DC is the data/command line. Low selects commands.
	DC *Pin
	// CS is the active low chip select line.
	CS *Pin
	// RST is the active low reset line.
	RST *Pin
	// BL is the backlight.
	BL *Pin

	w, h int

	mu         sync.Mutex
	maxTx      int
	txDelay    time.Duration
	failure    error
	inflight   int
	violations int
	transfers  int
	freq       physic.Frequency

	mem      [frameMemory * frameMemory]uint16
	cmd      byte
	params   []byte
	history  []byte
	window   image.Rectangle
	x, y     int
	hi       byte
	half     bool
	ramBytes int
	madctl   byte
	colmod   byte
	on       bool
	sleeping bool
	inverted bool
}

// NewST7789 returns a model of a panel showing w x h pixels.
func NewST7789(w, h int) *ST7789 {
	e := &ST7789{w: w, h: h}
	e.DC = &Pin{name: "DC", e: e}
	e.CS = &Pin{name: "CS", e: e, l: gpio.High}
	e.RST = &Pin{name: "RST", e: e, l: gpio.High}
	e.BL = &Pin{name: "BL", e: e}
	e.softwareReset()
	return e
}

func (e *ST7789) String() string {
	return fmt.Sprintf("emu.ST7789{%dx%d}", e.w, e.h)
}

// SetMaxTxSize caps the size of a single Tx. 0 means no limit.
func (e *ST7789) SetMaxTxSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxTx = n
}

// SetTxDelay makes every Tx last at least d, to emulate a slow bus.
func (e *ST7789) SetTxDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.txDelay = d
}

// SetFailure makes every following Tx fail with err. nil restores normal
// operation.
func (e *ST7789) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failure = err
}

// Connect implements spi.Port.
func (e *ST7789) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if mode != spi.Mode0 || bits != 8 {
		return nil, fmt.Errorf("emu: unsupported mode %s with %d bits", mode, bits)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.freq = f
	return e, nil
}

// LimitSpeed implements spi.PortCloser.
func (e *ST7789) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Close implements spi.PortCloser.
func (e *ST7789) Close() error {
	return nil
}

// Duplex implements conn.Conn.
func (e *ST7789) Duplex() conn.Duplex {
	return conn.Half
}

// MaxTxSize implements conn.Limits.
func (e *ST7789) MaxTxSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxTx
}

// TxPackets implements spi.Conn.
func (e *ST7789) TxPackets(p []spi.Packet) error {
	return errors.New("emu: TxPackets is not supported")
}

// Tx implements conn.Conn.
//
// The levels of DC and CS are sampled once the transfer completed. A pin
// change or another Tx while this one is on the bus is a violation.
func (e *ST7789) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("emu: reads are not supported")
	}
	e.mu.Lock()
	if e.inflight != 0 {
		e.violations++
	}
	e.inflight++
	delay := e.txDelay
	e.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--
	if e.failure != nil {
		return e.failure
	}
	if e.maxTx > 0 && len(w) > e.maxTx {
		return fmt.Errorf("emu: %d bytes exceeds the transfer limit of %d bytes", len(w), e.maxTx)
	}
	e.transfers++
	if e.CS.l == gpio.High {
		// Not selected, the controller ignores the clock.
		e.violations++
		return nil
	}
	if e.DC.l == gpio.Low {
		for _, b := range w {
			e.command(b)
		}
		return nil
	}
	for _, b := range w {
		e.data(b)
	}
	return nil
}

func (e *ST7789) softwareReset() {
	e.cmd = 0
	e.params = e.params[:0]
	e.window = image.Rect(0, 0, frameMemory, frameMemory)
	e.half = false
	e.madctl = 0
	e.colmod = 0x66
	e.on = false
	e.sleeping = true
	e.inverted = false
}

func (e *ST7789) command(b byte) {
	e.cmd = b
	e.params = e.params[:0]
	e.half = false
	e.history = append(e.history, b)
	if len(e.history) > maxHistory {
		e.history = append(e.history[:0], e.history[len(e.history)-maxHistory/2:]...)
	}
	switch b {
	case 0x01:
		e.softwareReset()
	case 0x10, 0x11:
		e.sleeping = b == 0x10
	case 0x20, 0x21:
		e.inverted = b == 0x21
	case 0x28, 0x29:
		e.on = b == 0x29
	case 0x2C:
		e.x, e.y = e.window.Min.X, e.window.Min.Y
		e.ramBytes = 0
	}
}

func (e *ST7789) data(b byte) {
	switch e.cmd {
	case 0x2A, 0x2B:
		if len(e.params) == 4 {
			return
		}
		e.params = append(e.params, b)
		if len(e.params) < 4 {
			return
		}
		start := min(int(e.params[0])<<8|int(e.params[1]), frameMemory-1)
		end := min(int(e.params[2])<<8|int(e.params[3]), frameMemory-1)
		if e.cmd == 0x2A {
			e.window.Min.X, e.window.Max.X = start, end+1
		} else {
			e.window.Min.Y, e.window.Max.Y = start, end+1
		}
	case 0x36:
		e.madctl = b
	case 0x3A:
		e.colmod = b
	case 0x2C:
		e.ramBytes++
		if !e.half {
			e.hi = b
			e.half = true
			return
		}
		e.half = false
		if e.window.Empty() {
			return
		}
		e.mem[e.y*frameMemory+e.x] = uint16(e.hi)<<8 | uint16(b)
		e.x++
		if e.x >= e.window.Max.X {
			e.x = e.window.Min.X
			e.y++
			if e.y >= e.window.Max.Y {
				e.y = e.window.Min.Y
			}
		}
	}
}

// pinChanged is called by a Pin before it changes level.
func (e *ST7789) pinChanged(p *Pin, l gpio.Level) {
	if e.inflight != 0 {
		e.violations++
	}
	if p == e.RST && p.l == gpio.High && l == gpio.Low {
		e.softwareReset()
	}
}

// Violations returns the number of framing violations seen so far: pin
// changes or overlapping transfers while a Tx was in flight, and transfers
// with the chip deselected.
func (e *ST7789) Violations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.violations
}

// Transfers returns the number of completed Tx.
func (e *ST7789) Transfers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transfers
}

// Commands returns the most recent command bytes, oldest first.
func (e *ST7789) Commands() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.history...)
}

// RAMBytes returns the number of bytes written since the last memory write
// command.
func (e *ST7789) RAMBytes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ramBytes
}

// Window returns the column and row address window.
func (e *ST7789) Window() image.Rectangle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.window
}

// MADCTL returns the memory access control register.
func (e *ST7789) MADCTL() byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.madctl
}

// On reports whether the display is on and out of sleep.
func (e *ST7789) On() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.on && !e.sleeping
}

// Inverted reports whether display inversion is on.
func (e *ST7789) Inverted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inverted
}

// Frame returns a copy of the visible area of the frame memory.
func (e *ST7789) Frame() *image565.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	img := image565.New(image.Rect(0, 0, e.w, e.h))
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			img.SetRGB565(x, y, image565.RGB565(e.mem[y*frameMemory+x]))
		}
	}
	return img
}

// Pin is an output line of the model.
type Pin struct {
	name string
	e    *ST7789
	l    gpio.Level
	d    gpio.Duty
	f    physic.Frequency
}

func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return -1
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	if p.d != 0 {
		return gpio.PWM
	}
	return gpio.OUT
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.OUT, gpio.PWM}
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	return errors.New("emu: not supported")
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	p.e.pinChanged(p, l)
	p.l = l
	p.d = 0
	return nil
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(d gpio.Duty, f physic.Frequency) error {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	p.d = d
	p.f = f
	return nil
}

// Read returns the level set with Out.
func (p *Pin) Read() gpio.Level {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	return p.l
}

// Duty returns the duty cycle set with PWM.
func (p *Pin) Duty() gpio.Duty {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	return p.d
}

var _ spi.PortCloser = &ST7789{}
var _ spi.Conn = &ST7789{}
var _ conn.Limits = &ST7789{}
var _ gpio.PinOut = &Pin{}
