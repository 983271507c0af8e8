// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/picodisplay/common"
	"github.com/GermanBionicSystems/picodisplay/dma"
	"github.com/GermanBionicSystems/picodisplay/image565"
)

// sleep is replaced in tests.
var sleep = time.Sleep

// DefaultOpts is the configuration of the 2" 320x240 panel.
var DefaultOpts = Opts{
	W:             320,
	H:             240,
	Rotation:      drivers.Rotation0,
	Frequency:     62500 * physic.KiloHertz,
	BacklightFreq: 2 * physic.KiloHertz,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the panel size before rotation.
	W int
	H int
	// Rotation is applied with the memory access control register. 90 and 270
	// swap the visible width and height.
	Rotation drivers.Rotation
	// Scan forces one of the fixed scan directions instead of Rotation.
	Scan Scan
	// BGR swaps the red and blue channels.
	BGR bool
	// Round marks a round panel. It is informational.
	Round bool
	// Reassert sends DISPON after every full frame, for panels that blank
	// after a brown out.
	Reassert bool
	// Frequency is the SPI clock. The controller needs 16ns between rising
	// edges.
	Frequency physic.Frequency
	// BacklightFreq is the PWM frequency of the backlight pin.
	BacklightFreq physic.Frequency
	// Logger receives bus failures. nil disables logging.
	Logger *zerolog.Logger
}

// Dev is an open handle to the display controller.
type Dev struct {
	c         spi.Conn
	maxTxSize int
	dma       *dma.Channel
	log       zerolog.Logger

	dc  gpio.PinOut
	cs  gpio.PinOut
	rst gpio.PinOut
	bl  gpio.PinOut

	opts Opts
	// rect is the visible area, after rotation.
	rect   image.Rectangle
	madctl byte
	// next is lazy initialized on first Draw().
	next       *image565.Image
	brightness uint8

	stats common.Stats
}

// New opens a connection on p and initializes the controller.
//
// rst and bl are optional. The backlight starts off, see SetBacklight.
func New(p spi.Port, dc, cs, rst, bl gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.W <= 0 || o.W > 320 || o.H <= 0 || o.H > 320 {
		return nil, fmt.Errorf("st7789: invalid size %dx%d", o.W, o.H)
	}
	if dc == nil || cs == nil {
		return nil, errors.New("st7789: dc and cs are required")
	}
	if o.Frequency == 0 {
		o.Frequency = DefaultOpts.Frequency
	}
	if o.BacklightFreq == 0 {
		o.BacklightFreq = DefaultOpts.BacklightFreq
	}
	c, err := p.Connect(o.Frequency, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}

	w, h, m := orientation(o.W, o.H, o.Rotation, o.Scan, o.BGR)
	d := &Dev{
		c:      c,
		log:    zerolog.Nop(),
		dc:     dc,
		cs:     cs,
		rst:    rst,
		bl:     bl,
		opts:   o,
		rect:   image.Rect(0, 0, w, h),
		madctl: m,
	}
	if o.Logger != nil {
		d.log = o.Logger.With().Str("dev", "st7789").Logger()
	}
	if l, ok := c.(conn.Limits); ok {
		d.maxTxSize = l.MaxTxSize()
	}
	if d.dma, err = dma.Claim(c, o.Logger); err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}

	if err := d.SetBacklight(0); err != nil {
		d.dma.Release()
		return nil, err
	}
	eh := errorHandler{d: d}
	eh.csOut(gpio.High)
	if rst != nil {
		eh.reset()
	}
	replay(&eh, initTable(o.W, o.H))
	configureDisplay(&eh, w, h, m)
	if eh.err != nil {
		d.dma.Release()
		return nil, fmt.Errorf("st7789: failed to initialize: %w", eh.err)
	}
	d.stats.Record(eh.n, nil)
	return d, nil
}

// NewWaveshare2inch returns a Dev wired like the Waveshare 2inch LCD module
// on a Raspberry Pi header.
func NewWaveshare2inch(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_13
	bl := rpi.P1_12
	return New(p, dc, cs, rst, bl, opts)
}

func (d *Dev) String() string {
	round := ""
	if d.opts.Round {
		round = ", round"
	}
	return fmt.Sprintf("st7789.Dev{%s, %s, %s%s}", d.c, d.dc, d.rect.Max, round)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image565.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// It renders src into an internal RGB565 frame and sends the whole frame.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.next == nil {
		d.next = image565.New(d.rect)
	}
	draw.Src.Draw(d.next, r, src, sp)
	return d.Write(d.next.Pix)
}

// Halt turns the backlight and the panel off and releases the DMA channel.
//
// Update returns dma.ErrReleased afterward.
func (d *Dev) Halt() error {
	d.dma.Release()
	err := d.SetBacklight(0)
	eh := errorHandler{d: d}
	eh.sendCommand(displayOff)
	d.record("halt", &eh)
	if err != nil {
		return err
	}
	if eh.err != nil {
		return fmt.Errorf("st7789: failed to halt: %w", eh.err)
	}
	return nil
}

// Stats returns the accumulated outcome of the synchronous writes and of the
// DMA transfers.
func (d *Dev) Stats() common.Stats {
	s := d.stats
	ds := d.dma.Stats()
	s.Writes += ds.Writes
	s.Bytes += ds.Bytes
	s.Timeouts += ds.Timeouts
	s.Errors += ds.Errors
	if ds.Err != nil && s.Err == nil {
		s.Err = ds.Err
	}
	return s
}

// record accounts for a finished sequence and logs its failure, if any.
func (d *Dev) record(op string, eh *errorHandler) {
	if st := d.stats.Record(eh.n, eh.err); st != common.StatusOK {
		d.log.Warn().Str("op", op).Stringer("status", st).Int("bytes", eh.n).Err(eh.err).Msg("spi write failed")
	}
}

var _ display.Drawer = &Dev{}
