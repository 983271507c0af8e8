// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/picodisplay/common"
)

const (
	_CHARGEPUMP          = 0x8D
	_COLUMNADDR          = 0x21
	_COMSCANINC          = 0xC0
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
	_MEMORYMODE          = 0x20
	_NORMALDISPLAY       = 0xA6
	_PAGEADDR            = 0x22
	_SEGREMAP            = 0xA0
	_SETCOMPINS          = 0xDA
	_SETCONTRAST         = 0x81
	_SETDISPLAYCLOCKDIV  = 0xD5
	_SETDISPLAYOFFSET    = 0xD3
	_SETMULTIPLEX        = 0xA8
	_SETPRECHARGE        = 0xD9
	_SETSTARTLINE        = 0x40
	_SETVCOMDETECT       = 0xDB
)

const (
	i2cCmd  = 0x00 // I²C transaction has stream of command bytes
	i2cData = 0x40 // I²C transaction has stream of data bytes
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W:    128,
	H:    64,
	Addr: 0x3C,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	// H does not need to be a multiple of 8. The rows of the last page past H
	// stay off.
	H int
	// The I2C address of the display.
	Addr uint16
	// ExternalVCC selects the init values for panels powered from an
	// external supply instead of the internal charge pump.
	ExternalVCC bool
	// MaxBufferSize caps the framebuffer allocation in bytes. When the panel
	// needs more, the device runs without a framebuffer: drawing is ignored
	// and Show only sends the address window. 0 means no limit.
	MaxBufferSize int
	// Logger receives bus failures. nil disables logging.
	Logger *zerolog.Logger
}

// Dev is an open handle to the display controller.
type Dev struct {
	c   conn.Conn
	log zerolog.Logger

	rect  image.Rectangle
	pages int
	// colOffset shifts the column window of 64 pixel wide panels, which are
	// wired to the middle of the 128 columns of GDDRAM.
	colOffset byte
	// buffer[0] is reserved for the data marker so that Show sends the
	// framebuffer in a single write. buffer[1:] is the GDDRAM image.
	buffer []byte
	img    *image1bit.VerticalLSB
	halted bool

	stats common.Stats
}

// NewI2C returns a Dev object that communicates over I²C to a SSD1306 display
// controller and initializes it.
//
// A nil opts uses DefaultOpts. An Addr of 0 selects the default address.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Addr == 0x00 {
		o.Addr = DefaultOpts.Addr
	}
	// Maximum clock speed is 1/2.5µs = 400KHz.
	return newDev(&i2c.Dev{Bus: b, Addr: o.Addr}, &o)
}

func newDev(c conn.Conn, opts *Opts) (*Dev, error) {
	if opts.W < 8 || opts.W > 128 {
		return nil, fmt.Errorf("ssd1306: invalid width %d", opts.W)
	}
	if opts.H < 8 || opts.H > 64 {
		return nil, fmt.Errorf("ssd1306: invalid height %d", opts.H)
	}
	d := &Dev{
		c:     c,
		log:   zerolog.Nop(),
		rect:  image.Rect(0, 0, opts.W, opts.H),
		pages: (opts.H + 7) / 8,
	}
	if opts.Logger != nil {
		d.log = opts.Logger.With().Str("dev", "ssd1306").Logger()
	}
	if opts.W == 64 {
		d.colOffset = 32
	}
	size := d.pages * opts.W
	if opts.MaxBufferSize > 0 && size > opts.MaxBufferSize {
		d.log.Warn().Int("bytes", size).Int("max", opts.MaxBufferSize).Msg("framebuffer too large, drawing disabled")
	} else {
		d.buffer = make([]byte, size+1)
		d.img = &image1bit.VerticalLSB{Pix: d.buffer[1:], Stride: opts.W, Rect: d.rect}
	}
	for _, b := range initCmd(opts) {
		d.write(b)
	}
	if d.stats.Err != nil {
		return nil, fmt.Errorf("ssd1306: failed to initialize: %w", d.stats.Err)
	}
	return d, nil
}

// initCmd returns the power up sequence, one command or parameter byte per
// write.
func initCmd(opts *Opts) []byte {
	chargePump := byte(0x14)
	precharge := byte(0xF1)
	if opts.ExternalVCC {
		chargePump = 0x10
		precharge = 0x22
	}
	comPins := byte(0x12)
	if opts.W > 2*opts.H {
		comPins = 0x02
	}
	return []byte{
		_DISPLAYOFF,
		_SETDISPLAYCLOCKDIV, 0xF0, // Max oscillator frequency; reset value is 0x80.
		_SETMULTIPLEX, byte(opts.H - 1),
		_SETDISPLAYOFFSET, 0x00,
		_SETSTARTLINE,
		_CHARGEPUMP, chargePump,
		_SEGREMAP | 0x01,   // Column 127 is mapped to SEG0.
		_COMSCANINC | 0x08, // Scan from COM[N-1] to COM0.
		_SETCOMPINS, comPins,
		_SETCONTRAST, 0xFF,
		_SETPRECHARGE, precharge,
		_SETVCOMDETECT, 0x30,
		_DISPLAYALLON_RESUME, // Output follows GDDRAM.
		_NORMALDISPLAY,
		_DISPLAYON,
		_MEMORYMODE, 0x00, // Horizontal addressing.
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %s}", d.c, d.rect.Max)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// It renders src into the framebuffer and calls Show.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.img != nil {
		draw.Src.Draw(d.img, r, src, sp)
	}
	d.Show()
	return nil
}

// Write replaces the framebuffer with pixels and calls Show.
//
// The format is the one of image1bit.VerticalLSB.Pix: each byte represents 8
// vertical pixels, in horizontal bands of 8 pixels high.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.buffer == nil {
		return 0, fmt.Errorf("ssd1306: no framebuffer")
	}
	if len(pixels) != len(d.buffer)-1 {
		return 0, fmt.Errorf("ssd1306: invalid pixel stream length; expected %d bytes, got %d bytes", len(d.buffer)-1, len(pixels))
	}
	copy(d.buffer[1:], pixels)
	d.Show()
	return len(pixels), nil
}

// Buffer returns the framebuffer. It is nil when the device runs without a
// framebuffer.
func (d *Dev) Buffer() []byte {
	if d.buffer == nil {
		return nil
	}
	return d.buffer[1:]
}

// Show sends the framebuffer to the panel.
//
// The column and page window is reset first, then the whole buffer goes out
// in a single data write.
func (d *Dev) Show() {
	if d.halted {
		d.PowerOn()
	}
	for _, b := range []byte{
		_COLUMNADDR, d.colOffset, byte(d.rect.Dx()-1) + d.colOffset,
		_PAGEADDR, 0, byte(d.pages - 1),
	} {
		d.write(b)
	}
	if d.buffer == nil {
		return
	}
	d.buffer[0] = i2cData
	d.tx("show", d.buffer)
}

// PowerOn turns the panel on.
func (d *Dev) PowerOn() {
	d.write(_DISPLAYON)
	d.halted = false
}

// PowerOff turns the panel off. GDDRAM content is retained.
func (d *Dev) PowerOff() {
	d.write(_DISPLAYOFF)
}

// SetContrast changes the screen contrast.
func (d *Dev) SetContrast(level byte) {
	d.write(_SETCONTRAST)
	d.write(level)
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) {
	b := byte(_NORMALDISPLAY)
	if blackOnWhite {
		b |= 0x01
	}
	d.write(b)
}

// Halt turns off the display.
//
// The next Show transparently turns it back on.
func (d *Dev) Halt() error {
	d.PowerOff()
	if d.stats.Last != common.StatusOK {
		return fmt.Errorf("ssd1306: failed to halt: %w", d.stats.Err)
	}
	d.halted = true
	return nil
}

// LastStatus returns the outcome of the most recent bus write.
func (d *Dev) LastStatus() common.Status {
	return d.stats.Last
}

// Stats returns the accumulated bus write outcomes.
func (d *Dev) Stats() common.Stats {
	return d.stats
}

// Size implements drivers.Displayer.
func (d *Dev) Size() (int16, int16) {
	return int16(d.rect.Dx()), int16(d.rect.Dy())
}

// Display implements drivers.Displayer. It calls Show.
func (d *Dev) Display() error {
	d.Show()
	return nil
}

// write sends a single command byte.
func (d *Dev) write(b byte) {
	d.tx("command", []byte{i2cCmd, b})
}

func (d *Dev) tx(op string, w []byte) {
	err := d.c.Tx(w, nil)
	if st := d.stats.Record(len(w), err); st != common.StatusOK {
		d.log.Warn().Str("op", op).Stringer("status", st).Int("bytes", len(w)).Err(err).Msg("i2c write failed")
	}
}

var _ display.Drawer = &Dev{}
var _ drivers.Displayer = &Dev{}
