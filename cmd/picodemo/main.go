// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// picodemo animates waveforms on a SSD1306 OLED or a ST7789 TFT.
//
// Without hardware, -sim term or -sim window runs the same render loop against
// software models of the controllers and previews their memory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/picodisplay/demo"
	"github.com/GermanBionicSystems/picodisplay/emu"
	"github.com/GermanBionicSystems/picodisplay/graphics"
	"github.com/GermanBionicSystems/picodisplay/simwindow"
	"github.com/GermanBionicSystems/picodisplay/ssd1306"
	"github.com/GermanBionicSystems/picodisplay/termscreen"
)

// config is the parsed command line.
type config struct {
	display  string
	scene    string
	frames   int
	sim      string
	i2cName  string
	spiName  string
	dc       string
	cs       string
	rst      string
	bl       string
	w, h     int
	rotation drivers.Rotation
	pen      graphics.PenType
	cols     int
}

// panel is an initialized display with its render loop body.
type panel struct {
	bounds image.Rectangle
	render func(frame int) error
	halt   func() error
	// memory returns the emulated panel memory. It is nil on hardware.
	memory func() image.Image
}

func parseRotation(deg int) (drivers.Rotation, error) {
	switch deg {
	case 0:
		return drivers.Rotation0, nil
	case 90:
		return drivers.Rotation90, nil
	case 180:
		return drivers.Rotation180, nil
	case 270:
		return drivers.Rotation270, nil
	}
	return 0, fmt.Errorf("invalid rotation %d", deg)
}

func parseFlags(args []string) (*config, bool, error) {
	fs := flag.NewFlagSet("picodemo", flag.ContinueOnError)
	c := &config{}
	fs.StringVar(&c.display, "display", "tft", "display to drive: oled or tft")
	fs.StringVar(&c.scene, "scene", "sine", "scene to render: sine, triangle, gg or text")
	fs.IntVar(&c.frames, "frames", 0, "number of frames to render, 0 for forever")
	fs.StringVar(&c.sim, "sim", "none", "emulate the display and preview it: none, term or window")
	fs.StringVar(&c.i2cName, "i2c", "", "I²C bus to use")
	fs.StringVar(&c.spiName, "spi", "", "SPI port to use")
	fs.StringVar(&c.dc, "dc", "GPIO25", "data/command pin")
	fs.StringVar(&c.cs, "cs", "GPIO8", "chip select pin")
	fs.StringVar(&c.rst, "rst", "GPIO27", "reset pin, empty for none")
	fs.StringVar(&c.bl, "bl", "GPIO18", "backlight pin, empty for none")
	fs.IntVar(&c.w, "w", 0, "panel width, 0 for the default of the display")
	fs.IntVar(&c.h, "h", 0, "panel height, 0 for the default of the display")
	fs.IntVar(&c.cols, "cols", 80, "width of the terminal preview in characters")
	deg := fs.Int("rotation", 0, "TFT rotation: 0, 90, 180 or 270")
	pen := fs.String("pen", "rgb332", "TFT surface format: rgb565, rgb332 or rgb888")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if fs.NArg() != 0 {
		return nil, false, errors.New("unexpected argument, try -help")
	}
	var err error
	if c.rotation, err = parseRotation(*deg); err != nil {
		return nil, false, err
	}
	if c.pen, err = graphics.ParsePenType(*pen); err != nil {
		return nil, false, err
	}
	switch c.display {
	case "oled", "tft":
	default:
		return nil, false, fmt.Errorf("invalid display %q", c.display)
	}
	switch c.sim {
	case "none", "term", "window":
	default:
		return nil, false, fmt.Errorf("invalid sim %q", c.sim)
	}
	return c, *verbose, nil
}

func mainImpl() error {
	c, verbose, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	}

	var p *panel
	if c.sim == "none" {
		if _, err := host.Init(); err != nil {
			return err
		}
		p, err = openHardware(c, &log)
	} else {
		p, err = openEmulator(c, &log)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := p.halt(); err != nil {
			log.Warn().Err(err).Msg("halt")
		}
	}()
	log.Info().Str("display", c.display).Str("scene", c.scene).Stringer("size", p.bounds.Max).Msg("running")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	render := p.render
	var win *simwindow.Window
	switch c.sim {
	case "term":
		ts, err := termscreen.New(p.bounds, &termscreen.Opts{Cols: min(c.cols, p.bounds.Dx()), Rows: min(c.cols, p.bounds.Dx()) * p.bounds.Dy() / p.bounds.Dx() / 2})
		if err != nil {
			return err
		}
		defer ts.Halt()
		render = func(frame int) error {
			if err := p.render(frame); err != nil {
				return err
			}
			return ts.Frame(p.memory())
		}
	case "window":
		if win, err = simwindow.New(p.bounds.Max, p.memory, &simwindow.Opts{Title: "picodemo " + c.display}); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if win != nil {
			defer win.Close()
		}
		return demo.Loop(ctx, c.frames, log, render)
	})
	if win != nil {
		// ebiten needs the main goroutine.
		err := win.Run()
		cancel()
		if err != nil {
			return err
		}
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openHardware(c *config, log *zerolog.Logger) (*panel, error) {
	if c.display == "oled" {
		b, err := i2creg.Open(c.i2cName)
		if err != nil {
			return nil, err
		}
		p, err := newOLED(b, c, log)
		if err != nil {
			b.Close()
			return nil, err
		}
		halt := p.halt
		p.halt = func() error {
			err := halt()
			if err2 := b.Close(); err == nil {
				err = err2
			}
			return err
		}
		return p, nil
	}

	port, err := spireg.Open(c.spiName)
	if err != nil {
		return nil, err
	}
	var pins [4]gpio.PinOut
	for i, name := range []string{c.dc, c.cs, c.rst, c.bl} {
		if name == "" {
			continue
		}
		pin := gpioreg.ByName(name)
		if pin == nil {
			port.Close()
			return nil, fmt.Errorf("unknown pin %q", name)
		}
		pins[i] = pin
	}
	p, err := newTFT(port, pins[0], pins[1], pins[2], pins[3], c, log)
	if err != nil {
		port.Close()
		return nil, err
	}
	halt := p.halt
	p.halt = func() error {
		err := halt()
		if err2 := port.Close(); err == nil {
			err = err2
		}
		return err
	}
	return p, nil
}

func openEmulator(c *config, log *zerolog.Logger) (*panel, error) {
	if c.display == "oled" {
		w, h := oledSize(c)
		e := emu.NewSSD1306(ssd1306.DefaultOpts.Addr, w, h)
		p, err := newOLED(e, c, log)
		if err != nil {
			return nil, err
		}
		p.memory = func() image.Image { return e.Frame() }
		return p, nil
	}
	w, h := tftSize(c)
	if c.rotation == drivers.Rotation90 || c.rotation == drivers.Rotation270 {
		w, h = h, w
	}
	e := emu.NewST7789(w, h)
	p, err := newTFT(e, e.DC, e.CS, e.RST, e.BL, c, log)
	if err != nil {
		return nil, err
	}
	p.memory = func() image.Image { return e.Frame() }
	return p, nil
}

func main() {
	if err := mainImpl(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "picodemo: %s.\n", err)
		os.Exit(1)
	}
}
