// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/color"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/picodisplay/common"
	"github.com/GermanBionicSystems/picodisplay/demo"
	"github.com/GermanBionicSystems/picodisplay/graphics"
	"github.com/GermanBionicSystems/picodisplay/ssd1306"
	"github.com/GermanBionicSystems/picodisplay/st7789"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func oledSize(c *config) (int, int) {
	w, h := ssd1306.DefaultOpts.W, ssd1306.DefaultOpts.H
	if c.w != 0 {
		w = c.w
	}
	if c.h != 0 {
		h = c.h
	}
	return w, h
}

func tftSize(c *config) (int, int) {
	w, h := st7789.DefaultOpts.W, st7789.DefaultOpts.H
	if c.w != 0 {
		w = c.w
	}
	if c.h != 0 {
		h = c.h
	}
	return w, h
}

func newOLED(b i2c.Bus, c *config, log *zerolog.Logger) (*panel, error) {
	w, h := oledSize(c)
	d, err := ssd1306.NewI2C(b, &ssd1306.Opts{W: w, H: h, Logger: log})
	if err != nil {
		return nil, err
	}
	var draw func(frame int)
	switch c.scene {
	case "sine":
		draw = func(frame int) {
			demo.OLEDSine(d, frame%w, h/2-1)
		}
	case "text":
		draw = func(frame int) {
			d.DrawRect(0, 0, w-1, h-1)
			d.DrawString(4, 4, 1, nil, "picodisplay")
			demo.Banner(d, 4, int16(h-6), fmt.Sprintf("frame %d", frame), white)
		}
	default:
		return nil, fmt.Errorf("scene %q needs a color display", c.scene)
	}
	return &panel{
		bounds: d.Bounds(),
		render: func(frame int) error {
			d.Clear()
			draw(frame)
			d.Show()
			if st := d.LastStatus(); st != common.StatusOK {
				log.Debug().Int("frame", frame).Stringer("status", st).Msg("show")
			}
			return nil
		},
		halt: d.Halt,
	}, nil
}

func newTFT(p spi.Port, dc, cs, rst, bl gpio.PinOut, c *config, log *zerolog.Logger) (*panel, error) {
	o := st7789.DefaultOpts
	o.W, o.H = tftSize(c)
	o.Rotation = c.rotation
	o.Logger = log
	d, err := st7789.New(p, dc, cs, rst, bl, &o)
	if err != nil {
		return nil, err
	}
	pen := c.pen
	if c.scene == "gg" && pen != graphics.PenRGB888 {
		log.Info().Stringer("pen", graphics.PenRGB888).Msg("the gg scene draws on a RGB888 surface")
		pen = graphics.PenRGB888
	}
	b := d.Bounds()
	s, err := graphics.New(pen, b.Dx(), b.Dy())
	if err != nil {
		_ = d.Halt()
		return nil, err
	}
	bg := s.CreatePen(0, 0, 0)
	fg := s.CreatePen(255, 255, 255)

	var draw func(frame int)
	switch c.scene {
	case "sine":
		draw = func(frame int) {
			demo.Sine(s, frame%b.Dx(), b.Dy()/3)
		}
	case "triangle":
		draw = func(frame int) {
			demo.Triangle(s, frame%300)
		}
	case "gg":
		sc, err := demo.NewScene("picodisplay", 18)
		if err != nil {
			_ = d.Halt()
			return nil, err
		}
		rgb := s.(*graphics.RGB888)
		draw = func(frame int) {
			sc.Render(rgb.RGBA, frame%b.Dx())
		}
	case "text":
		draw = func(frame int) {
			demo.Label(s, 8, 20, "picodisplay", color.RGBA{R: 255, G: 160, A: 255})
			demo.Banner(s, 8, 44, fmt.Sprintf("frame %d", frame), white)
			demo.Sine(s, frame%b.Dx(), b.Dy()/6)
		}
	default:
		_ = d.Halt()
		return nil, fmt.Errorf("unknown scene %q", c.scene)
	}
	if err := d.SetBacklight(255); err != nil {
		_ = d.Halt()
		return nil, err
	}
	return &panel{
		bounds: b,
		render: func(frame int) error {
			s.SetPen(bg)
			s.Clear()
			s.SetPen(fg)
			draw(frame)
			return d.Update(s)
		},
		halt: d.Halt,
	}, nil
}
