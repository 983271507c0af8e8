// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emu

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/picodisplay/image565"
)

func TestSSD1306Decode(t *testing.T) {
	e := NewSSD1306(0x3C, 128, 64)
	// Parameters may be split across transactions.
	for _, w := range [][]byte{
		{0x00, 0xAF},
		{0x00, 0x21}, {0x00, 0}, {0x00, 127},
		{0x00, 0x22, 0, 7},
		{0x00, 0x81, 0x10},
	} {
		if err := e.Tx(0x3C, w, nil); err != nil {
			t.Fatal(err)
		}
	}
	data := make([]byte, 1+128*8)
	data[0] = 0x40
	data[1] = 0x01
	data[1+128+5] = 0x80
	if err := e.Tx(0x3C, data, nil); err != nil {
		t.Fatal(err)
	}
	if !e.On() {
		t.Fatal("expected on")
	}
	if c := e.Contrast(); c != 0x10 {
		t.Fatalf("contrast %#x", c)
	}
	f := e.Frame()
	if f.BitAt(0, 0) != image1bit.On || f.BitAt(5, 15) != image1bit.On || f.BitAt(1, 0) != image1bit.Off {
		t.Fatal("unexpected frame content")
	}
	if n := e.Writes(); n != 7 {
		t.Fatalf("writes %d", n)
	}

	if err := e.Tx(0x3C, []byte{0x00, 0xA7}, nil); err != nil {
		t.Fatal(err)
	}
	if f := e.Frame(); f.BitAt(0, 0) != image1bit.Off || f.BitAt(1, 0) != image1bit.On {
		t.Fatal("expected inverted frame")
	}
}

func TestSSD1306ColumnOffset(t *testing.T) {
	e := NewSSD1306(0x3C, 64, 48)
	if err := e.Tx(0x3C, []byte{0x00, 0x21, 32, 95, 0x22, 0, 5}, nil); err != nil {
		t.Fatal(err)
	}
	if err := e.Tx(0x3C, []byte{0x40, 0xFF}, nil); err != nil {
		t.Fatal(err)
	}
	f := e.Frame()
	if f.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Fatal(f.Bounds())
	}
	if f.BitAt(0, 7) != image1bit.On {
		t.Fatal("expected the first visible column to be lit")
	}
}

func TestSSD1306Failure(t *testing.T) {
	e := NewSSD1306(0x3C, 128, 32)
	if e.Tx(0x3D, []byte{0x00, 0xAF}, nil) == nil {
		t.Fatal("wrong address")
	}
	if e.Tx(0x3C, []byte{0x00}, []byte{0}) == nil {
		t.Fatal("reads are not supported")
	}
	want := errors.New("nack")
	e.SetFailure(want)
	if err := e.Tx(0x3C, []byte{0x00, 0xAF}, nil); err != want {
		t.Fatalf("got %v", err)
	}
	e.SetFailure(nil)
	if err := e.Tx(0x3C, []byte{0x00, 0xAF}, nil); err != nil {
		t.Fatal(err)
	}
}

// st7789Seq sends cmd then its data in a single chip select bracket.
func st7789Seq(t *testing.T, e *ST7789, c spi.Conn, cmd byte, data ...byte) {
	t.Helper()
	steps := []func() error{
		func() error { return e.DC.Out(gpio.Low) },
		func() error { return e.CS.Out(gpio.Low) },
		func() error { return c.Tx([]byte{cmd}, nil) },
	}
	if len(data) != 0 {
		steps = append(steps,
			func() error { return e.DC.Out(gpio.High) },
			func() error { return c.Tx(data, nil) },
		)
	}
	steps = append(steps, func() error { return e.CS.Out(gpio.High) })
	for _, s := range steps {
		if err := s(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestST7789Decode(t *testing.T) {
	e := NewST7789(320, 240)
	c, err := e.Connect(62500000, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	st7789Seq(t, e, c, 0x11)
	st7789Seq(t, e, c, 0x29)
	st7789Seq(t, e, c, 0x36, 0x70)
	st7789Seq(t, e, c, 0x2A, 0, 1, 0, 2)
	st7789Seq(t, e, c, 0x2B, 0, 0, 0, 0)
	st7789Seq(t, e, c, 0x2C, 0xF8, 0x00, 0x07)
	// The odd byte carries over to the next transfer.
	if err := e.CS.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if err := e.DC.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if err := c.Tx([]byte{0xE0}, nil); err != nil {
		t.Fatal(err)
	}
	if err := e.CS.Out(gpio.High); err != nil {
		t.Fatal(err)
	}

	if w := e.Window(); w != image.Rect(1, 0, 3, 1) {
		t.Fatal(w)
	}
	if m := e.MADCTL(); m != 0x70 {
		t.Fatalf("%#x", m)
	}
	if !e.On() {
		t.Fatal("expected on")
	}
	f := e.Frame()
	got := []image565.RGB565{f.RGB565At(0, 0), f.RGB565At(1, 0), f.RGB565At(2, 0)}
	if diff := cmp.Diff([]image565.RGB565{0, 0xF800, 0x07E0}, got); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0x11, 0x29, 0x36, 0x2A, 0x2B, 0x2C}, e.Commands()); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
	if n := e.RAMBytes(); n != 4 {
		t.Fatalf("RAM bytes %d", n)
	}
	if v := e.Violations(); v != 0 {
		t.Fatalf("violations %d", v)
	}
}

func TestST7789Deselected(t *testing.T) {
	e := NewST7789(240, 240)
	c, _ := e.Connect(1000000, spi.Mode0, 8)
	if err := c.Tx([]byte{0x29}, nil); err != nil {
		t.Fatal(err)
	}
	if e.On() {
		t.Fatal("command must be ignored")
	}
	if v := e.Violations(); v != 1 {
		t.Fatalf("violations %d", v)
	}
}

func TestST7789PinChangeInFlight(t *testing.T) {
	e := NewST7789(240, 240)
	c, _ := e.Connect(1000000, spi.Mode0, 8)
	e.SetTxDelay(200 * time.Millisecond)
	if err := e.CS.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	done := make(chan error)
	go func() {
		done <- c.Tx([]byte{0x29}, nil)
	}()
	time.Sleep(50 * time.Millisecond)
	if err := e.DC.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if v := e.Violations(); v != 1 {
		t.Fatalf("violations %d", v)
	}
}

func TestST7789Limits(t *testing.T) {
	e := NewST7789(240, 240)
	if _, err := e.Connect(1000000, spi.Mode3, 8); err == nil {
		t.Fatal("mode 3 is not supported")
	}
	c, _ := e.Connect(1000000, spi.Mode0, 8)
	e.SetMaxTxSize(4)
	if err := e.CS.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if c.Tx(make([]byte, 5), nil) == nil {
		t.Fatal("expected the transfer limit to apply")
	}
	if err := c.Tx(make([]byte, 4), nil); err != nil {
		t.Fatal(err)
	}
}

func TestST7789Reset(t *testing.T) {
	e := NewST7789(240, 240)
	c, _ := e.Connect(1000000, spi.Mode0, 8)
	st7789Seq(t, e, c, 0x36, 0x08)
	if err := e.RST.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if m := e.MADCTL(); m != 0 {
		t.Fatalf("%#x", m)
	}
}

func TestPin(t *testing.T) {
	e := NewST7789(240, 240)
	if s := e.BL.String(); s != "BL" {
		t.Fatal(s)
	}
	if err := e.BL.PWM(gpio.DutyHalf, 2000); err != nil {
		t.Fatal(err)
	}
	if d := e.BL.Duty(); d != gpio.DutyHalf {
		t.Fatal(d)
	}
	if f := e.BL.Func(); f != gpio.PWM {
		t.Fatal(f)
	}
	if err := e.BL.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if e.BL.Read() != gpio.High || e.BL.Duty() != 0 {
		t.Fatal("expected a plain output")
	}
}
