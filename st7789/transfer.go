// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/picodisplay/dma"
	"github.com/GermanBionicSystems/picodisplay/graphics"
	"github.com/GermanBionicSystems/picodisplay/image565"
)

// lineBytes is the size of one scan line in the frame memory.
func (d *Dev) lineBytes() int {
	if d.madctl&madctlSwapXY != 0 {
		return 2 * d.rect.Dy()
	}
	return 2 * d.rect.Dx()
}

// Write sends a full RGB565 frame, big endian, in row-major order of the
// visible area.
//
// The frame goes out in scan line chunks under a single chip select. pix is
// not retained.
func (d *Dev) Write(pix []byte) error {
	if want := 2 * d.rect.Dx() * d.rect.Dy(); len(pix) != want {
		return fmt.Errorf("st7789: invalid pixel stream length; expected %d bytes, got %d bytes", want, len(pix))
	}
	eh := errorHandler{d: d}
	setWindow(&eh, 0, 0, d.rect.Dx(), d.rect.Dy())
	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	line := d.lineBytes()
	for off := 0; off < len(pix); off += line {
		eh.cTx(pix[off:min(off+line, len(pix))])
	}
	eh.csOut(gpio.High)
	if d.opts.Reassert {
		eh.sendCommand(displayOn)
	}
	d.record("write", &eh)
	return nil
}

// WriteRect sends pix, RGB565 big endian, to the area r of the frame
// memory.
func (d *Dev) WriteRect(r image.Rectangle, pix []byte) error {
	if !r.In(d.rect) || r.Empty() {
		return fmt.Errorf("st7789: rectangle %v outside of %v", r, d.rect)
	}
	if want := 2 * r.Dx() * r.Dy(); len(pix) != want {
		return fmt.Errorf("st7789: invalid pixel stream length; expected %d bytes, got %d bytes", want, len(pix))
	}
	eh := errorHandler{d: d}
	setWindow(&eh, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	eh.sendData(pix)
	d.record("write", &eh)
	return nil
}

// Clear fills the panel with c.
func (d *Dev) Clear(c image565.RGB565) {
	line := make([]byte, d.lineBytes())
	for i := 0; i < len(line); i += 2 {
		line[i] = byte(c >> 8)
		line[i+1] = byte(c)
	}
	n := 2 * d.rect.Dx() * d.rect.Dy() / len(line)
	eh := errorHandler{d: d}
	setWindow(&eh, 0, 0, d.rect.Dx(), d.rect.Dy())
	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	for i := 0; i < n; i++ {
		eh.cTx(line)
	}
	eh.csOut(gpio.High)
	d.record("clear", &eh)
}

// DisplayOn turns the panel on again, after a Halt or a brown out.
func (d *Dev) DisplayOn() {
	eh := errorHandler{d: d}
	eh.sendCommand(displayOn)
	d.record("display on", &eh)
}

// Update sends the surface s, which must match the panel size.
//
// RGB565 surfaces are sent synchronously, like Write. Other formats are
// converted chunk by chunk and streamed over the DMA channel, one transfer in
// flight, while the next chunk is converted. The chip select is released only
// once the last transfer completed.
func (d *Dev) Update(s graphics.Surface) error {
	if b := s.Bounds(); b.Dx() != d.rect.Dx() || b.Dy() != d.rect.Dy() {
		return fmt.Errorf("st7789: surface %v does not match %v", b, d.rect)
	}
	if s.PenType() == graphics.PenRGB565 {
		return d.Write(s.Pix())
	}
	chunks, err := s.FrameConvert(graphics.PenRGB565)
	if err != nil {
		return fmt.Errorf("st7789: %w", err)
	}
	// Failures of the previous frame were already accounted for.
	if err := d.dma.Wait(); errors.Is(err, dma.ErrReleased) {
		return fmt.Errorf("st7789: %w", err)
	}

	eh := errorHandler{d: d}
	addressWindow(&eh, 0, 0, d.rect.Dx(), d.rect.Dy())
	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{memoryWrite})
	eh.dcOut(gpio.High)
	for chunk := range chunks {
		if eh.err != nil {
			break
		}
		for len(chunk) > 0 {
			n := len(chunk)
			if d.maxTxSize > 0 && n > d.maxTxSize {
				n = d.maxTxSize
			}
			if eh.err = d.dma.Start(chunk[:n]); eh.err != nil {
				break
			}
			chunk = chunk[n:]
		}
	}
	// Transfer failures are accounted for by the channel.
	_ = d.dma.Wait()
	if eh.err == nil {
		eh.csOut(gpio.High)
	} else {
		_ = d.cs.Out(gpio.High)
	}
	if d.opts.Reassert {
		eh.sendCommand(displayOn)
	}
	d.record("update", &eh)
	return nil
}
