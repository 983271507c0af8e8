// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management.
//
// Once a step failed, all the following steps are skipped and err holds the
// first failure.
type errorHandler struct {
	d   *Dev
	err error
	// n is the number of bytes written to the bus.
	n int
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

// cTx writes w, split in pieces the connection accepts.
func (eh *errorHandler) cTx(w []byte) {
	for len(w) > 0 && eh.err == nil {
		n := len(w)
		if eh.d.maxTxSize > 0 && n > eh.d.maxTxSize {
			n = eh.d.maxTxSize
		}
		eh.err = eh.d.c.Tx(w[:n], nil)
		if eh.err == nil {
			eh.n += n
		}
		w = w[n:]
	}
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

func (eh *errorHandler) delay(d time.Duration) {
	if eh.err != nil {
		return
	}
	sleep(d)
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd})
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(data)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData8(b byte) {
	eh.sendData([]byte{b})
}

// sendData16 writes v most significant byte first.
func (eh *errorHandler) sendData16(v uint16) {
	eh.sendData([]byte{byte(v >> 8), byte(v)})
}

func (eh *errorHandler) command(cmd byte, data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd})
	if data != nil {
		eh.dcOut(gpio.High)
		eh.cTx(data)
	}
	eh.csOut(gpio.High)
}

// reset pulses the reset line.
func (eh *errorHandler) reset() {
	eh.rstOut(gpio.High)
	eh.delay(100 * time.Millisecond)
	eh.rstOut(gpio.Low)
	eh.delay(100 * time.Millisecond)
	eh.rstOut(gpio.High)
	eh.delay(100 * time.Millisecond)
}
