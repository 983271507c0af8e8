// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import "time"

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	sendData8(byte)
	sendData16(uint16)
	// command sends cmd and data under a single chip select.
	command(cmd byte, data []byte)
	delay(time.Duration)
}

func replay(ctrl controller, table []initCmd) {
	for _, c := range table {
		ctrl.command(c.reg, c.data)
		if c.delay != 0 {
			ctrl.delay(c.delay)
		}
	}
}

// addressWindow sets the end exclusive column and row ranges.
func addressWindow(ctrl controller, xs, ys, xe, ye int) {
	ctrl.sendCommand(columnAddressSet)
	ctrl.sendData16(uint16(xs))
	ctrl.sendData16(uint16(xe - 1))

	ctrl.sendCommand(rowAddressSet)
	ctrl.sendData16(uint16(ys))
	ctrl.sendData16(uint16(ye - 1))
}

// setWindow selects the area written by the next pixel stream.
func setWindow(ctrl controller, xs, ys, xe, ye int) {
	addressWindow(ctrl, xs, ys, xe, ye)
	ctrl.sendCommand(memoryWrite)
}

func configureDisplay(ctrl controller, w, h int, madctl byte) {
	ctrl.command(columnAddressSet, []byte{0, 0, byte((w - 1) >> 8), byte(w - 1)})
	ctrl.command(rowAddressSet, []byte{0, 0, byte((h - 1) >> 8), byte(h - 1)})
	ctrl.sendCommand(memoryAccessControl)
	ctrl.sendData8(madctl)
}
