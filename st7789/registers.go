// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import "time"

// Commands
const (
	softwareReset        byte = 0x01
	sleepOut             byte = 0x11
	invertOn             byte = 0x21
	displayOff           byte = 0x28
	displayOn            byte = 0x29
	columnAddressSet     byte = 0x2A
	rowAddressSet        byte = 0x2B
	memoryWrite          byte = 0x2C
	memoryAccessControl  byte = 0x36
	interfacePixelFormat byte = 0x3A
	porchControl         byte = 0xB2
	gateControl          byte = 0xB7
	vcomSetting          byte = 0xBB
	lcmControl           byte = 0xC0
	vdvVrhEnable         byte = 0xC2
	vrhSet               byte = 0xC3
	vdvSet               byte = 0xC4
	frameRateControl2    byte = 0xC6
	powerControl1        byte = 0xD0
	positiveGamma        byte = 0xE0
	negativeGamma        byte = 0xE1
)

// Memory access control (MADCTL) bits.
const (
	madctlRowOrder   byte = 0x80 // MY
	madctlColOrder   byte = 0x40 // MX
	madctlSwapXY     byte = 0x20 // MV
	madctlScanOrder  byte = 0x10 // ML
	madctlBGR        byte = 0x08
	madctlHorizOrder byte = 0x04 // MH
)

// initCmd is one step of the power up sequence.
type initCmd struct {
	reg   byte
	data  []byte
	delay time.Duration
}

var initCommon = []initCmd{
	{reg: interfacePixelFormat, data: []byte{0x05}}, // 16 bits per pixel
	{reg: porchControl, data: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}},
	{reg: lcmControl, data: []byte{0x2C}},
	{reg: vdvVrhEnable, data: []byte{0x01}},
	{reg: vrhSet, data: []byte{0x12}},
	{reg: vdvSet, data: []byte{0x20}},
	{reg: powerControl1, data: []byte{0xA4, 0xA1}},
	{reg: frameRateControl2, data: []byte{0x0F}},
}

// init320x240 is only valid for the 2" 320x240 panels.
var init320x240 = []initCmd{
	{reg: gateControl, data: []byte{0x35}},
	{reg: vcomSetting, data: []byte{0x1F}},
	{reg: positiveGamma, data: []byte{0xD0, 0x08, 0x11, 0x08, 0x0C, 0x15, 0x39, 0x33, 0x50, 0x36, 0x13, 0x14, 0x29, 0x2D}},
	{reg: negativeGamma, data: []byte{0xD0, 0x08, 0x10, 0x08, 0x06, 0x06, 0x39, 0x44, 0x51, 0x0B, 0x16, 0x14, 0x2F, 0x31}},
}

var initTail = []initCmd{
	{reg: invertOn},
	{reg: sleepOut},
	{reg: displayOn, delay: 100 * time.Millisecond},
}

// initTable returns the power up sequence for a w x h panel, before
// rotation.
func initTable(w, h int) []initCmd {
	t := []initCmd{{reg: softwareReset, delay: 100 * time.Millisecond}}
	t = append(t, initCommon...)
	if w == 320 && h == 240 {
		t = append(t, init320x240...)
	}
	return append(t, initTail...)
}
