// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7789 controls a RGB565 TFT display via a ST7789 controller on a
// 4-wire SPI bus with separate data/command and chip select lines.
//
// Every transfer sets the address window first. Columns and rows are sent
// end exclusive in the API and inclusive on the wire, most significant byte
// first.
//
// Frames are borrowed from the caller: Write takes a big endian RGB565
// buffer, Update takes a graphics.Surface of any supported pen type and
// converts it on the fly while the previous chunk is in flight on the DMA
// channel.
//
// # Datasheet
//
// https://www.rhydolabz.com/documents/33/ST7789.pdf
package st7789
