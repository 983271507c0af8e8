// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package picodisplay is a container for the drivers of two small display
// controllers and their tooling.
//
// ssd1306 drives a monochrome OLED over I²C. st7789 drives a RGB565 TFT over
// SPI, optionally streaming converted frames through the dma package. emu,
// termscreen and simwindow let the drivers run without hardware, and demo
// holds the animated scenes used by cmd/picodemo.
package picodisplay
