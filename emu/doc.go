// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package emu contains software models of the SSD1306 and ST7789 display
// controllers.
//
// The models sit behind the same periph interfaces as real hardware: an
// i2c.Bus for the SSD1306, a spi.Port with data/command and chip select
// gpio.PinOut for the ST7789. They decode the command stream into panel
// memory that can be inspected or previewed, and count framing violations
// such as a pin toggling while a transfer is on the bus.
package emu
