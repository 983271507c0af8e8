// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls a monochrome OLED display via a SSD1306 controller
// on I²C.
//
// The driver owns a 1 bit per pixel framebuffer in the controller's page
// layout and draws into it with simple primitives: pixels, lines,
// rectangles and bitmap text. Nothing reaches the panel until Show is called,
// which resets the column and page window and sends the whole buffer in a
// single I²C write.
//
// Bus failures are not returned by the drawing path. They are logged and
// accounted for, see LastStatus and Stats.
//
// # Datasheets
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
