// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package demo renders animated test scenes for the ssd1306 and st7789
// drivers: three phase sine and triangle waveforms, an anti-aliased scene and
// bitmap text.
//
// Each scene is a function of the frame offset. The caller drives the frame
// rate with Loop and flushes the result to the panel.
package demo
