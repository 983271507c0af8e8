// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package demo

import "math"

// Phases of the three traces, 120° apart.
var Phases = [3]float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}

// TriangleWave is a triangle wave with a period of 100 that peaks at peak,
// computed with integer math only.
//
// TriangleWave(0, p) is 0 and TriangleWave(50, p) is p. Negative x mirror
// positive ones.
func TriangleWave(x, peak int) int {
	if x < 0 {
		x = -x
	}
	x %= 100
	if x <= 50 {
		return peak * x / 50
	}
	return peak * (50 - x%50) / 50
}

// SineWave returns the row of a sine trace at column x of a w pixels wide
// area. Two periods span the width. The trace scrolls by offset columns and
// is delayed by phase radians.
//
// The result ranges over [yOffset, yOffset+2*yScale].
func SineWave(x, w, offset int, phase, yScale, yOffset float64) int {
	return int(math.Round(yScale*(sine(x, w, offset, phase)+1)) + yOffset)
}

func sine(x, w, offset int, phase float64) float64 {
	xr := 4 * math.Pi * float64(x) / float64(w)
	off := 4 * math.Pi * float64(offset) / float64(w)
	return math.Sin(xr - phase - off)
}
