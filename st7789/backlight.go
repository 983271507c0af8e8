// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/gpio"
)

// gamma of the backlight LED response.
const gamma = 2.8

// brightnessDuty maps a perceived brightness to a PWM duty cycle.
func brightnessDuty(b uint8) gpio.Duty {
	return gpio.Duty(math.Pow(float64(b)/255, gamma)*float64(gpio.DutyMax) + 0.5)
}

// SetBacklight sets the backlight brightness, 0 is off and 255 is full on.
//
// It is a no-op when the device has no backlight pin.
func (d *Dev) SetBacklight(b uint8) error {
	if d.bl == nil {
		return nil
	}
	if err := d.bl.PWM(brightnessDuty(b), d.opts.BacklightFreq); err != nil {
		return fmt.Errorf("st7789: backlight: %w", err)
	}
	d.brightness = b
	return nil
}

// Backlight returns the last brightness set.
func (d *Dev) Backlight() uint8 {
	return d.brightness
}
