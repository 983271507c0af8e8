// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306_test

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/picodisplay/common"
	"github.com/GermanBionicSystems/picodisplay/ssd1306"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := ssd1306.NewI2C(b, &ssd1306.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize display: %v", err)
	}
	fmt.Printf("device=%s\n", dev)

	dev.Clear()
	dev.DrawRect(0, 0, 127, 63)
	dev.DrawString(4, 4, 1, nil, "Hello from periph!")
	dev.DrawLine(4, 40, 123, 20)
	dev.Show()
	if st := dev.LastStatus(); st != common.StatusOK {
		log.Printf("show: %s", st)
	}
}
