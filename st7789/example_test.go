// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789_test

import (
	"image"
	"log"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/picodisplay/graphics"
	"github.com/GermanBionicSystems/picodisplay/image565"
	"github.com/GermanBionicSystems/picodisplay/st7789"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	dev, err := st7789.NewWaveshare2inch(p, &st7789.DefaultOpts)
	if err != nil {
		log.Fatalf("failed to initialize st7789: %v", err)
	}
	defer dev.Halt()
	if err := dev.SetBacklight(200); err != nil {
		log.Fatal(err)
	}
	dev.Clear(image565.FromRGB(0, 0, 64))

	// A RGB332 frame is half the size of the native format. It is converted
	// while it is being sent.
	s, err := graphics.New(graphics.PenRGB332, dev.Bounds().Dx(), dev.Bounds().Dy())
	if err != nil {
		log.Fatal(err)
	}
	s.SetPen(s.CreatePen(255, 128, 0))
	s.Rectangle(image.Rect(40, 40, 120, 100))
	if err := dev.Update(s); err != nil {
		log.Fatal(err)
	}
	if st := dev.Stats(); st.Errors != 0 {
		log.Printf("%d failed writes, last: %v", st.Errors, st.Err)
	}
}
