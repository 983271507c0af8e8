// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package demo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// reportEvery is the number of frames between two frame rate reports.
const reportEvery = 100

// Loop calls render for frame 0, 1, 2 and so on, as fast as render returns.
//
// It stops after frames frames, 0 meaning forever, when ctx is canceled or
// when render fails. The frame rate is logged at debug level.
func Loop(ctx context.Context, frames int, log zerolog.Logger, render func(frame int) error) error {
	start := time.Now()
	for i := 0; frames == 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := render(i); err != nil {
			return err
		}
		if n := i + 1; n%reportEvery == 0 {
			now := time.Now()
			log.Debug().Int("frame", n).Float64("fps", reportEvery/now.Sub(start).Seconds()).Msg("render")
			start = now
		}
	}
	return nil
}
