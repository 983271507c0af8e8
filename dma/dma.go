// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dma provides a single channel asynchronous transfer engine on top
// of a conn.Conn.
//
// At most one transfer is in flight per channel. Start blocks until the
// previous transfer completed before it queues the next one, so a caller
// that alternates between two buffers can fill one while the other is on
// the bus.
package dma

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/picodisplay/common"
)

var (
	// ErrReleased is returned when using a channel after Release.
	ErrReleased = errors.New("dma: channel released")
	// ErrBusy is returned by Claim when the connection already has a
	// channel.
	ErrBusy = errors.New("dma: connection already claimed")
)

var (
	claimMu sync.Mutex
	claimed = map[conn.Conn]struct{}{}
)

// Channel streams buffers to a connection, one at a time.
type Channel struct {
	c   conn.Conn
	log zerolog.Logger

	mu       sync.Mutex
	done     chan struct{}
	released bool
	discard  bool
	err      error
	stats    common.Stats
}

// Claim reserves c for asynchronous transfers. A nil logger disables
// logging.
func Claim(c conn.Conn, log *zerolog.Logger) (*Channel, error) {
	if c == nil {
		return nil, errors.New("dma: nil connection")
	}
	if reflect.TypeOf(c).Comparable() {
		claimMu.Lock()
		defer claimMu.Unlock()
		if _, ok := claimed[c]; ok {
			return nil, fmt.Errorf("%w: %s", ErrBusy, c)
		}
		claimed[c] = struct{}{}
	}
	ch := &Channel{c: c, log: zerolog.Nop()}
	if log != nil {
		ch.log = log.With().Str("dev", "dma").Logger()
	}
	return ch, nil
}

// Start queues src for transfer and returns immediately.
//
// It first waits for the in-flight transfer, if any. src must not be
// modified until the transfer completed, that is until the next Start, Wait
// or Abort returns.
func (ch *Channel) Start(src []byte) error {
	if ch.settle() {
		return ErrReleased
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.released {
		return ErrReleased
	}
	if len(src) == 0 {
		return nil
	}
	done := make(chan struct{})
	ch.done = done
	go func() {
		err := ch.c.Tx(src, nil)
		ch.mu.Lock()
		st := ch.stats.Record(len(src), err)
		if err != nil {
			if ch.discard {
				ch.log.Debug().Str("op", "tx").Int("bytes", len(src)).Err(err).Msg("aborted transfer failed")
			} else {
				if ch.err == nil {
					ch.err = err
				}
				ch.log.Warn().Str("op", "tx").Int("bytes", len(src)).Stringer("status", st).Err(err).Msg("transfer failed")
			}
		}
		ch.mu.Unlock()
		close(done)
	}()
	return nil
}

// Busy reports whether a transfer is in flight.
func (ch *Channel) Busy() bool {
	ch.mu.Lock()
	done := ch.done
	ch.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Wait blocks until the in-flight transfer completed and returns the first
// transfer error seen since the previous Wait.
func (ch *Channel) Wait() error {
	if ch.settle() {
		return ErrReleased
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	err := ch.err
	ch.err = nil
	return err
}

// settle waits for the in-flight transfer. It returns true if the channel
// was released.
func (ch *Channel) settle() bool {
	ch.mu.Lock()
	done := ch.done
	ch.mu.Unlock()
	if done != nil {
		<-done
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.done == done {
		ch.done = nil
	}
	return ch.released
}

// Abort drops the in-flight transfer.
//
// A transfer already handed to the bus cannot be interrupted, so Abort waits
// for it and discards its outcome.
func (ch *Channel) Abort() {
	ch.mu.Lock()
	done := ch.done
	ch.discard = true
	ch.mu.Unlock()
	if done != nil {
		<-done
	}
	ch.mu.Lock()
	ch.done = nil
	ch.err = nil
	ch.discard = false
	ch.mu.Unlock()
}

// Release aborts any in-flight transfer and frees the connection. It is safe
// to call more than once.
func (ch *Channel) Release() {
	ch.Abort()
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.released {
		return
	}
	ch.released = true
	if reflect.TypeOf(ch.c).Comparable() {
		claimMu.Lock()
		delete(claimed, ch.c)
		claimMu.Unlock()
	}
}

// Stats returns the accumulated transfer outcomes.
func (ch *Channel) Stats() common.Stats {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.stats
}

func (ch *Channel) String() string {
	return fmt.Sprintf("dma.Channel{%s}", ch.c)
}
