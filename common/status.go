// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains helpers used across multiple packages. For
// example, the classification of bus write failures.
package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Status is the outcome of a single bus write.
type Status uint8

// Possible write outcomes.
const (
	StatusOK Status = iota
	StatusTimeout
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Classify maps the error returned by a bus operation to a Status.
func Classify(err error) Status {
	if err == nil {
		return StatusOK
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT) {
		return StatusTimeout
	}
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return StatusTimeout
	}
	return StatusError
}

// Stats accumulates write outcomes.
type Stats struct {
	Writes   uint64
	Bytes    uint64
	Timeouts uint64
	Errors   uint64
	// Last is the outcome of the most recent write.
	Last Status
	// Err is the most recent failure, if any.
	Err error
}

// Record accounts for one write of n bytes and returns its Status.
func (s *Stats) Record(n int, err error) Status {
	st := Classify(err)
	s.Writes++
	s.Last = st
	switch st {
	case StatusOK:
		s.Bytes += uint64(n)
	case StatusTimeout:
		s.Timeouts++
		s.Err = err
	default:
		s.Errors++
		s.Err = err
	}
	return st
}
