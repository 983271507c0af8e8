// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

func TestClassify(t *testing.T) {
	var tests = []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{os.ErrDeadlineExceeded, StatusTimeout},
		{context.DeadlineExceeded, StatusTimeout},
		{fmt.Errorf("i2c: %w", syscall.ETIMEDOUT), StatusTimeout},
		{fmt.Errorf("wrapped: %w", timeoutErr{}), StatusTimeout},
		{errors.New("nack"), StatusError},
		{syscall.EIO, StatusError},
	}
	for _, test := range tests {
		if got := Classify(test.err); got != test.want {
			t.Errorf("Classify(%v) = %s, want %s", test.err, got, test.want)
		}
	}
}

func TestStatsRecord(t *testing.T) {
	var s Stats
	s.Record(10, nil)
	s.Record(4, os.ErrDeadlineExceeded)
	failure := errors.New("nack")
	if got := s.Record(3, failure); got != StatusError {
		t.Fatalf("Record() = %s", got)
	}
	want := Stats{Writes: 3, Bytes: 10, Timeouts: 1, Errors: 1, Last: StatusError, Err: failure}
	if s != want {
		t.Errorf("Stats = %+v, want %+v", s, want)
	}
	s.Record(1, nil)
	if s.Last != StatusOK || s.Err != failure {
		t.Errorf("Stats = %+v", s)
	}
}

func TestStatusString(t *testing.T) {
	if s := Status(9).String(); s != "Status(9)" {
		t.Errorf("String() = %q", s)
	}
	if s := StatusTimeout.String(); s != "timeout" {
		t.Errorf("String() = %q", s)
	}
}
