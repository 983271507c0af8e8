// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dma

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
)

// slowConn records writes and tracks how many overlap.
type slowConn struct {
	delay time.Duration
	fail  error

	mu          sync.Mutex
	inflight    int
	maxInflight int
	got         [][]byte
}

func (s *slowConn) String() string { return "slow" }

func (s *slowConn) Duplex() conn.Duplex { return conn.Half }

func (s *slowConn) Tx(w, r []byte) error {
	s.mu.Lock()
	s.inflight++
	s.maxInflight = max(s.maxInflight, s.inflight)
	s.mu.Unlock()
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.got = append(s.got, bytes.Clone(w))
	return s.fail
}

func TestStartSingleInFlight(t *testing.T) {
	c := &slowConn{delay: 2 * time.Millisecond}
	ch, err := Claim(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Release()

	bufs := [2][]byte{make([]byte, 16), make([]byte, 16)}
	var want [][]byte
	for i := 0; i < 8; i++ {
		b := bufs[i&1]
		for j := range b {
			b[j] = byte(i)
		}
		want = append(want, bytes.Repeat([]byte{byte(i)}, 16))
		if err := ch.Start(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := ch.Wait(); err != nil {
		t.Fatal(err)
	}
	if c.maxInflight != 1 {
		t.Errorf("max in-flight transfers = %d, want 1", c.maxInflight)
	}
	if diff := cmp.Diff(c.got, want); diff != "" {
		t.Errorf("transfers (-got +want):\n%s", diff)
	}
	if s := ch.Stats(); s.Writes != 8 || s.Bytes != 8*16 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestStartEmpty(t *testing.T) {
	rec := &conntest.Record{}
	ch, err := Claim(rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Release()
	if err := ch.Start(nil); err != nil {
		t.Fatal(err)
	}
	if ch.Busy() {
		t.Error("empty transfer is in flight")
	}
	if len(rec.Ops) != 0 {
		t.Errorf("unexpected transfers: %v", rec.Ops)
	}
}

func TestClaimTwice(t *testing.T) {
	rec := &conntest.Record{}
	ch, err := Claim(rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Claim(rec, nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Claim() = %v, want ErrBusy", err)
	}
	ch.Release()
	ch2, err := Claim(rec, nil)
	if err != nil {
		t.Fatalf("Claim() after Release() = %v", err)
	}
	ch2.Release()
	if _, err := Claim(nil, nil); err == nil {
		t.Error("expected error for nil connection")
	}
}

func TestReleased(t *testing.T) {
	ch, err := Claim(&conntest.Record{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ch.Release()
	ch.Release()
	if err := ch.Start([]byte{1}); !errors.Is(err, ErrReleased) {
		t.Errorf("Start() = %v, want ErrReleased", err)
	}
	if err := ch.Wait(); !errors.Is(err, ErrReleased) {
		t.Errorf("Wait() = %v, want ErrReleased", err)
	}
}

func TestWaitReportsFailure(t *testing.T) {
	failure := errors.New("bus fault")
	c := &slowConn{fail: failure}
	ch, err := Claim(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Release()
	if err := ch.Start([]byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	// The failure of the first transfer is kept until Wait.
	if err := ch.Start([]byte{3}); err != nil {
		t.Fatal(err)
	}
	if err := ch.Wait(); err != failure {
		t.Errorf("Wait() = %v, want %v", err, failure)
	}
	if err := ch.Wait(); err != nil {
		t.Errorf("second Wait() = %v", err)
	}
	if s := ch.Stats(); s.Errors != 2 || s.Writes != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestAbort(t *testing.T) {
	c := &slowConn{delay: 50 * time.Millisecond, fail: errors.New("bus fault")}
	ch, err := Claim(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Release()
	if err := ch.Start([]byte{1}); err != nil {
		t.Fatal(err)
	}
	if !ch.Busy() {
		t.Error("transfer not in flight")
	}
	ch.Abort()
	if ch.Busy() {
		t.Error("transfer still in flight after Abort()")
	}
	if err := ch.Wait(); err != nil {
		t.Errorf("Wait() after Abort() = %v", err)
	}
	if len(c.got) != 1 {
		t.Errorf("got %d transfers", len(c.got))
	}
}
