// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package graphics

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(t *testing.T, s Surface) [][]byte {
	t.Helper()
	seq, err := s.FrameConvert(PenRGB565)
	if err != nil {
		t.Fatal(err)
	}
	var out [][]byte
	for chunk := range seq {
		out = append(out, bytes.Clone(chunk))
	}
	return out
}

func TestNew(t *testing.T) {
	for _, p := range []PenType{PenRGB565, PenRGB332, PenRGB888} {
		t.Run(p.String(), func(t *testing.T) {
			s, err := New(p, 10, 6)
			if err != nil {
				t.Fatal(err)
			}
			if s.PenType() != p {
				t.Errorf("PenType() = %s, want %s", s.PenType(), p)
			}
			if got, want := len(s.Pix()), 10*6*p.BytesPerPixel(); got != want {
				t.Errorf("len(Pix()) = %d, want %d", got, want)
			}
			if x, y := s.Size(); x != 10 || y != 6 {
				t.Errorf("Size() = %d,%d", x, y)
			}
		})
	}
	if _, err := New(PenType(42), 1, 1); err == nil {
		t.Error("expected error for unknown pen type")
	}
}

func TestParsePenType(t *testing.T) {
	for _, name := range []string{"rgb565", "rgb332", "rgb888"} {
		p, err := ParsePenType(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.BytesPerPixel(); got == 0 {
			t.Errorf("%s: BytesPerPixel() = 0", name)
		}
	}
	if _, err := ParsePenType("p4"); err == nil {
		t.Error("expected error")
	}
}

func TestFrameConvertChunks(t *testing.T) {
	for _, tc := range []struct {
		name  string
		pen   PenType
		rows  int
		sizes []int
	}{
		{"rgb332 default rows", PenRGB332, 0, []int{4 * 8 * 2, 2 * 8 * 2}},
		{"rgb332 one row", PenRGB332, 1, []int{16, 16, 16, 16, 16, 16}},
		{"rgb888 four rows", PenRGB888, 4, []int{64, 32}},
		{"rgb565 passthrough", PenRGB565, 5, []int{80, 16}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.pen, 8, 6)
			if err != nil {
				t.Fatal(err)
			}
			s.(interface{ SetChunkRows(int) }).SetChunkRows(tc.rows)
			var sizes []int
			for _, c := range collect(t, s) {
				sizes = append(sizes, len(c))
			}
			if diff := cmp.Diff(sizes, tc.sizes); diff != "" {
				t.Errorf("chunk sizes (-got +want):\n%s", diff)
			}
		})
	}
}

func TestFrameConvertPixels(t *testing.T) {
	for _, p := range []PenType{PenRGB332, PenRGB888} {
		t.Run(p.String(), func(t *testing.T) {
			s, err := New(p, 4, 2)
			if err != nil {
				t.Fatal(err)
			}
			s.SetPen(s.CreatePen(0, 0, 0))
			s.Clear()
			s.SetPen(s.CreatePen(255, 255, 255))
			s.Pixel(image.Pt(1, 0))
			s.Rectangle(image.Rect(2, 1, 10, 10))

			got := bytes.Join(collect(t, s), nil)
			want := []byte{
				0, 0, 0xFF, 0xFF, 0, 0, 0, 0,
				0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF,
			}
			if diff := cmp.Diff(got, want); diff != "" {
				t.Errorf("converted frame (-got +want):\n%s", diff)
			}
		})
	}
}

func TestFrameConvertRestartable(t *testing.T) {
	s, _ := New(PenRGB332, 3, 3)
	s.SetPen(s.CreatePen(255, 0, 0))
	s.Clear()
	first := bytes.Join(collect(t, s), nil)
	second := bytes.Join(collect(t, s), nil)
	if !bytes.Equal(first, second) {
		t.Error("second frame differs from the first one")
	}
	if len(first) != 3*3*2 {
		t.Errorf("frame is %d bytes", len(first))
	}
}

func TestFrameConvertAlternatesBuffers(t *testing.T) {
	s, _ := NewRGB332(image.Rect(0, 0, 2, 6), nil)
	s.SetChunkRows(1)
	seq, _ := s.FrameConvert(PenRGB565)
	var prev []byte
	for chunk := range seq {
		if prev != nil && &prev[0] == &chunk[0] {
			t.Fatal("consecutive chunks share the same buffer")
		}
		prev = chunk
	}
}

func TestFrameConvertEarlyStop(t *testing.T) {
	s, _ := New(PenRGB888, 2, 8)
	seq, _ := s.FrameConvert(PenRGB565)
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("got %d chunks", n)
	}
}

func TestFrameConvertUnsupported(t *testing.T) {
	for _, p := range []PenType{PenRGB565, PenRGB332, PenRGB888} {
		s, _ := New(p, 1, 1)
		if _, err := s.FrameConvert(PenRGB332); err == nil {
			t.Errorf("%s: expected error", p)
		}
	}
}

func TestBorrowedBuffer(t *testing.T) {
	buf := make([]byte, 2*4*4)
	s, err := NewRGB565(image.Rect(0, 0, 4, 4), buf)
	if err != nil {
		t.Fatal(err)
	}
	s.SetPen(s.CreatePen(255, 255, 255))
	s.Pixel(image.Pt(0, 0))
	if buf[0] != 0xFF || buf[1] != 0xFF {
		t.Errorf("borrowed buffer not written: % x", buf[:2])
	}
	if _, err := NewRGB565(image.Rect(0, 0, 4, 4), buf[:3]); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := NewRGB332(image.Rect(0, 0, 4, 4), buf[:3]); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestDisplayerSetPixel(t *testing.T) {
	for _, p := range []PenType{PenRGB565, PenRGB332, PenRGB888} {
		s, _ := New(p, 2, 2)
		s.SetPixel(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		r, g, b, _ := s.At(1, 1).RGBA()
		if r>>8 != 0xFF || g>>8 != 0xFF || b>>8 != 0xFF {
			t.Errorf("%s: At(1,1) = %d,%d,%d", p, r>>8, g>>8, b>>8)
		}
		if err := s.Display(); err != nil {
			t.Errorf("%s: Display() = %v", p, err)
		}
	}
}
