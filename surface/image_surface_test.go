// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/leaves"
)

func TestImageSurfaceFrameOrder(t *testing.T) {
	s := NewImageSurface(10)
	defer s.Close()

	if err := s.DrawDisk(leaves.Disk{X: 5, Y: 5, Radius: 2}); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("DrawDisk before Clear error = %v, want ErrInvalidState", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Snapshot before Clear error = %v, want ErrInvalidState", err)
	}

	if err := s.Clear(leaves.White); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Snapshot(); err != nil {
		t.Fatalf("Snapshot of cleared surface failed: %v", err)
	}
	if err := s.DrawDisk(leaves.Disk{X: 5, Y: 5, Radius: 2}); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("DrawDisk after Snapshot error = %v, want ErrInvalidState", err)
	}

	// A new Clear starts the next frame.
	if err := s.Clear(leaves.Black); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
	f, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got := f.RGBAt(3, 3); got != leaves.Black {
		t.Errorf("second frame background = %v, want black", got)
	}
}

func TestImageSurfaceOcclusion(t *testing.T) {
	s := NewImageSurface(20)
	defer s.Close()
	if err := s.Clear(leaves.White); err != nil {
		t.Fatal(err)
	}

	red := leaves.Color{R: 255}
	blue := leaves.Color{B: 255}
	err := s.DrawDisks(leaves.Batch{
		{X: 10, Y: 10, Radius: 8, Color: red},
		{X: 10, Y: 10, Radius: 3, Color: blue},
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y int
		want leaves.Color
	}{
		{10, 10, blue},
		{4, 10, red},
		{0, 0, leaves.White},
		{19, 19, leaves.White},
	}
	for _, tt := range tests {
		if got := f.RGBAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// Reversing the order lets the large disk hide the small one.
	_ = s.Clear(leaves.White)
	_ = s.DrawDisk(leaves.Disk{X: 10, Y: 10, Radius: 3, Color: blue})
	_ = s.DrawDisk(leaves.Disk{X: 10, Y: 10, Radius: 8, Color: red})
	f, _ = s.Snapshot()
	if got := f.RGBAt(10, 10); got != red {
		t.Errorf("center after reversed order = %v, want %v", got, red)
	}
}

func TestImageSurfaceMatchesTopmostDisk(t *testing.T) {
	const w = 64
	gen, err := leaves.NewGenerator(w, 200, leaves.DistributionParams{Alpha: 3, RMin: 1, RMax: 30})
	if err != nil {
		t.Fatal(err)
	}
	batch := gen.Batch(leaves.NewSource(11))

	s := NewImageSurface(w)
	defer s.Close()
	_ = s.Clear(leaves.White)
	if err := s.DrawDisks(batch); err != nil {
		t.Fatal(err)
	}
	f, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			want := leaves.White
			if top := batch.Top(x, y); top >= 0 {
				want = batch[top].Color
			}
			if got := f.RGBAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestImageSurfaceClose(t *testing.T) {
	s := NewImageSurface(4)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if err := s.Clear(leaves.White); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Clear after Close error = %v, want ErrInvalidState", err)
	}
}
