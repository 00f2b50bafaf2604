// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/internal/gpu"
)

// failingContext records calls and fails readback.
type failingContext struct {
	gpu.SoftContext
	released int
	drawn    int
	failRead bool
}

func (c *failingContext) DrawInstances(in []gpu.Instance, bg leaves.Color) error {
	c.drawn++
	return c.SoftContext.DrawInstances(in, bg)
}

func (c *failingContext) ReadPixels() ([]byte, error) {
	if c.failRead {
		return nil, leaves.ErrReadback
	}
	return c.SoftContext.ReadPixels()
}

func (c *failingContext) Release() {
	c.released++
	c.SoftContext.Release()
}

func TestGPUSurfaceOneDrawPerFrame(t *testing.T) {
	ctx := &failingContext{}
	s, err := NewGPUSurface(32, ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Clear(leaves.White); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := s.DrawDisk(leaves.Disk{X: float64(i * 3), Y: 16, Radius: 2, Color: leaves.Black}); err != nil {
			t.Fatal(err)
		}
	}
	if ctx.drawn != 0 {
		t.Errorf("disks were drawn before Snapshot: %d draw calls", ctx.drawn)
	}
	if _, err := s.Snapshot(); err != nil {
		t.Fatal(err)
	}
	if ctx.drawn != 1 {
		t.Errorf("Snapshot issued %d draw calls, want 1", ctx.drawn)
	}
}

func TestGPUSurfaceReadbackFailure(t *testing.T) {
	ctx := &failingContext{failRead: true}
	s, err := NewGPUSurface(16, ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	_ = s.Clear(leaves.White)
	_ = s.DrawDisk(leaves.Disk{X: 8, Y: 8, Radius: 4})
	f, err := s.Snapshot()
	if !errors.Is(err, leaves.ErrReadback) {
		t.Errorf("Snapshot error = %v, want ErrReadback", err)
	}
	if f != nil {
		t.Error("failed readback must not produce a frame")
	}

	// The surface recovers on the next frame.
	ctx.failRead = false
	_ = s.Clear(leaves.White)
	if _, err := s.Snapshot(); err != nil {
		t.Errorf("Snapshot after recovery failed: %v", err)
	}
}

func TestGPUSurfaceFrameOrder(t *testing.T) {
	s, err := NewGPUSurface(8, gpu.NewSoftContext())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.DrawDisks(leaves.Batch{{X: 1, Y: 1, Radius: 1}}); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("DrawDisks before Clear error = %v, want ErrInvalidState", err)
	}
	if _, err := s.Snapshot(); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Snapshot before Clear error = %v, want ErrInvalidState", err)
	}
	_ = s.Clear(leaves.Black)
	f, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got := f.RGBAt(7, 7); got != leaves.Black {
		t.Errorf("empty frame pixel = %v, want background", got)
	}
	if _, err := s.Snapshot(); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("second Snapshot error = %v, want ErrInvalidState", err)
	}
}

func TestGPUSurfaceCloseReleases(t *testing.T) {
	ctx := &failingContext{}
	s, err := NewGPUSurface(8, ctx)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()
	_ = s.Close()
	if ctx.released != 1 {
		t.Errorf("context released %d times, want 1", ctx.released)
	}
	if err := s.Clear(leaves.White); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Clear after Close error = %v, want ErrInvalidState", err)
	}
}

func TestNewGPUSurfaceInvalid(t *testing.T) {
	if _, err := NewGPUSurface(8, nil); err == nil {
		t.Error("NewGPUSurface(nil) should fail")
	}
	ctx := &failingContext{}
	if _, err := NewGPUSurface(0, ctx); !errors.Is(err, leaves.ErrInvalidParameter) {
		t.Errorf("NewGPUSurface(0) error = %v, want ErrInvalidParameter", err)
	}
	if ctx.released != 1 {
		t.Error("context should be released when surface creation fails")
	}
}
