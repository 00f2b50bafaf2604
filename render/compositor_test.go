// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/surface"
)

func TestCompositorStates(t *testing.T) {
	s := surface.NewImageSurface(16)
	defer s.Close()
	c := NewCompositor(s)

	if c.State() != leaves.StateEmpty {
		t.Fatalf("initial state = %s, want empty", c.State())
	}
	if err := c.Paint(nil); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Paint before Begin error = %v, want ErrInvalidState", err)
	}
	if _, err := c.Finish(); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Finish before Begin error = %v, want ErrInvalidState", err)
	}

	if err := c.Begin(); err != nil {
		t.Fatal(err)
	}
	if c.State() != leaves.StateInitialized {
		t.Fatalf("state after Begin = %s, want initialized", c.State())
	}
	if err := c.Begin(); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Begin twice error = %v, want ErrInvalidState", err)
	}

	if err := c.Paint(leaves.Batch{{X: 8, Y: 8, Radius: 3, Color: leaves.Black}}); err != nil {
		t.Fatal(err)
	}
	if c.State() != leaves.StatePainting || c.Painted() != 1 {
		t.Fatalf("after Paint: state %s, painted %d", c.State(), c.Painted())
	}

	f, err := c.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != leaves.StateFinalized {
		t.Fatalf("state after Finish = %s, want finalized", c.State())
	}
	if got := f.RGBAt(8, 8); got != leaves.Black {
		t.Errorf("disk pixel = %v, want black", got)
	}
	if err := c.Paint(nil); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("Paint after Finish error = %v, want ErrInvalidState", err)
	}

	// The next frame starts over.
	if err := c.Begin(); err != nil {
		t.Fatalf("Begin after Finish failed: %v", err)
	}
	if c.Painted() != 0 {
		t.Errorf("Painted() = %d on a new frame, want 0", c.Painted())
	}
}

func TestComposeEmptyBatch(t *testing.T) {
	for _, name := range []string{surface.BackendImmediate, surface.BackendBatchedSoft} {
		t.Run(name, func(t *testing.T) {
			s, err := surface.NewSurfaceByName(name, surface.Options{Width: 12})
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()

			f, err := NewCompositor(s).Compose(context.Background(), nil)
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < 12; y++ {
				for x := 0; x < 12; x++ {
					if got := f.RGBAt(x, y); got != leaves.White {
						t.Fatalf("pixel (%d, %d) = %v, want white", x, y, got)
					}
				}
			}
		})
	}
}

func TestComposeLaterWins(t *testing.T) {
	red := leaves.Color{R: 255}
	green := leaves.Color{G: 255}
	batch := leaves.Batch{
		{X: 20, Y: 20, Radius: 15, Color: red},
		{X: 20, Y: 20, Radius: 6, Color: green},
	}
	bg := leaves.Color{R: 1, G: 2, B: 3}

	for _, name := range []string{surface.BackendImmediate, surface.BackendBatchedSoft} {
		t.Run(name, func(t *testing.T) {
			s, err := surface.NewSurfaceByName(name, surface.Options{Width: 40})
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()

			f, err := NewCompositor(s, WithBackground(bg)).Compose(context.Background(), batch)
			if err != nil {
				t.Fatal(err)
			}
			if got := f.RGBAt(20, 20); got != green {
				t.Errorf("center = %v, want %v", got, green)
			}
			if got := f.RGBAt(20, 30); got != red {
				t.Errorf("ring = %v, want %v", got, red)
			}
			if got := f.RGBAt(1, 1); got != bg {
				t.Errorf("corner = %v, want %v", got, bg)
			}
		})
	}
}

func TestComposeSeqMatchesCompose(t *testing.T) {
	gen, err := leaves.NewGenerator(48, 100, leaves.DistributionParams{Alpha: 3, RMin: 1, RMax: 20})
	if err != nil {
		t.Fatal(err)
	}
	s := surface.NewImageSurface(48)
	defer s.Close()
	c := NewCompositor(s)

	a, err := c.Compose(context.Background(), gen.Batch(leaves.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.ComposeSeq(context.Background(), gen.Disks(leaves.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("streamed and batched composition differ")
	}
	if c.Painted() != 100 {
		t.Errorf("Painted() = %d, want 100", c.Painted())
	}
}

func TestComposeCanceled(t *testing.T) {
	s := surface.NewImageSurface(8)
	defer s.Close()
	c := NewCompositor(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Compose(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Compose(canceled) error = %v, want context.Canceled", err)
	}
	if c.State() != leaves.StateEmpty {
		t.Errorf("state after canceled Compose = %s, want empty", c.State())
	}
}

// snapshotFailSurface fails Snapshot once.
type snapshotFailSurface struct {
	*surface.ImageSurface
	fail bool
}

func (s *snapshotFailSurface) Snapshot() (*leaves.Frame, error) {
	if s.fail {
		s.fail = false
		return nil, leaves.ErrReadback
	}
	return s.ImageSurface.Snapshot()
}

func TestComposeFailureResets(t *testing.T) {
	s := &snapshotFailSurface{ImageSurface: surface.NewImageSurface(8), fail: true}
	defer s.Close()
	c := NewCompositor(s)

	if _, err := c.Compose(context.Background(), nil); !errors.Is(err, leaves.ErrReadback) {
		t.Fatalf("Compose error = %v, want ErrReadback", err)
	}
	if c.State() != leaves.StateEmpty {
		t.Errorf("state after failure = %s, want empty", c.State())
	}
	if _, err := c.Compose(context.Background(), nil); err != nil {
		t.Errorf("Compose after failure: %v", err)
	}
}
