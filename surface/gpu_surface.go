// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/internal/gpu"
)

// GPUSurface is the batched backend. Disks drawn between Clear and
// Snapshot are queued as instances; Snapshot submits them to the raster
// context as one instanced draw and reads the target back.
//
// The surface owns its raster context and releases it on Close.
type GPUSurface struct {
	width   int
	ctx     gpu.RasterContext
	canvas  *leaves.Canvas
	bg      leaves.Color
	pending []gpu.Instance
	closed  bool
}

var _ Surface = (*GPUSurface)(nil)

// NewGPUSurface creates a batched surface on ctx and allocates its target.
// On error ctx is released.
func NewGPUSurface(width int, ctx gpu.RasterContext) (*GPUSurface, error) {
	if ctx == nil {
		return nil, errors.New("surface: raster context cannot be nil")
	}
	if width <= 0 {
		ctx.Release()
		return nil, fmt.Errorf("%w: width must be > 0, got %d", leaves.ErrInvalidParameter, width)
	}
	if err := ctx.CreateTarget(width); err != nil {
		ctx.Release()
		return nil, err
	}
	return &GPUSurface{width: width, ctx: ctx}, nil
}

// Name returns the backend name.
func (s *GPUSurface) Name() string {
	if _, soft := s.ctx.(*gpu.SoftContext); soft {
		return BackendBatchedSoft
	}
	return BackendBatched
}

// Width returns the surface width.
func (s *GPUSurface) Width() int { return s.width }

// Clear starts a new frame and records the background as the clear color.
func (s *GPUSurface) Clear(bg leaves.Color) error {
	if s.closed {
		return errClosed
	}
	c, err := leaves.NewCanvas(s.width)
	if err != nil {
		return err
	}
	if err := c.Clear(bg); err != nil {
		return err
	}
	s.canvas = c
	s.bg = bg
	s.pending = s.pending[:0]
	return nil
}

// DrawDisk queues one disk.
func (s *GPUSurface) DrawDisk(d leaves.Disk) error {
	if err := s.checkFrame(); err != nil {
		return err
	}
	s.pending = append(s.pending, gpu.NewInstance(d, s.width))
	return nil
}

// DrawDisks queues the batch in order.
func (s *GPUSurface) DrawDisks(batch leaves.Batch) error {
	if err := s.checkFrame(); err != nil {
		return err
	}
	s.pending = append(s.pending, gpu.Instances(batch, s.width)...)
	return nil
}

func (s *GPUSurface) checkFrame() error {
	if s.closed {
		return errClosed
	}
	if s.canvas == nil {
		return fmt.Errorf("%w: draw before clear", leaves.ErrInvalidState)
	}
	return nil
}

// Snapshot draws every queued instance in one call, waits for the
// readback and finalizes the frame. A readback failure fails the frame;
// no blank frame is substituted.
func (s *GPUSurface) Snapshot() (*leaves.Frame, error) {
	if err := s.checkFrame(); err != nil {
		return nil, err
	}
	c := s.canvas
	s.canvas = nil

	if err := s.ctx.DrawInstances(s.pending, s.bg); err != nil {
		return nil, err
	}
	rgb, err := s.ctx.ReadPixels()
	if err != nil {
		return nil, err
	}
	if err := c.Load(rgb); err != nil {
		return nil, err
	}
	leaves.Logger().Debug("surface: batched frame read back",
		"context", s.ctx.Name(), "instances", len(s.pending))
	s.pending = s.pending[:0]
	return c.Finalize()
}

// Close releases the raster context.
func (s *GPUSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.canvas = nil
	s.pending = nil
	s.ctx.Release()
	return nil
}
