// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/internal/raster"
)

// ImageSurface is the immediate backend: each disk is scan-converted into
// an in-memory RGB canvas as soon as it is drawn.
//
// Example:
//
//	s := surface.NewImageSurface(1000)
//	defer s.Close()
//
//	_ = s.Clear(leaves.White)
//	_ = s.DrawDisk(leaves.Disk{X: 500, Y: 500, Radius: 100, Color: leaves.Black})
//	frame, _ := s.Snapshot()
type ImageSurface struct {
	width  int
	canvas *leaves.Canvas

	// closed tracks if Close has been called
	closed bool
}

var _ Surface = (*ImageSurface)(nil)

// NewImageSurface creates a CPU surface of the given side length.
// Non-positive widths are raised to 1.
func NewImageSurface(width int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	return &ImageSurface{width: width}
}

// Name returns the backend name.
func (s *ImageSurface) Name() string { return BackendImmediate }

// Width returns the surface width.
func (s *ImageSurface) Width() int { return s.width }

// Clear starts a new frame on a fresh canvas filled with bg.
func (s *ImageSurface) Clear(bg leaves.Color) error {
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
	return nil
}

// DrawDisk rasterizes one disk into the canvas.
func (s *ImageSurface) DrawDisk(d leaves.Disk) error {
	buf, err := s.buffer()
	if err != nil {
		return err
	}
	raster.FillDisk(buf, d.X, d.Y, d.Radius, raster.RGB{R: d.Color.R, G: d.Color.G, B: d.Color.B})
	return nil
}

// DrawDisks rasterizes the batch one disk at a time, in order.
func (s *ImageSurface) DrawDisks(batch leaves.Batch) error {
	buf, err := s.buffer()
	if err != nil {
		return err
	}
	for _, d := range batch {
		raster.FillDisk(buf, d.X, d.Y, d.Radius, raster.RGB{R: d.Color.R, G: d.Color.G, B: d.Color.B})
	}
	return nil
}

func (s *ImageSurface) buffer() (raster.Buffer, error) {
	if s.closed {
		return raster.Buffer{}, errClosed
	}
	if s.canvas == nil {
		return raster.Buffer{}, fmt.Errorf("%w: draw before clear", leaves.ErrInvalidState)
	}
	pix, err := s.canvas.Pix()
	if err != nil {
		return raster.Buffer{}, err
	}
	return raster.Buffer{Pix: pix, Width: s.width, Height: s.width}, nil
}

// Snapshot finalizes the current frame. The surface needs another Clear
// before it can paint again.
func (s *ImageSurface) Snapshot() (*leaves.Frame, error) {
	if s.closed {
		return nil, errClosed
	}
	if s.canvas == nil {
		return nil, fmt.Errorf("%w: snapshot before clear", leaves.ErrInvalidState)
	}
	f, err := s.canvas.Finalize()
	s.canvas = nil
	return f, err
}

// Close releases the canvas.
func (s *ImageSurface) Close() error {
	s.canvas = nil
	s.closed = true
	return nil
}

var errClosed = fmt.Errorf("%w: surface closed", leaves.ErrInvalidState)
