// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"time"

	"github.com/gogpu/leaves"
)

// Backend names.
const (
	// BackendImmediate is the CPU scanline backend.
	BackendImmediate = "immediate"

	// BackendBatched is the GPU instanced backend.
	BackendBatched = "batched"

	// BackendBatchedSoft runs the instanced pipeline on the CPU.
	BackendBatchedSoft = "batched-soft"
)

// Surface is a square painting target for one frame at a time.
//
// A frame goes through Clear, any number of DrawDisk/DrawDisks calls and
// Snapshot. Clear starts a new frame; Snapshot finalizes it. Calls out of
// that order fail with leaves.ErrInvalidState.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine.
type Surface interface {
	// Name returns the backend name.
	Name() string

	// Width returns the side length in pixels.
	Width() int

	// Clear starts a new frame filled with bg.
	Clear(bg leaves.Color) error

	// DrawDisk paints one opaque disk over everything painted before.
	DrawDisk(d leaves.Disk) error

	// DrawDisks paints a batch in order; later disks win.
	DrawDisks(batch leaves.Batch) error

	// Snapshot finalizes the frame and returns it. For GPU surfaces this
	// submits pending work and blocks on readback.
	Snapshot() (*leaves.Frame, error)

	// Close releases all resources associated with the surface.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Options configures surface creation.
type Options struct {
	// Width is the canvas side length in pixels.
	Width int

	// Provider is an optional host GPU device provider for the batched
	// backend (see github.com/gogpu/leaves/gpu.SetDeviceProvider).
	Provider any

	// ReadbackTimeout bounds the wait for a batched frame to finish
	// rendering. Zero keeps the backend default.
	ReadbackTimeout time.Duration

	// AllowFallback lets Open substitute the immediate backend when the
	// requested one is unavailable. Off by default.
	AllowFallback bool
}
