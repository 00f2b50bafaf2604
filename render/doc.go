// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns disk batches into finished frames.
//
// # Compositor
//
// A Compositor drives one surface through the frame lifecycle:
//
//	Empty -> Initialized -> Painting -> Finalized
//
// Begin clears the surface to the background, Paint applies disks in order
// (later disks occlude earlier ones) and Finish reads the frame back.
// Calls out of order fail with leaves.ErrInvalidState. Compose runs all
// three for a single batch.
//
// # Pipeline
//
// A Pipeline repeats generate, compose and write for K frames:
//
//	gen, _ := leaves.NewGenerator(1000, 10000, leaves.DefaultParams())
//	p := &render.Pipeline{
//	    Generator: gen,
//	    Backend:   surface.BackendImmediate,
//	    Sink:      sink.NewFileSink("out", sink.FormatPNG),
//	}
//	stats, err := p.Run(ctx, 100)
//
// Each frame draws its disks from its own source. With Seeded set the
// per-frame seeds derive from Seed and the frame index, so runs are
// reproducible regardless of Jobs.
package render
