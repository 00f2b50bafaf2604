// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the painting targets of dead-leaves frames.
//
// Surface decouples the compositing order from how disks reach pixels.
// Two backends implement it:
//
//   - ImageSurface ("immediate"): every disk is scan-converted straight
//     into an in-memory RGB canvas, one disk per call.
//   - GPUSurface ("batched"): disks are queued as instances and drawn with
//     one instanced draw call through a raster context, then read back.
//
// Both produce the same picture: a pixel takes the color of the last disk
// covering its center, or the background.
//
// # Registry
//
// Backends register under a name and a priority:
//
//	surface.Register("batched", 100, factory, available)
//
//	// Later:
//	s, err := surface.NewSurfaceByName("batched", surface.Options{Width: 1000})
//	// or the best available one:
//	s, err := surface.NewSurface(surface.Options{Width: 1000})
//
// The immediate backend is always registered. The GPU batched backend is
// registered by importing github.com/gogpu/leaves/gpu.
//
// # Usage
//
//	s := surface.NewImageSurface(1000)
//	defer s.Close()
//
//	_ = s.Clear(leaves.White)
//	_ = s.DrawDisks(batch)
//	frame, err := s.Snapshot()
package surface
