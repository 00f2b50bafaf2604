// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster provides scanline rasterization of opaque disks into
// packed RGB buffers.
package raster

import "math"

// RGB is an opaque 8-bit color (internal copy to avoid import cycle).
type RGB struct {
	R, G, B uint8
}

// Buffer is a packed RGB pixel buffer, 3 bytes per pixel, row-major.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// inside is the coverage predicate: the center of pixel (px, py) lies in
// or on the circle.
func inside(px, py int, cx, cy, r2 float64) bool {
	dx := float64(px) + 0.5 - cx
	dy := float64(py) + 0.5 - cy
	return dx*dx+dy*dy <= r2
}

// FillDisk scan-converts the disk centered at (cx, cy) with radius r and
// writes c into every covered pixel, replacing what was there.
func FillDisk(buf Buffer, cx, cy, r float64, c RGB) {
	if r <= 0 || buf.Width <= 0 || buf.Height <= 0 {
		return
	}
	r2 := r * r

	// Clamp in float first: extents of huge disks overflow int.
	fy0 := math.Max(math.Ceil(cy-r-0.5), 0)
	fy1 := math.Min(math.Floor(cy+r-0.5), float64(buf.Height-1))
	if !(fy0 <= fy1) {
		return
	}
	y0, y1 := int(fy0), int(fy1)

	for py := y0; py <= y1; py++ {
		x0, x1, ok := span(py, buf.Width, cx, cy, r2)
		if !ok {
			continue
		}
		if x0 < 0 {
			x0 = 0
		}
		if x1 > buf.Width-1 {
			x1 = buf.Width - 1
		}
		if x0 > x1 {
			continue
		}
		fillSpan(buf.Pix[(py*buf.Width+x0)*3:(py*buf.Width+x1+1)*3], c)
	}
}

// span returns the covered pixel columns of row py, limited to
// [-1, width]. The sqrt estimate is corrected with the exact predicate so
// the span never disagrees with inside by one pixel at the boundary.
func span(py, width int, cx, cy, r2 float64) (x0, x1 int, ok bool) {
	dy := float64(py) + 0.5 - cy
	rem := r2 - dy*dy
	if rem < 0 {
		return 0, 0, false
	}
	half := math.Sqrt(rem)
	lo, hi := -1.0, float64(width)
	fx0 := math.Min(math.Max(math.Ceil(cx-half-0.5), lo), hi)
	fx1 := math.Min(math.Max(math.Floor(cx+half-0.5), lo), hi)
	x0, x1 = int(fx0), int(fx1)

	for x0 <= x1 && !inside(x0, py, cx, cy, r2) {
		x0++
	}
	for x0 > -1 && inside(x0-1, py, cx, cy, r2) {
		x0--
	}
	for x1 >= x0 && !inside(x1, py, cx, cy, r2) {
		x1--
	}
	for x1 < width && inside(x1+1, py, cx, cy, r2) {
		x1++
	}
	return x0, x1, x0 <= x1
}

// fillSpan writes c into every pixel of dst using doubling copies.
func fillSpan(dst []uint8, c RGB) {
	if len(dst) < 3 {
		return
	}
	dst[0], dst[1], dst[2] = c.R, c.G, c.B
	for n := 3; n < len(dst); n *= 2 {
		copy(dst[n:], dst[:n])
	}
}
