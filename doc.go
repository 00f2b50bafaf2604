// Package leaves generates dead-leaves stochastic texture charts.
//
// # Overview
//
// A dead-leaves frame is a square canvas covered by thousands of randomly
// placed, randomly colored opaque disks painted one after another, so
// later disks hide earlier ones. Radii follow a power law truncated to
// [RMin, RMax], which gives the image scale-invariant statistics. The
// pattern is a standard target for noise, resolution and sharpness
// benchmarks of cameras and image pipelines.
//
// # Quick Start
//
//	g, err := leaves.NewGenerator(1000, 10000, leaves.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	batch := g.Batch(leaves.NewSource(42))
//
//	s, err := surface.NewSurfaceByName(surface.BackendImmediate, surface.Options{Width: 1000})
//	...
//	frame, err := render.NewCompositor(s).Compose(ctx, batch)
//
// # Architecture
//
// The library is organized into:
//   - leaves: distribution parameters, radius sampling, disk generation,
//     canvas and frame buffers
//   - surface: painting targets (immediate CPU rasterizer, batched GPU
//     instanced renderer) behind one interface and a backend registry
//   - render: per-frame compositing state machine and the multi-frame pipeline
//   - sink: frame persistence (PNG, BMP, TIFF)
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Pixel (x, y) is covered by a disk when its center (x+0.5, y+0.5)
//     lies inside the circle
package leaves

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
