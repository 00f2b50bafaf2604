// Package gpu implements the batched dead-leaves renderer: every disk of a
// frame becomes one instance of a unit quad, all instances are drawn with
// a single instanced draw call, and the target is read back into an RGB
// buffer.
//
// The raster context is an explicit value (RasterContext) that owns its
// device objects for the lifetime of a surface. Two implementations exist:
//
//   - HALContext drives a wgpu/hal device (Vulkan by default, or a device
//     shared by a host application).
//   - SoftContext executes the same instanced pipeline on the CPU. It is
//     the reference used to check that the GPU path and the immediate
//     rasterizer agree.
package gpu
