// Package gpu registers the batched (instanced GPU) surface backend.
//
// Import this package to make the "batched" backend available:
//
//	import _ "github.com/gogpu/leaves/gpu"
//
// The backend opens its own Vulkan device through wgpu/hal unless a host
// application shares one with SetDeviceProvider or surface.Options.Provider.
// If no device can be acquired, creating a batched surface fails with
// leaves.ErrBackendUnavailable; it never silently paints on the CPU unless
// surface.Options.AllowFallback is set.
package gpu
