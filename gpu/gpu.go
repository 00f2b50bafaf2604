//go:build !nogpu

package gpu

import (
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/leaves"
	gpuimpl "github.com/gogpu/leaves/internal/gpu"
	"github.com/gogpu/leaves/surface"
)

// Priority is the registry priority of the batched backend.
const Priority = 100

// providerBox wraps the shared provider so atomic.Value always stores the
// same concrete type.
type providerBox struct {
	p gpucontext.DeviceProvider
}

var sharedProvider atomic.Value // providerBox

func init() {
	surface.Register(surface.BackendBatched, Priority, newSurface, gpuimpl.Available)
}

// SetDeviceProvider shares a host GPU device with every batched surface
// created afterwards. The provider must also expose HalDevice() any and
// HalQueue() any returning wgpu hal.Device and hal.Queue. Pass nil to go
// back to opening a private device per surface.
func SetDeviceProvider(provider gpucontext.DeviceProvider) {
	sharedProvider.Store(providerBox{p: provider})
}

// DeviceProvider returns the provider set by SetDeviceProvider, or nil.
func DeviceProvider() gpucontext.DeviceProvider {
	if b, ok := sharedProvider.Load().(providerBox); ok {
		return b.p
	}
	return nil
}

func newSurface(opts surface.Options) (surface.Surface, error) {
	provider := opts.Provider
	if provider == nil {
		if p := DeviceProvider(); p != nil {
			provider = p
		}
	}

	var (
		ctx gpuimpl.RasterContext
		err error
	)
	if provider != nil {
		ctx, err = gpuimpl.OpenShared(provider, opts.ReadbackTimeout)
	} else {
		ctx, err = gpuimpl.Open(opts.ReadbackTimeout)
	}
	if err != nil {
		return nil, err
	}

	s, err := surface.NewGPUSurface(opts.Width, ctx)
	if err != nil {
		return nil, err
	}
	leaves.Logger().Info("gpu: batched surface ready", "width", opts.Width, "shared", provider != nil)
	return s, nil
}
