//go:build nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/leaves"
)

// Available reports whether a HAL backend is compiled in.
func Available() bool { return false }

// Open reports that GPU support was compiled out.
func Open(time.Duration) (RasterContext, error) {
	return nil, fmt.Errorf("%w: built with nogpu", leaves.ErrBackendUnavailable)
}

// OpenShared reports that GPU support was compiled out.
func OpenShared(any, time.Duration) (RasterContext, error) {
	return nil, fmt.Errorf("%w: built with nogpu", leaves.ErrBackendUnavailable)
}
