package gpu

import "github.com/gogpu/leaves"

// RasterContext is the accelerated raster collaborator of the batched
// backend. Calls are ordered: CreateTarget, then any number of
// DrawInstances/ReadPixels pairs, then Release.
type RasterContext interface {
	// Name identifies the context in logs.
	Name() string

	// CreateTarget allocates an off-screen width×width color target.
	// Calling it again with another width replaces the target.
	CreateTarget(width int) error

	// DrawInstances clears the target to bg and submits one instanced
	// draw of the unit quad, one instance per element, in slice order.
	DrawInstances(instances []Instance, bg leaves.Color) error

	// ReadPixels blocks until the last draw has completed and returns the
	// target as a width×width×3 RGB buffer, row-major, top row first.
	ReadPixels() ([]byte, error)

	// Release frees every resource owned by the context. It is safe to
	// call more than once.
	Release()
}
