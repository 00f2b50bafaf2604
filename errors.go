package leaves

import "errors"

// Sentinel errors. Callers match them with errors.Is; the returned errors
// carry the offending value in their message.
var (
	// ErrInvalidParameter is returned when a distribution parameter, canvas
	// width or disk count is out of range. No frame is produced.
	ErrInvalidParameter = errors.New("leaves: invalid parameter")

	// ErrBackendUnavailable is returned when the batched backend cannot
	// acquire a raster context or compile its shading program.
	ErrBackendUnavailable = errors.New("leaves: raster backend unavailable")

	// ErrReadback is returned when a rendered frame cannot be read back
	// from the raster context.
	ErrReadback = errors.New("leaves: frame readback failed")

	// ErrInvalidState is returned when a canvas or compositor operation is
	// called out of order (for example painting after finalization).
	ErrInvalidState = errors.New("leaves: invalid frame state")
)
