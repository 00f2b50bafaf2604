package leaves

import "fmt"

// DistributionParams configures the truncated power-law radius distribution.
type DistributionParams struct {
	// Alpha is the power-law exponent. Must be greater than 1.
	Alpha float64 `toml:"alpha"`

	// RMin is the smallest radius in pixels. Must be positive.
	RMin float64 `toml:"r_min"`

	// RMax is the largest radius in pixels. Must be >= RMin.
	RMax float64 `toml:"r_max"`
}

// DefaultParams returns the parameters of the reference dead-leaves
// chart: alpha=3, radii in [4, 2000].
func DefaultParams() DistributionParams {
	return DistributionParams{Alpha: 3.0, RMin: 4, RMax: 2000}
}

// Validate reports whether the parameters define a usable distribution.
// The returned error wraps ErrInvalidParameter.
func (p DistributionParams) Validate() error {
	switch {
	case !(p.Alpha > 1):
		return fmt.Errorf("%w: alpha must be > 1, got %v", ErrInvalidParameter, p.Alpha)
	case !(p.RMin > 0):
		return fmt.Errorf("%w: r_min must be > 0, got %v", ErrInvalidParameter, p.RMin)
	case !(p.RMax >= p.RMin):
		return fmt.Errorf("%w: r_min (%v) must not exceed r_max (%v)", ErrInvalidParameter, p.RMin, p.RMax)
	}
	return nil
}

// validateSize checks canvas width and disk count.
func validateSize(width, count int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be > 0, got %d", ErrInvalidParameter, width)
	}
	if count <= 0 {
		return fmt.Errorf("%w: disk count must be > 0, got %d", ErrInvalidParameter, count)
	}
	return nil
}
