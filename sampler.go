package leaves

import "math"

// Rounding selects how a continuous radius is snapped to whole pixels.
type Rounding uint8

const (
	// RoundFloor truncates toward zero. This is the default and matches the
	// integer conversion of the CPU reference chart generator.
	RoundFloor Rounding = iota

	// RoundCeil rounds up, as the instanced GPU reference generator does.
	RoundCeil

	// RoundNearest rounds half away from zero.
	RoundNearest

	// RoundNone keeps the continuous radius.
	RoundNone
)

// String returns the rounding mode name.
func (r Rounding) String() string {
	switch r {
	case RoundFloor:
		return "floor"
	case RoundCeil:
		return "ceil"
	case RoundNearest:
		return "nearest"
	case RoundNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseRounding converts a mode name to a Rounding value.
func ParseRounding(s string) (Rounding, bool) {
	switch s {
	case "floor", "":
		return RoundFloor, true
	case "ceil":
		return RoundCeil, true
	case "nearest", "round":
		return RoundNearest, true
	case "none":
		return RoundNone, true
	default:
		return RoundFloor, false
	}
}

func (r Rounding) apply(v float64) float64 {
	switch r {
	case RoundCeil:
		return math.Ceil(v)
	case RoundNearest:
		return math.Round(v)
	case RoundNone:
		return v
	default:
		return math.Floor(v)
	}
}

// maxUniform is the largest float64 below 1.
var maxUniform = math.Nextafter(1, 0)

// RadiusSampler converts uniform variates into radii following a power law
// truncated to [RMin, RMax] by inverse-transform sampling:
//
//	vamin  = RMax^-(alpha-1)
//	vamax  = RMin^-(alpha-1)
//	v      = vamin + (vamax-vamin)*u
//	radius = v^(-1/(alpha-1))
//
// u=0 maps to RMax and u->1 maps to RMin, so radius decreases
// monotonically with u. RadiusSampler is immutable and safe for
// concurrent use.
type RadiusSampler struct {
	params   DistributionParams
	vamin    float64
	vamax    float64
	invExp   float64 // -1/(alpha-1)
	rounding Rounding
}

// SamplerOption configures a RadiusSampler.
type SamplerOption func(*RadiusSampler)

// WithRounding sets the radius rounding mode. The default is RoundFloor.
func WithRounding(r Rounding) SamplerOption {
	return func(s *RadiusSampler) {
		s.rounding = r
	}
}

// NewRadiusSampler validates p and precomputes the inverse-CDF bounds.
func NewRadiusSampler(p DistributionParams, opts ...SamplerOption) (*RadiusSampler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	k := p.Alpha - 1
	s := &RadiusSampler{
		params: p,
		vamin:  math.Pow(p.RMax, -k),
		vamax:  math.Pow(p.RMin, -k),
		invExp: -1 / k,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Params returns the distribution parameters.
func (s *RadiusSampler) Params() DistributionParams { return s.params }

// Rounding returns the configured rounding mode.
func (s *RadiusSampler) Rounding() Rounding { return s.rounding }

// Continuous returns the unrounded, unclamped inverse-CDF value for u.
// u is clamped into [0, 1) first.
func (s *RadiusSampler) Continuous(u float64) float64 {
	u = clampUniform(u)
	v := s.vamin + (s.vamax-s.vamin)*u
	return math.Pow(v, s.invExp)
}

// Sample returns the radius for u, rounded with the configured mode and
// clamped to [RMin, RMax] to absorb floating-point overshoot.
func (s *RadiusSampler) Sample(u float64) float64 {
	r := s.rounding.apply(s.Continuous(u))
	return math.Min(math.Max(r, s.params.RMin), s.params.RMax)
}

func clampUniform(u float64) float64 {
	switch {
	case u < 0 || math.IsNaN(u):
		return 0
	case u > maxUniform:
		return maxUniform
	default:
		return u
	}
}
