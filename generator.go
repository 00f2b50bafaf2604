package leaves

import (
	"iter"
	"math"
)

// Generator draws dead-leaves disk batches for a square canvas.
//
// Every disk consumes six variates from the source, in order: radius,
// x, y, red, green, blue. Centers are uniform over [0, Width) and color
// channels uniform over [0, 255].
type Generator struct {
	width   int
	count   int
	sampler *RadiusSampler
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generatorOptions)

type generatorOptions struct {
	samplerOpts []SamplerOption
}

// WithSamplerOptions forwards options to the radius sampler.
func WithSamplerOptions(opts ...SamplerOption) GeneratorOption {
	return func(o *generatorOptions) {
		o.samplerOpts = append(o.samplerOpts, opts...)
	}
}

// NewGenerator returns a generator of count disks on a width×width canvas.
// It fails with ErrInvalidParameter for a non-positive width or count or
// invalid distribution parameters.
func NewGenerator(width, count int, p DistributionParams, opts ...GeneratorOption) (*Generator, error) {
	if err := validateSize(width, count); err != nil {
		return nil, err
	}
	var o generatorOptions
	for _, opt := range opts {
		opt(&o)
	}
	s, err := NewRadiusSampler(p, o.samplerOpts...)
	if err != nil {
		return nil, err
	}
	return &Generator{width: width, count: count, sampler: s}, nil
}

// Width returns the canvas side length.
func (g *Generator) Width() int { return g.width }

// Count returns the number of disks per batch.
func (g *Generator) Count() int { return g.count }

// Sampler returns the radius sampler.
func (g *Generator) Sampler() *RadiusSampler { return g.sampler }

// Disks returns a lazy sequence of Count disks drawn from src.
// The sequence is not replayable: ranging over it again draws fresh
// variates from src.
func (g *Generator) Disks(src Source) iter.Seq[Disk] {
	return func(yield func(Disk) bool) {
		for range g.count {
			if !yield(g.next(src)) {
				return
			}
		}
	}
}

// Batch draws Count disks from src into a slice.
func (g *Generator) Batch(src Source) Batch {
	b := make(Batch, 0, g.count)
	for d := range g.Disks(src) {
		b = append(b, d)
	}
	return b
}

func (g *Generator) next(src Source) Disk {
	w := float64(g.width)
	r := g.sampler.Sample(src.Float64())
	x := coord(src.Float64(), w)
	y := coord(src.Float64(), w)
	return Disk{
		X:      x,
		Y:      y,
		Radius: r,
		Color: Color{
			R: channel(src.Float64()),
			G: channel(src.Float64()),
			B: channel(src.Float64()),
		},
	}
}

// Generate returns n disks for a width×width canvas drawn from src.
func Generate(n, width int, p DistributionParams, src Source) (iter.Seq[Disk], error) {
	g, err := NewGenerator(width, n, p)
	if err != nil {
		return nil, err
	}
	return g.Disks(src), nil
}

// coord scales u onto [0, w), guarding the product against rounding up to w.
func coord(u, w float64) float64 {
	v := clampUniform(u) * w
	if v >= w {
		v = math.Nextafter(w, 0)
	}
	return v
}
