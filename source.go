package leaves

import (
	"math/rand/v2"
	"time"
)

// Source produces independent uniform variates in [0, 1).
// *rand.Rand from math/rand/v2 satisfies Source.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source seeded with seed.
// Two sources built from the same seed replay the same sequence.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the clock.
func NewRandomSource() Source {
	return NewSource(uint64(time.Now().UnixNano())) //nolint:gosec // seed bits only
}

// FrameSeed derives the seed of frame index from a base seed so that
// frames stay independent and reproducible when generated out of order.
func FrameSeed(base uint64, index int) uint64 {
	// splitmix64 step
	z := base + uint64(index+1)*0x9e3779b97f4a7c15 //nolint:gosec // index is non-negative
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
