package gpu

import (
	"fmt"
	"math"

	"github.com/gogpu/leaves"
)

// SoftContext runs the instanced disk pipeline on the CPU: each instance
// transforms the unit quad, every pixel whose center falls in the quad is
// shaded, and the fragment is kept only when its interpolated local
// position lies in the unit circle. Arithmetic is done in float32 like the
// shader, so results match the GPU path rather than the scanline filler.
type SoftContext struct {
	width  int
	pix    []byte
	drawn  bool
	closed bool
}

var _ RasterContext = (*SoftContext)(nil)

// NewSoftContext returns an empty CPU raster context.
func NewSoftContext() *SoftContext {
	return &SoftContext{}
}

// Name returns the context name.
func (c *SoftContext) Name() string { return "soft" }

// CreateTarget allocates the RGB target.
func (c *SoftContext) CreateTarget(width int) error {
	if c.closed {
		return fmt.Errorf("%w: soft context released", leaves.ErrBackendUnavailable)
	}
	if width <= 0 {
		return fmt.Errorf("%w: target width %d", leaves.ErrInvalidParameter, width)
	}
	if c.width != width {
		c.width = width
		c.pix = make([]byte, width*width*leaves.BytesPerPixel)
	}
	c.drawn = false
	return nil
}

// DrawInstances clears the target and rasterizes instances in order.
func (c *SoftContext) DrawInstances(instances []Instance, bg leaves.Color) error {
	if c.pix == nil {
		return fmt.Errorf("%w: no target", leaves.ErrInvalidState)
	}
	for i := 0; i < len(c.pix); i += 3 {
		c.pix[i], c.pix[i+1], c.pix[i+2] = bg.R, bg.G, bg.B
	}
	for i := range instances {
		c.drawInstance(&instances[i])
	}
	c.drawn = true
	return nil
}

func (c *SoftContext) drawInstance(in *Instance) {
	if in.Scale <= 0 {
		return
	}
	half := float32(c.width) / 2

	// Quad bounds in pixel space.
	minX := (in.TX-in.Scale+1)*half - 0.5
	maxX := (in.TX+in.Scale+1)*half - 0.5
	minY := (1-(in.TY+in.Scale))*half - 0.5
	maxY := (1-(in.TY-in.Scale))*half - 0.5

	// Clamp in float first: bounds of huge instances overflow int.
	w := float64(c.width)
	x0 := clampInt(int(clampFloat(math.Ceil(float64(minX)), -1, w)), 0, c.width-1)
	x1 := clampInt(int(clampFloat(math.Floor(float64(maxX)), -1, w)), 0, c.width-1)
	y0 := clampInt(int(clampFloat(math.Ceil(float64(minY)), -1, w)), 0, c.width-1)
	y1 := clampInt(int(clampFloat(math.Floor(float64(maxY)), -1, w)), 0, c.width-1)

	r, g, b := unorm8(in.R), unorm8(in.G), unorm8(in.B)
	for py := y0; py <= y1; py++ {
		ndcY := 1 - (float32(py)+0.5)/half
		ly := (ndcY - in.TY) / in.Scale
		row := py * c.width * 3
		for px := x0; px <= x1; px++ {
			ndcX := (float32(px)+0.5)/half - 1
			lx := (ndcX - in.TX) / in.Scale
			if lx*lx+ly*ly > 1 {
				continue
			}
			i := row + px*3
			c.pix[i], c.pix[i+1], c.pix[i+2] = r, g, b
		}
	}
}

// ReadPixels returns a copy of the target.
func (c *SoftContext) ReadPixels() ([]byte, error) {
	if !c.drawn {
		return nil, fmt.Errorf("%w: nothing drawn", leaves.ErrReadback)
	}
	out := make([]byte, len(c.pix))
	copy(out, c.pix)
	return out, nil
}

// Release drops the target.
func (c *SoftContext) Release() {
	c.pix = nil
	c.width = 0
	c.drawn = false
	c.closed = true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
