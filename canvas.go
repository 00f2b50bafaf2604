package leaves

import (
	"fmt"
	"image"
	"image/color"
)

// FrameState is the lifecycle stage of a frame under construction.
// Stages only move forward; a new frame starts again at StateEmpty.
type FrameState uint8

const (
	// StateEmpty is a freshly allocated canvas with undefined content.
	StateEmpty FrameState = iota

	// StateInitialized means the canvas is filled with the background.
	StateInitialized

	// StatePainting means at least one disk batch has been applied.
	StatePainting

	// StateFinalized means the frame is complete and read-only.
	StateFinalized
)

// String returns the state name.
func (s FrameState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInitialized:
		return "initialized"
	case StatePainting:
		return "painting"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// BytesPerPixel is the size of one canvas pixel (R, G, B).
const BytesPerPixel = 3

// Canvas is a mutable width×width RGB pixel buffer. Pixels are stored
// row-major, top row first, 3 bytes per pixel.
//
// A Canvas is owned by a single surface for the duration of one frame
// and is not safe for concurrent use.
type Canvas struct {
	width int
	pix   []uint8
	state FrameState
}

// NewCanvas allocates an empty canvas.
func NewCanvas(width int) (*Canvas, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width must be > 0, got %d", ErrInvalidParameter, width)
	}
	return &Canvas{
		width: width,
		pix:   make([]uint8, width*width*BytesPerPixel),
	}, nil
}

// Width returns the side length in pixels.
func (c *Canvas) Width() int { return c.width }

// State returns the current lifecycle stage.
func (c *Canvas) State() FrameState { return c.state }

// Clear fills the canvas with bg and moves it to StateInitialized.
func (c *Canvas) Clear(bg Color) error {
	if c.state != StateEmpty {
		return fmt.Errorf("%w: clear in state %s", ErrInvalidState, c.state)
	}
	fillRGB(c.pix, bg)
	c.state = StateInitialized
	return nil
}

// Pix returns the writable pixel buffer for painting. It fails unless
// the canvas is initialized or painting, and moves it to StatePainting.
func (c *Canvas) Pix() ([]uint8, error) {
	if c.state != StateInitialized && c.state != StatePainting {
		return nil, fmt.Errorf("%w: paint in state %s", ErrInvalidState, c.state)
	}
	c.state = StatePainting
	return c.pix, nil
}

// Load replaces the canvas content with a W×W×3 RGB buffer, as produced by
// a raster context readback, and moves it to StatePainting.
func (c *Canvas) Load(rgb []uint8) error {
	if len(rgb) != len(c.pix) {
		return fmt.Errorf("%w: buffer has %d bytes, want %d", ErrReadback, len(rgb), len(c.pix))
	}
	dst, err := c.Pix()
	if err != nil {
		return err
	}
	copy(dst, rgb)
	return nil
}

// Finalize hands the pixels over to a read-only Frame. The canvas cannot
// be used afterwards. An initialized canvas with no disks is a valid frame.
func (c *Canvas) Finalize() (*Frame, error) {
	if c.state != StateInitialized && c.state != StatePainting {
		return nil, fmt.Errorf("%w: finalize in state %s", ErrInvalidState, c.state)
	}
	f := &Frame{width: c.width, pix: c.pix}
	c.pix = nil
	c.state = StateFinalized
	return f, nil
}

func fillRGB(pix []uint8, c Color) {
	if len(pix) < BytesPerPixel {
		return
	}
	pix[0], pix[1], pix[2] = c.R, c.G, c.B
	// Doubling copy.
	for n := BytesPerPixel; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}
}

// Frame is a finished dead-leaves image. It is read-only and safe for
// concurrent readers.
type Frame struct {
	width int
	pix   []uint8
}

// NewFrame wraps a W×W×3 RGB buffer (row-major, top row first).
// The buffer is copied.
func NewFrame(width int, rgb []uint8) (*Frame, error) {
	if width <= 0 || len(rgb) != width*width*BytesPerPixel {
		return nil, fmt.Errorf("%w: %d bytes do not form a %dx%d RGB frame", ErrInvalidParameter, len(rgb), width, width)
	}
	pix := make([]uint8, len(rgb))
	copy(pix, rgb)
	return &Frame{width: width, pix: pix}, nil
}

// Width returns the side length in pixels.
func (f *Frame) Width() int { return f.width }

// Bytes returns a copy of the W×W×3 RGB buffer, row-major, top row first.
func (f *Frame) Bytes() []uint8 {
	out := make([]uint8, len(f.pix))
	copy(out, f.pix)
	return out
}

// RGBAt returns the color of pixel (x, y). Out-of-range coordinates yield
// the zero Color.
func (f *Frame) RGBAt(x, y int) Color {
	if x < 0 || x >= f.width || y < 0 || y >= f.width {
		return Color{}
	}
	i := (y*f.width + x) * BytesPerPixel
	return Color{R: f.pix[i], G: f.pix[i+1], B: f.pix[i+2]}
}

// Equal reports whether two frames are bit-identical.
func (f *Frame) Equal(o *Frame) bool {
	if o == nil {
		return false
	}
	if f.width != o.width {
		return false
	}
	for i := range f.pix {
		if f.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ToImage converts the frame to an *image.RGBA.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.width))
	n := f.width * f.width
	for i := 0; i < n; i++ {
		s, d := i*BytesPerPixel, i*4
		img.Pix[d+0] = f.pix[s+0]
		img.Pix[d+1] = f.pix[s+1]
		img.Pix[d+2] = f.pix[s+2]
		img.Pix[d+3] = 255
	}
	return img
}

// At implements the image.Image interface.
func (f *Frame) At(x, y int) color.Color {
	return f.RGBAt(x, y)
}

// Bounds implements the image.Image interface.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.width)
}

// ColorModel implements the image.Image interface.
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}
