package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/leaves"
)

func softPixel(rgb []byte, w, x, y int) leaves.Color {
	i := (y*w + x) * 3
	return leaves.Color{R: rgb[i], G: rgb[i+1], B: rgb[i+2]}
}

func TestSoftContextLifecycle(t *testing.T) {
	c := NewSoftContext()
	if err := c.DrawInstances(nil, leaves.White); !errors.Is(err, leaves.ErrInvalidState) {
		t.Errorf("DrawInstances before CreateTarget error = %v, want ErrInvalidState", err)
	}
	if err := c.CreateTarget(0); !errors.Is(err, leaves.ErrInvalidParameter) {
		t.Errorf("CreateTarget(0) error = %v, want ErrInvalidParameter", err)
	}
	if err := c.CreateTarget(8); err != nil {
		t.Fatalf("CreateTarget(8) error = %v", err)
	}
	if _, err := c.ReadPixels(); !errors.Is(err, leaves.ErrReadback) {
		t.Errorf("ReadPixels before draw error = %v, want ErrReadback", err)
	}

	c.Release()
	c.Release()
	if err := c.CreateTarget(8); !errors.Is(err, leaves.ErrBackendUnavailable) {
		t.Errorf("CreateTarget after Release error = %v, want ErrBackendUnavailable", err)
	}
}

func TestSoftContextClear(t *testing.T) {
	c := NewSoftContext()
	defer c.Release()
	if err := c.CreateTarget(5); err != nil {
		t.Fatal(err)
	}
	bg := leaves.Color{R: 1, G: 2, B: 3}
	if err := c.DrawInstances(nil, bg); err != nil {
		t.Fatal(err)
	}
	rgb, err := c.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}
	if len(rgb) != 5*5*3 {
		t.Fatalf("ReadPixels() len = %d, want %d", len(rgb), 5*5*3)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got := softPixel(rgb, 5, x, y); got != bg {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, bg)
			}
		}
	}
}

func TestSoftContextOrientationAndOrder(t *testing.T) {
	const w = 64
	red := leaves.Color{R: 255}
	blue := leaves.Color{B: 255}
	batch := leaves.Batch{
		{X: 16, Y: 16, Radius: 10, Color: red},  // top left
		{X: 48, Y: 48, Radius: 10, Color: blue}, // bottom right
		{X: 32, Y: 32, Radius: 20, Color: leaves.Black},
		{X: 32, Y: 32, Radius: 4, Color: leaves.White},
	}

	c := NewSoftContext()
	defer c.Release()
	if err := c.CreateTarget(w); err != nil {
		t.Fatal(err)
	}
	if err := c.DrawInstances(Instances(batch, w), leaves.Color{G: 255}); err != nil {
		t.Fatal(err)
	}
	rgb, err := c.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y int
		want leaves.Color
	}{
		{8, 10, red},
		{52, 50, blue},
		{32, 32, leaves.White},
		{32, 18, leaves.Black},
		{0, 63, leaves.Color{G: 255}},
	}
	for _, tt := range tests {
		if got := softPixel(rgb, w, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSoftContextHugeRadius(t *testing.T) {
	const w = 8
	c := NewSoftContext()
	defer c.Release()
	if err := c.CreateTarget(w); err != nil {
		t.Fatal(err)
	}
	fg := leaves.Color{R: 9, G: 8, B: 7}
	for _, r := range []float64{1e19, 1e40} {
		batch := leaves.Batch{{X: 4, Y: 4, Radius: r, Color: fg}}
		if err := c.DrawInstances(Instances(batch, w), leaves.White); err != nil {
			t.Fatal(err)
		}
		rgb, err := c.ReadPixels()
		if err != nil {
			t.Fatal(err)
		}
		painted := 0
		for y := 0; y < w; y++ {
			for x := 0; x < w; x++ {
				if softPixel(rgb, w, x, y) == fg {
					painted++
				}
			}
		}
		if painted != w*w {
			t.Errorf("radius %g: painted %d of %d pixels", r, painted, w*w)
		}
	}
}

func TestSoftContextMatchesCoverage(t *testing.T) {
	const w = 48
	src := leaves.NewSource(3)
	gen, err := leaves.NewGenerator(w, 15, leaves.DistributionParams{Alpha: 2.5, RMin: 2, RMax: 20})
	if err != nil {
		t.Fatal(err)
	}
	batch := gen.Batch(src)

	c := NewSoftContext()
	defer c.Release()
	if err := c.CreateTarget(w); err != nil {
		t.Fatal(err)
	}
	if err := c.DrawInstances(Instances(batch, w), leaves.White); err != nil {
		t.Fatal(err)
	}
	rgb, err := c.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}

	checked := 0
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			if nearBoundary(batch, x, y) {
				continue
			}
			want := leaves.White
			if top := batch.Top(x, y); top >= 0 {
				want = batch[top].Color
			}
			if got := softPixel(rgb, w, x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
			checked++
		}
	}
	if checked < w*w/4 {
		t.Errorf("only %d of %d pixels away from boundaries", checked, w*w)
	}
}

// nearBoundary reports whether (x, y) lies within one pixel of any disk
// edge, where float32 and float64 coverage may disagree.
func nearBoundary(batch leaves.Batch, x, y int) bool {
	for _, d := range batch {
		dx := float64(x) + 0.5 - d.X
		dy := float64(y) + 0.5 - d.Y
		dist2 := dx*dx + dy*dy
		lo, hi := d.Radius-1, d.Radius+1
		if lo < 0 {
			lo = 0
		}
		if dist2 >= lo*lo && dist2 <= hi*hi {
			return true
		}
	}
	return false
}
