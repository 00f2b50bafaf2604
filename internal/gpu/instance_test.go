package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/leaves"
)

func TestNewInstance(t *testing.T) {
	tests := []struct {
		name string
		d    leaves.Disk
		w    int
		want Instance
	}{
		{
			name: "center",
			d:    leaves.Disk{X: 50, Y: 50, Radius: 25, Color: leaves.White},
			w:    100,
			want: Instance{TX: 0, TY: 0, Scale: 0.5, R: 1, G: 1, B: 1, A: 1},
		},
		{
			name: "top left",
			d:    leaves.Disk{X: 0, Y: 0, Radius: 100},
			w:    100,
			want: Instance{TX: -1, TY: 1, Scale: 2, A: 1},
		},
		{
			name: "bottom right",
			d:    leaves.Disk{X: 75, Y: 75, Radius: 10, Color: leaves.Color{R: 255}},
			w:    100,
			want: Instance{TX: 0.5, TY: -0.5, Scale: 0.2, R: 1, A: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewInstance(tt.d, tt.w)
			if !instanceNear(got, tt.want) {
				t.Errorf("NewInstance() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func instanceNear(a, b Instance) bool {
	near := func(x, y float32) bool { return math.Abs(float64(x-y)) < 1e-6 }
	return near(a.TX, b.TX) && near(a.TY, b.TY) && near(a.Scale, b.Scale) &&
		near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}

func TestInstancesPreserveOrder(t *testing.T) {
	batch := leaves.Batch{
		{X: 10, Y: 10, Radius: 1},
		{X: 20, Y: 20, Radius: 2},
		{X: 30, Y: 30, Radius: 3},
	}
	got := Instances(batch, 40)
	if len(got) != len(batch) {
		t.Fatalf("Instances() len = %d, want %d", len(got), len(batch))
	}
	for i, in := range got {
		if want := NewInstance(batch[i], 40); in != want {
			t.Errorf("instance %d = %+v, want %+v", i, in, want)
		}
	}
}

func TestEncodeInstances(t *testing.T) {
	in := []Instance{
		{TX: 1, TY: 2, Scale: 3, R: 4, G: 5, B: 6, A: 7},
		{TX: -1, TY: -2, Scale: 0.5, R: 0, G: 0, B: 0, A: 1},
	}
	buf := encodeInstances(in)
	if len(buf) != 2*instanceStride {
		t.Fatalf("encoded %d bytes, want %d", len(buf), 2*instanceStride)
	}

	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	wantOffsets := map[int]float32{
		0: 1, 4: 2, 8: 3, 16: 4, 20: 5, 24: 6, 28: 7,
		32: -1, 36: -2, 40: 0.5, 60: 1,
	}
	for off, want := range wantOffsets {
		if got := read(off); got != want {
			t.Errorf("float at offset %d = %v, want %v", off, got, want)
		}
	}
}

func TestEncodeQuad(t *testing.T) {
	buf := encodeQuad()
	if len(buf) != quadVertexCount*quadStride {
		t.Fatalf("quad is %d bytes, want %d", len(buf), quadVertexCount*quadStride)
	}
	for i := 0; i < quadVertexCount*2; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if v != 1 && v != -1 {
			t.Errorf("quad component %d = %v, want +-1", i, v)
		}
	}
}

func TestUnorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{1, 255},
		{128.0 / 255, 128},
		{-0.5, 0},
		{2, 255},
	}
	for _, tt := range tests {
		if got := unorm8(tt.in); got != tt.want {
			t.Errorf("unorm8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
	for c := 0; c < 256; c++ {
		if got := unorm8(float32(c) / 255); got != uint8(c) {
			t.Fatalf("unorm8 does not round-trip byte %d: got %d", c, got)
		}
	}
}
