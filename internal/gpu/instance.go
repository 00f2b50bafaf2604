package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/leaves"
)

// instanceStride is the byte stride per instance in the disk pipeline.
// Layout per instance:
//
//	translation (vec2<f32>) = 8 bytes  (location 1)
//	scale       (f32)       = 4 bytes  (location 2)
//	padding     (f32)       = 4 bytes
//	color       (vec4<f32>) = 16 bytes (location 3)
//
// Total = 32 bytes per instance.
const instanceStride = 32

// quadStride is the byte stride of one unit-quad corner (vec2<f32>).
const quadStride = 8

// quadVertexCount is the number of vertices of the unit quad (two triangles).
const quadVertexCount = 6

// unitQuad is the canonical quad enclosing the unit circle.
// Triangle 1: TL, TR, BL. Triangle 2: TR, BR, BL.
var unitQuad = [quadVertexCount][2]float32{
	{-1, 1}, {1, 1}, {-1, -1},
	{1, 1}, {1, -1}, {-1, -1},
}

// Instance is the per-disk record of the instanced draw: the affine
// transform applied to the unit quad, in normalized device coordinates,
// plus a solid color with components in [0, 1].
type Instance struct {
	TX, TY     float32
	Scale      float32
	R, G, B, A float32
}

// NewInstance converts a disk on a width×width canvas into an instance.
// Pixel y grows downward while NDC y grows upward, so the first texture
// row read back is the top row of the canvas.
func NewInstance(d leaves.Disk, width int) Instance {
	half := float64(width) / 2
	return Instance{
		TX:    float32(d.X/half - 1),
		TY:    float32(1 - d.Y/half),
		Scale: float32(d.Radius / half),
		R:     float32(d.Color.R) / 255,
		G:     float32(d.Color.G) / 255,
		B:     float32(d.Color.B) / 255,
		A:     1,
	}
}

// Instances converts a batch, preserving its order.
func Instances(batch leaves.Batch, width int) []Instance {
	out := make([]Instance, len(batch))
	for i, d := range batch {
		out[i] = NewInstance(d, width)
	}
	return out
}

// encodeInstances packs instances into the vertex buffer layout.
func encodeInstances(instances []Instance) []byte {
	buf := make([]byte, len(instances)*instanceStride)
	for i := range instances {
		in := &instances[i]
		b := buf[i*instanceStride:]
		putFloat32(b[0:4], in.TX)
		putFloat32(b[4:8], in.TY)
		putFloat32(b[8:12], in.Scale)
		// b[12:16] padding
		putFloat32(b[16:20], in.R)
		putFloat32(b[20:24], in.G)
		putFloat32(b[24:28], in.B)
		putFloat32(b[28:32], in.A)
	}
	return buf
}

// encodeQuad packs the unit quad corners.
func encodeQuad() []byte {
	buf := make([]byte, quadVertexCount*quadStride)
	for i, c := range unitQuad {
		putFloat32(buf[i*quadStride:], c[0])
		putFloat32(buf[i*quadStride+4:], c[1])
	}
	return buf
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// unorm8 converts a [0, 1] channel to a byte the way a UNORM8 color
// attachment stores it.
func unorm8(v float32) uint8 {
	f := math.Round(float64(v) * 255)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}
