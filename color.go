package leaves

import (
	"fmt"
	"image/color"
)

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// White is the canvas background color.
var White = Color{R: 255, G: 255, B: 255}

// Black is opaque black.
var Black = Color{}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "RGB" or "RRGGBB" with an optional leading '#'.
func ParseHex(hex string) (Color, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	var ok bool
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	}
	if !ok {
		return Color{}, fmt.Errorf("%w: bad color %q", ErrInvalidParameter, hex)
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil //nolint:gosec // at most 255
}

// parseHex accumulates hex digits of s into val.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// channel maps a uniform variate in [0, 1) onto a byte.
func channel(u float64) uint8 {
	v := int(u * 256)
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return uint8(v) //nolint:gosec // clamped above
}
