// Package sink writes finished frames to their destination.
//
// FileSink encodes each frame into its own numbered image file;
// MemorySink keeps frames in memory. Both are safe for concurrent use
// by pipeline workers.
package sink

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/leaves"
)

// FrameSink receives finished frames. index is the frame number within
// the run, starting at 0. Frames may arrive out of order when the
// pipeline renders in parallel.
type FrameSink interface {
	WriteFrame(ctx context.Context, index int, f *leaves.Frame) error
}

// Format is an image file format.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ErrUnsupportedFormat is returned for an unknown Format.
var ErrUnsupportedFormat = errors.New("sink: unsupported format")

// ParseFormat parses a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png", "":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Encode writes frame to w in the given format.
func Encode(w io.Writer, frame *leaves.Frame, format Format) error {
	img := frame.ToImage()
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}
