package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/leaves"
)

// DefaultPattern numbers frames with three zero-padded digits.
const DefaultPattern = "%03d"

// FileSink writes each frame to Dir/<Pattern applied to index>.<ext>.
type FileSink struct {
	// Dir is the output directory. It is created on first write.
	Dir string

	// Pattern is a fmt verb sequence applied to the frame index.
	Pattern string

	// Format selects the encoder.
	Format Format
}

var _ FrameSink = (*FileSink)(nil)

// NewFileSink returns a sink writing into dir with DefaultPattern.
func NewFileSink(dir string, format Format) *FileSink {
	return &FileSink{Dir: dir, Pattern: DefaultPattern, Format: format}
}

// Path returns the file path used for frame index.
func (s *FileSink) Path(index int) string {
	pattern := s.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	format := s.Format
	if format == "" {
		format = FormatPNG
	}
	return filepath.Join(s.Dir, fmt.Sprintf(pattern, index)+"."+format.Ext())
}

// WriteFrame encodes f into its numbered file.
func (s *FileSink) WriteFrame(ctx context.Context, index int, f *leaves.Frame) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	format := s.Format
	if format == "" {
		format = FormatPNG
	}
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o750); err != nil {
			return fmt.Errorf("sink: create dir: %w", err)
		}
	}

	path := s.Path(index)
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("sink: create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("sink: close file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	if err := Encode(w, f, format); err != nil {
		return fmt.Errorf("sink: encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	leaves.Logger().Debug("sink: frame written", "index", index, "path", path)
	return nil
}
