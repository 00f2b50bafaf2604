// Package config holds the run configuration of the deadleaves command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/sink"
	"github.com/gogpu/leaves/surface"
)

// Config is the complete set of run parameters. It is fixed once a run
// starts.
type Config struct {
	// Width is the side length of each frame in pixels.
	Width int `toml:"width"`

	// Disks is the number of disks per frame.
	Disks int `toml:"disks"`

	// Frames is the number of frames to render.
	Frames int `toml:"frames"`

	// Distribution holds the radius power law.
	Distribution leaves.DistributionParams `toml:"distribution"`

	// Rounding is the radius rounding mode: floor, ceil, nearest or none.
	Rounding string `toml:"rounding"`

	// Background is the frame background as a hex color.
	Background string `toml:"background"`

	// Backend is the surface backend name.
	Backend string `toml:"backend"`

	// Fallback allows the immediate backend when Backend is unavailable.
	Fallback bool `toml:"fallback"`

	// Jobs is the number of frames rendered concurrently.
	Jobs int `toml:"jobs"`

	// Seed makes the run reproducible when Seeded is true.
	Seed   uint64 `toml:"seed"`
	Seeded bool   `toml:"seeded"`

	Output Output `toml:"output"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Output configures where frames are written.
type Output struct {
	Dir     string `toml:"dir"`
	Pattern string `toml:"pattern"`
	Format  string `toml:"format"`
}

// Default returns the configuration of the reference dead-leaves run.
func Default() Config {
	return Config{
		Width:        1000,
		Disks:        10000,
		Frames:       100,
		Distribution: leaves.DefaultParams(),
		Rounding:     leaves.RoundFloor.String(),
		Background:   leaves.White.Hex(),
		Backend:      surface.BackendImmediate,
		Jobs:         1,
		Output: Output{
			Dir:     ".",
			Pattern: sink.DefaultPattern,
			Format:  string(sink.FormatPNG),
		},
		LogLevel: "info",
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file
// keep their default values; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, leaving fields not present untouched.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys: %s", strict.String())
		}
		return err
	}
	return nil
}

// Marshal renders cfg as TOML.
func Marshal(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// RoundingMode returns the parsed rounding mode. Call Validate first.
func (c Config) RoundingMode() leaves.Rounding {
	r, _ := leaves.ParseRounding(c.Rounding)
	return r
}

// BackgroundColor returns the parsed background. Call Validate first.
func (c Config) BackgroundColor() leaves.Color {
	bg, err := leaves.ParseHex(c.Background)
	if err != nil {
		return leaves.White
	}
	return bg
}

// Validate checks every parameter before any generation happens. The
// returned error wraps leaves.ErrInvalidParameter.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be > 0, got %d", leaves.ErrInvalidParameter, c.Width)
	}
	if c.Disks <= 0 {
		return fmt.Errorf("%w: disks must be > 0, got %d", leaves.ErrInvalidParameter, c.Disks)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames must be > 0, got %d", leaves.ErrInvalidParameter, c.Frames)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must be >= 0, got %d", leaves.ErrInvalidParameter, c.Jobs)
	}
	if err := c.Distribution.Validate(); err != nil {
		return err
	}
	if _, ok := leaves.ParseRounding(c.Rounding); !ok {
		return fmt.Errorf("%w: unknown rounding %q", leaves.ErrInvalidParameter, c.Rounding)
	}
	if _, err := leaves.ParseHex(c.Background); err != nil {
		return err
	}
	if _, err := sink.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %w", leaves.ErrInvalidParameter, err)
	}
	if c.Backend == "" {
		return fmt.Errorf("%w: backend must be set", leaves.ErrInvalidParameter)
	}
	return nil
}
