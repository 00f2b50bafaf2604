package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/leaves"
	_ "github.com/gogpu/leaves/gpu" // registers the batched backend
	"github.com/gogpu/leaves/internal/config"
	"github.com/gogpu/leaves/render"
	"github.com/gogpu/leaves/sink"
	"github.com/gogpu/leaves/surface"
)

func newRootCommand() *cobra.Command {
	var (
		configFile string
		flags      = config.Default()
	)
	run := func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(cmd.Flags(), configFile, flags)
		if err != nil {
			return err
		}
		return generate(cmd, cfg)
	}

	root := &cobra.Command{
		Use:           "deadleaves",
		Short:         "Render dead-leaves texture charts",
		Long:          "deadleaves paints frames of randomly sized, randomly colored opaque disks with power-law radii.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Render frames (default command)",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd.Flags(), configFile, flags)
			if err != nil {
				return err
			}
			b, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	for _, c := range []*cobra.Command{root, gen, cfgCmd} {
		defineFlags(c.Flags(), &flags, &configFile)
	}

	root.AddCommand(gen, cfgCmd, newBackendsCommand(), newVersionCommand())
	return root
}

func defineFlags(fs *pflag.FlagSet, cfg *config.Config, configFile *string) {
	fs.StringVarP(configFile, "config", "c", "", "path to a TOML config file")
	fs.IntVarP(&cfg.Width, "width", "w", cfg.Width, "frame side length in pixels")
	fs.IntVarP(&cfg.Disks, "disks", "n", cfg.Disks, "disks per frame")
	fs.IntVarP(&cfg.Frames, "frames", "k", cfg.Frames, "number of frames")
	fs.Float64Var(&cfg.Distribution.Alpha, "alpha", cfg.Distribution.Alpha, "power-law exponent (> 1)")
	fs.Float64Var(&cfg.Distribution.RMin, "rmin", cfg.Distribution.RMin, "smallest radius in pixels")
	fs.Float64Var(&cfg.Distribution.RMax, "rmax", cfg.Distribution.RMax, "largest radius in pixels")
	fs.StringVar(&cfg.Rounding, "rounding", cfg.Rounding, "radius rounding: floor, ceil, nearest or none")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "background color as hex")
	fs.StringVarP(&cfg.Backend, "backend", "b", cfg.Backend, "surface backend (see 'deadleaves backends')")
	fs.BoolVar(&cfg.Fallback, "fallback", cfg.Fallback, "use the immediate backend if the requested one is unavailable")
	fs.IntVarP(&cfg.Jobs, "jobs", "j", cfg.Jobs, "frames rendered concurrently")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "base random seed (makes the run reproducible)")
	fs.StringVarP(&cfg.Output.Dir, "out", "o", cfg.Output.Dir, "output directory")
	fs.StringVar(&cfg.Output.Pattern, "pattern", cfg.Output.Pattern, "frame file name pattern")
	fs.StringVarP(&cfg.Output.Format, "format", "f", cfg.Output.Format, "image format: png, bmp or tiff")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
}

// resolveConfig layers explicitly set flags over the config file (or the
// defaults when no file is given) and validates the result.
func resolveConfig(fs *pflag.FlagSet, configFile string, flags config.Config) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return cfg, err
		}
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = flags.Width
		case "disks":
			cfg.Disks = flags.Disks
		case "frames":
			cfg.Frames = flags.Frames
		case "alpha":
			cfg.Distribution.Alpha = flags.Distribution.Alpha
		case "rmin":
			cfg.Distribution.RMin = flags.Distribution.RMin
		case "rmax":
			cfg.Distribution.RMax = flags.Distribution.RMax
		case "rounding":
			cfg.Rounding = flags.Rounding
		case "background":
			cfg.Background = flags.Background
		case "backend":
			cfg.Backend = flags.Backend
		case "fallback":
			cfg.Fallback = flags.Fallback
		case "jobs":
			cfg.Jobs = flags.Jobs
		case "seed":
			cfg.Seed = flags.Seed
			cfg.Seeded = true
		case "out":
			cfg.Output.Dir = flags.Output.Dir
		case "pattern":
			cfg.Output.Pattern = flags.Output.Pattern
		case "format":
			cfg.Output.Format = flags.Output.Format
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		}
	})
	return cfg, cfg.Validate()
}

func generate(cmd *cobra.Command, cfg config.Config) error {
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	leaves.SetLogger(logger)

	gen, err := leaves.NewGenerator(cfg.Width, cfg.Disks, cfg.Distribution,
		leaves.WithSamplerOptions(leaves.WithRounding(cfg.RoundingMode())))
	if err != nil {
		return err
	}
	format, err := sink.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	bg := cfg.BackgroundColor()
	p := &render.Pipeline{
		Generator:  gen,
		Sink:       &sink.FileSink{Dir: cfg.Output.Dir, Pattern: cfg.Output.Pattern, Format: format},
		Backend:    cfg.Backend,
		Surface:    surface.Options{AllowFallback: cfg.Fallback},
		Background: &bg,
		Seeded:     cfg.Seeded,
		Seed:       cfg.Seed,
		Jobs:       cfg.Jobs,
	}
	stats, err := p.Run(cmd.Context(), cfg.Frames)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), stats)
	return nil
}

func printSummary(w io.Writer, s render.Stats) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d frames, %d disks on %s in %.3fs\n",
		s.Frames, s.Disks, s.Backend, s.Elapsed.Seconds())
}

func newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List surface backends by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRIORITY\tAVAILABLE")
			for _, name := range surface.List() {
				e, ok := surface.Get(name)
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%t\n", e.Name, e.Priority, e.Available())
			}
			return tw.Flush()
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "deadleaves", leaves.Version)
		},
	}
}
