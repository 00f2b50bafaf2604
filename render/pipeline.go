// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/sink"
	"github.com/gogpu/leaves/surface"
)

// Stats summarizes a pipeline run.
type Stats struct {
	// Frames is the number of frames written to the sink.
	Frames int

	// Disks is the total number of disks painted.
	Disks int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration

	// Backend is the name of the surface backend that rendered the frames.
	Backend string
}

// Pipeline generates, composes and writes frames.
//
// Fields must not be changed while Run is in progress.
type Pipeline struct {
	// Generator draws each frame's disks. Required.
	Generator *leaves.Generator

	// Sink receives finished frames. Required.
	Sink sink.FrameSink

	// Backend names the surface backend. Empty selects the best
	// available one.
	Backend string

	// Surface carries extra surface options. Width is taken from the
	// generator.
	Surface surface.Options

	// Background is the frame background. Nil means leaves.White.
	Background *leaves.Color

	// Seeded makes the run reproducible from Seed.
	Seeded bool
	Seed   uint64

	// Jobs is the number of frames rendered concurrently, each on its own
	// surface. Values below 1 mean 1.
	Jobs int

	// Progress, if set, is called after each frame is written. It may be
	// called from several goroutines.
	Progress func(index int)
}

// Run renders frames [0, frames) and writes each to the sink. The first
// failing frame cancels the run; frames already written stay written.
func (p *Pipeline) Run(ctx context.Context, frames int) (Stats, error) {
	if p.Generator == nil {
		return Stats{}, errors.New("render: pipeline has no generator")
	}
	if p.Sink == nil {
		return Stats{}, errors.New("render: pipeline has no sink")
	}
	if frames <= 0 {
		return Stats{}, fmt.Errorf("%w: frame count must be > 0, got %d", leaves.ErrInvalidParameter, frames)
	}

	jobs := max(p.Jobs, 1)
	jobs = min(jobs, frames)
	base := p.Seed
	if !p.Seeded {
		base = rand.Uint64()
	}

	log := leaves.Logger()
	log.Info("render: run started",
		"frames", frames, "width", p.Generator.Width(), "disks", p.Generator.Count(),
		"backend", p.Backend, "jobs", jobs)

	start := time.Now()
	results := make([]workerStats, jobs)
	indices := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(indices)
		for k := range frames {
			select {
			case indices <- k:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := range jobs {
		g.Go(func() error {
			return p.work(gctx, base, indices, &results[w])
		})
	}
	err := g.Wait()

	stats := Stats{Elapsed: time.Since(start)}
	for _, r := range results {
		stats.Frames += r.frames
		stats.Disks += r.disks
		if r.backend != "" {
			stats.Backend = r.backend
		}
	}
	if err != nil {
		log.Warn("render: run failed", "frames", stats.Frames, "err", err)
		return stats, err
	}
	log.Info("render: run finished", "frames", stats.Frames, "elapsed", stats.Elapsed)
	return stats, nil
}

type workerStats struct {
	frames  int
	disks   int
	backend string
}

// work renders frames from indices on one private surface.
func (p *Pipeline) work(ctx context.Context, base uint64, indices <-chan int, st *workerStats) (err error) {
	s, err := p.openSurface()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			leaves.Logger().Warn("render: surface close failed", "err", cerr)
		}
	}()
	st.backend = s.Name()

	bg := leaves.White
	if p.Background != nil {
		bg = *p.Background
	}
	c := NewCompositor(s, WithBackground(bg))
	for k := range indices {
		src := leaves.NewSource(leaves.FrameSeed(base, k))
		f, err := c.ComposeSeq(ctx, p.Generator.Disks(src))
		if err != nil {
			return fmt.Errorf("render: frame %d: %w", k, err)
		}
		if err := p.Sink.WriteFrame(ctx, k, f); err != nil {
			return fmt.Errorf("render: frame %d: %w", k, err)
		}
		st.frames++
		st.disks += c.Painted()
		if p.Progress != nil {
			p.Progress(k)
		}
	}
	return nil
}

func (p *Pipeline) openSurface() (surface.Surface, error) {
	opts := p.Surface
	opts.Width = p.Generator.Width()
	if p.Backend == "" {
		return surface.NewSurface(opts)
	}
	return surface.Open(p.Backend, opts)
}
