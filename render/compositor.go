// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"
	"iter"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/surface"
)

// cancelCheckInterval is how many streamed disks are painted between
// context checks.
const cancelCheckInterval = 1024

// Compositor paints disk batches onto a surface, one frame at a time.
//
// Thread Safety: a Compositor is NOT thread-safe, like the surface it
// drives.
type Compositor struct {
	surface    surface.Surface
	background leaves.Color
	state      leaves.FrameState
	painted    int
}

// CompositorOption configures a Compositor.
type CompositorOption func(*Compositor)

// WithBackground sets the background color. The default is leaves.White.
func WithBackground(c leaves.Color) CompositorOption {
	return func(cp *Compositor) {
		cp.background = c
	}
}

// NewCompositor returns a compositor over s. The compositor does not own
// s; the caller closes it.
func NewCompositor(s surface.Surface, opts ...CompositorOption) *Compositor {
	c := &Compositor{surface: s, background: leaves.White}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Surface returns the underlying surface.
func (c *Compositor) Surface() surface.Surface { return c.surface }

// Background returns the background color.
func (c *Compositor) Background() leaves.Color { return c.background }

// State returns the lifecycle stage of the current frame.
func (c *Compositor) State() leaves.FrameState { return c.state }

// Painted returns the number of disks painted into the current frame.
func (c *Compositor) Painted() int { return c.painted }

// Begin starts a frame: the surface is cleared to the background and the
// compositor moves to StateInitialized. Begin is legal on a fresh
// compositor and after Finish.
func (c *Compositor) Begin() error {
	if c.state != leaves.StateEmpty && c.state != leaves.StateFinalized {
		return fmt.Errorf("%w: begin in state %s", leaves.ErrInvalidState, c.state)
	}
	c.state = leaves.StateEmpty
	c.painted = 0
	if err := c.surface.Clear(c.background); err != nil {
		return fmt.Errorf("render: clear: %w", err)
	}
	c.state = leaves.StateInitialized
	return nil
}

// Paint applies batch in order over the current frame.
func (c *Compositor) Paint(batch leaves.Batch) error {
	if err := c.checkPaint(); err != nil {
		return err
	}
	if err := c.surface.DrawDisks(batch); err != nil {
		return c.fail(fmt.Errorf("render: draw: %w", err))
	}
	c.painted += len(batch)
	c.state = leaves.StatePainting
	return nil
}

// PaintSeq applies disks from seq as they are produced, without
// materializing the batch. It stops early when ctx is canceled.
func (c *Compositor) PaintSeq(ctx context.Context, seq iter.Seq[leaves.Disk]) error {
	if err := c.checkPaint(); err != nil {
		return err
	}
	c.state = leaves.StatePainting
	n := 0
	for d := range seq {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return c.fail(err)
			}
		}
		if err := c.surface.DrawDisk(d); err != nil {
			return c.fail(fmt.Errorf("render: draw: %w", err))
		}
		n++
		c.painted++
	}
	return nil
}

// Finish finalizes the frame and returns it. The compositor moves to
// StateFinalized; a further Begin starts the next frame.
func (c *Compositor) Finish() (*leaves.Frame, error) {
	if c.state != leaves.StateInitialized && c.state != leaves.StatePainting {
		return nil, fmt.Errorf("%w: finish in state %s", leaves.ErrInvalidState, c.state)
	}
	f, err := c.surface.Snapshot()
	if err != nil {
		return nil, c.fail(fmt.Errorf("render: snapshot: %w", err))
	}
	c.state = leaves.StateFinalized
	leaves.Logger().Debug("render: frame finalized", "backend", c.surface.Name(), "disks", c.painted)
	return f, nil
}

// Compose renders batch onto a fresh frame over the background.
// An empty batch yields a frame of pure background.
func (c *Compositor) Compose(ctx context.Context, batch leaves.Batch) (*leaves.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Begin(); err != nil {
		return nil, err
	}
	if err := c.Paint(batch); err != nil {
		return nil, err
	}
	return c.Finish()
}

// ComposeSeq is Compose for a lazy disk sequence.
func (c *Compositor) ComposeSeq(ctx context.Context, seq iter.Seq[leaves.Disk]) (*leaves.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Begin(); err != nil {
		return nil, err
	}
	if err := c.PaintSeq(ctx, seq); err != nil {
		return nil, err
	}
	return c.Finish()
}

func (c *Compositor) checkPaint() error {
	if c.state != leaves.StateInitialized && c.state != leaves.StatePainting {
		return fmt.Errorf("%w: paint in state %s", leaves.ErrInvalidState, c.state)
	}
	return nil
}

// fail abandons the current frame. The compositor returns to StateEmpty
// so the next Begin starts over.
func (c *Compositor) fail(err error) error {
	c.state = leaves.StateEmpty
	c.painted = 0
	return err
}
