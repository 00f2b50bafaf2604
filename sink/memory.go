package sink

import (
	"context"
	"slices"
	"sync"

	"github.com/gogpu/leaves"
)

// MemorySink collects frames by index.
type MemorySink struct {
	mu     sync.Mutex
	frames map[int]*leaves.Frame
}

var _ FrameSink = (*MemorySink)(nil)

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{frames: make(map[int]*leaves.Frame)}
}

// WriteFrame stores f under index, replacing any earlier frame.
func (s *MemorySink) WriteFrame(ctx context.Context, index int, f *leaves.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames == nil {
		s.frames = make(map[int]*leaves.Frame)
	}
	s.frames[index] = f
	return nil
}

// Len returns the number of stored frames.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Frame returns the frame stored under index.
func (s *MemorySink) Frame(index int) (*leaves.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.frames[index]
	return f, ok
}

// Frames returns the stored frames ordered by index.
func (s *MemorySink) Frames() []*leaves.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]int, 0, len(s.frames))
	for k := range s.frames {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]*leaves.Frame, len(keys))
	for i, k := range keys {
		out[i] = s.frames[k]
	}
	return out
}
