package source

import (
	"context"
	"io"
)

// Slice replays samples from memory and returns io.EOF when exhausted.
type Slice struct {
	samples []uint16
	pos     int
}

// NewSlice creates a source over samples. The slice is not copied.
func NewSlice(samples []uint16) *Slice {
	return &Slice{samples: samples}
}

// Read returns the next sample.
func (s *Slice) Read(ctx context.Context) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	v := s.samples[s.pos]
	s.pos++
	return v, nil
}
