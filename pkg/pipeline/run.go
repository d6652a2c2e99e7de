package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run starts the sampler and the transmitter and waits for both. When the
// sampler finishes, the queue is closed so the transmitter drains what is left.
// The first error cancels the other task.
func Run(ctx context.Context, s *Sampler, t *Transmitter) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer s.emitter.Queue().Close()
		return s.Run(ctx)
	})
	g.Go(func() error {
		return t.Run(ctx)
	})

	return g.Wait()
}
