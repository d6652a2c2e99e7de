// Package pipeline wires the sampling task and the transmission task together
// through a bounded hand-off queue.
package pipeline

import (
	"context"
	"errors"
	"sync"
)

// DefaultQueueCapacity is the reference hand-off queue depth.
const DefaultQueueCapacity = 4

// ErrQueueClosed is returned by Receive once the queue is closed and drained.
var ErrQueueClosed = errors.New("queue closed")

// Queue is a bounded FIFO of encoded measurement frames with one producer and
// one consumer. Both ends block: Send while the queue is full, Receive while
// it is empty.
type Queue struct {
	frames    chan []byte
	closeOnce sync.Once
}

// NewQueue creates a queue holding up to capacity frames.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{frames: make(chan []byte, capacity)}
}

// Send enqueues frame, waiting for space. Only the producer may call Send,
// and never after Close.
func (q *Queue) Send(ctx context.Context, frame []byte) error {
	select {
	case q.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive dequeues the oldest frame, waiting until one is available.
func (q *Queue) Receive(ctx context.Context) ([]byte, error) {
	select {
	case frame, ok := <-q.frames:
		if !ok {
			return nil, ErrQueueClosed
		}
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close marks the end of the stream. Frames already queued remain receivable.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.frames)
	})
}

// Len returns the number of queued frames.
func (q *Queue) Len() int { return len(q.frames) }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return cap(q.frames) }
