package pipeline

import (
	"context"

	"github.com/itohio/gopulse/pkg/record"
)

// Emitter serializes measurements and places them on the hand-off queue.
type Emitter struct {
	queue  *Queue
	format record.Format
}

// NewEmitter creates an emitter writing frames in format f to q.
func NewEmitter(q *Queue, f record.Format) *Emitter {
	return &Emitter{queue: q, format: f}
}

// Emit encodes m and enqueues it. It blocks while the queue is full.
func (e *Emitter) Emit(ctx context.Context, m record.Measurement) error {
	return e.queue.Send(ctx, record.Encode(nil, m, e.format))
}

// Queue returns the destination queue.
func (e *Emitter) Queue() *Queue { return e.queue }
