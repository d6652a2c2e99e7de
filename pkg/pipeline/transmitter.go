package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/itohio/gopulse/pkg/metrics"
	"github.com/itohio/gopulse/pkg/record"
)

// TransmitterOption configures a Transmitter.
type TransmitterOption func(*Transmitter)

// WithTransmitLogger sets the transmitter logger.
func WithTransmitLogger(l *slog.Logger) TransmitterOption {
	return func(t *Transmitter) { t.log = l }
}

// WithTransmitMetrics sets the transmitter metrics.
func WithTransmitMetrics(m *metrics.Metrics) TransmitterOption {
	return func(t *Transmitter) { t.metrics = m }
}

// Transmitter is the delivery task. Every frame is written with a single
// Write call; failed writes are logged and the frame is dropped.
type Transmitter struct {
	queue   *Queue
	w       io.Writer
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewTransmitter creates a task draining q into w.
func NewTransmitter(q *Queue, w io.Writer, opts ...TransmitterOption) *Transmitter {
	t := &Transmitter{queue: q, w: w}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	return t
}

// Run transmits frames until the queue is closed and drained (returns nil)
// or the context is done.
func (t *Transmitter) Run(ctx context.Context) error {
	for {
		frame, err := t.queue.Receive(ctx)
		if errors.Is(err, ErrQueueClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		t.metrics.SetQueueDepth(t.queue.Len())
		t.transmit(frame)
	}
}

func (t *Transmitter) transmit(frame []byte) {
	n, err := t.w.Write(frame)
	if err == nil && n < len(frame) {
		err = io.ErrShortWrite
	}
	if err != nil {
		t.metrics.TransmitFailed()
		t.log.Error("transmit failed", slog.Any("err", err))
		return
	}
	t.metrics.FrameSent()

	format := record.Compact
	if len(frame) == record.ExtendedSize {
		format = record.Extended
	}
	if m, err := record.Decode(frame, format); err == nil {
		t.log.Debug("sent",
			slog.Float64("frequency_hz", float64(m.Frequency)),
			slog.Float64("amplitude_v", float64(m.Amplitude)),
		)
	}
}
