package link

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/itohio/gopulse/pkg/metrics"
	"github.com/itohio/gopulse/pkg/record"
)

// DefaultBufferSize is the default size for the measurements channel buffer.
const DefaultBufferSize = 16

// ReceiverOption configures a Receiver.
type ReceiverOption func(*Receiver)

// WithReceiverLogger sets the receiver logger.
func WithReceiverLogger(l *slog.Logger) ReceiverOption {
	return func(r *Receiver) { r.log = l }
}

// WithReceiverMetrics sets the receiver metrics.
func WithReceiverMetrics(m *metrics.Metrics) ReceiverOption {
	return func(r *Receiver) { r.metrics = m }
}

// WithBufferSize sets the capacity of the measurements channel.
func WithBufferSize(n int) ReceiverOption {
	return func(r *Receiver) { r.bufSize = n }
}

// Receiver decodes a stream of fixed-size frames into measurements.
// The stream has no framing, so the receiver relies on reading exactly one
// frame size at a time from the start of the stream. Rejecting NaN and Inf
// fields is only a heuristic: most misaligned frames still decode to finite
// values, and a rejected frame does not move the frame boundary.
type Receiver struct {
	r       io.Reader
	format  record.Format
	bufSize int
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewReceiver creates a receiver reading frames in format f from r.
func NewReceiver(r io.Reader, f record.Format, opts ...ReceiverOption) *Receiver {
	rc := &Receiver{
		r:       r,
		format:  f,
		bufSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.log == nil {
		rc.log = slog.Default()
	}
	if rc.bufSize <= 0 {
		rc.bufSize = DefaultBufferSize
	}
	return rc
}

// Measurements starts reading in a goroutine and returns the output channel.
// The channel is closed when the stream ends, fails, or ctx is done.
// Frames with NaN or Inf fields are dropped whole.
func (rc *Receiver) Measurements(ctx context.Context) <-chan record.Measurement {
	out := make(chan record.Measurement, rc.bufSize)

	go func() {
		defer close(out)

		frame := make([]byte, rc.format.Size())
		for {
			if ctx.Err() != nil {
				return
			}
			if _, err := io.ReadFull(rc.r, frame); err != nil {
				if !errors.Is(err, io.EOF) {
					rc.log.Error("failed to read frame", slog.Any("err", err))
				}
				return
			}

			m, err := record.Decode(frame, rc.format)
			if err == nil {
				err = m.Validate()
			}
			if err != nil {
				rc.metrics.FrameDropped()
				rc.log.Warn("dropping frame", slog.Any("err", err))
				continue
			}
			rc.metrics.FrameReceived(m)

			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
