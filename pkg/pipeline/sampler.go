package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/itohio/gopulse/pkg/measure"
	"github.com/itohio/gopulse/pkg/metrics"
	"github.com/itohio/gopulse/pkg/source"
)

// ErrorPolicy decides what the sampler does after a failed read.
type ErrorPolicy int

const (
	// Abort stops the sampler and returns the acquisition error.
	Abort ErrorPolicy = iota
	// Skip logs the failure, drops the sample and keeps going.
	Skip
)

// ParseErrorPolicy parses "abort" or "skip". Empty means Abort.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "", "abort":
		return Abort, nil
	case "skip":
		return Skip, nil
	default:
		return Abort, fmt.Errorf("unknown acquisition error policy %q", s)
	}
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithPacing sleeps d after every sample.
func WithPacing(d time.Duration) SamplerOption {
	return func(s *Sampler) { s.pacing = d }
}

// WithErrorPolicy sets the reaction to acquisition failures.
func WithErrorPolicy(p ErrorPolicy) SamplerOption {
	return func(s *Sampler) { s.policy = p }
}

// WithLogger sets the sampler logger.
func WithLogger(l *slog.Logger) SamplerOption {
	return func(s *Sampler) { s.log = l }
}

// WithMetrics sets the sampler metrics.
func WithMetrics(m *metrics.Metrics) SamplerOption {
	return func(s *Sampler) { s.metrics = m }
}

// Sampler is the acquisition task. It owns the measurement state exclusively.
type Sampler struct {
	source  source.Source
	state   *measure.State
	emitter *Emitter

	pacing  time.Duration
	policy  ErrorPolicy
	log     *slog.Logger
	metrics *metrics.Metrics

	// counters at the previous window boundary
	lastSamples uint64
	lastPeaks   uint64
}

// NewSampler creates the acquisition task.
func NewSampler(src source.Source, state *measure.State, emitter *Emitter, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		source:  src,
		state:   state,
		emitter: emitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Step reads and processes one sample, emitting a measurement when the window
// completes. Read failures are returned as *source.AcquisitionError; the end of
// the source is io.EOF.
func (s *Sampler) Step(ctx context.Context) error {
	v, err := s.source.Read(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		s.metrics.AcquisitionFailed()
		return &source.AcquisitionError{Sample: s.state.Samples(), Err: err}
	}

	s.state.ProcessSample(v)
	if !s.state.BufferFull() {
		return nil
	}

	m := s.state.Metrics()
	s.metrics.ObserveWindow(m)
	s.flushCounters()

	s.log.Debug("window complete",
		slog.Float64("fwhm_us", float64(m.FWHM)),
		slog.Float64("amplitude_v", float64(m.Amplitude)),
		slog.Float64("frequency_hz", float64(m.Frequency)),
		slog.Duration("elapsed", s.state.Elapsed()),
	)

	if err := s.emitter.Emit(ctx, m); err != nil {
		return err
	}
	s.metrics.SetQueueDepth(s.emitter.Queue().Len())
	s.state.Reset()
	return nil
}

// flushCounters reports samples and peaks since the previous flush.
func (s *Sampler) flushCounters() {
	samples, peaks := s.state.Samples(), s.state.Peaks()
	s.metrics.ObserveSamples(samples-s.lastSamples, peaks-s.lastPeaks)
	s.lastSamples, s.lastPeaks = samples, peaks
}

// Run processes samples until the source is exhausted (returns nil), the
// context is done, or an acquisition failure occurs under the Abort policy.
// A failed read skipped under the Skip policy still advances the sample clock.
func (s *Sampler) Run(ctx context.Context) error {
	defer s.flushCounters()

	var timer *time.Timer
	if s.pacing > 0 {
		timer = time.NewTimer(s.pacing)
		defer timer.Stop()
	}

	for {
		err := s.Step(ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			s.log.Info("sample source exhausted", slog.Uint64("samples", s.state.Samples()))
			return nil
		case errors.Is(err, source.ErrAcquisition) && s.policy == Skip:
			s.log.Warn("skipping failed sample", slog.Any("err", err))
			s.state.Skip()
		default:
			return err
		}

		if timer != nil {
			timer.Reset(s.pacing)
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// State returns the measurement state owned by the sampler.
func (s *Sampler) State() *measure.State { return s.state }
