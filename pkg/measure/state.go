package measure

import (
	"time"

	"github.com/itohio/gopulse/pkg/record"
)

// Clock returns the time elapsed since acquisition started.
type Clock interface {
	Now() time.Duration
}

type wallClock struct {
	start time.Time
}

// WallClock returns a Clock backed by the monotonic system clock.
func WallClock() Clock {
	return wallClock{start: time.Now()}
}

func (c wallClock) Now() time.Duration { return time.Since(c.start) }

// Option configures a State.
type Option func(*State)

// WithClock timestamps peaks with c instead of the sample counter.
func WithClock(c Clock) Option {
	return func(s *State) {
		s.clock = c
	}
}

// State aggregates everything the sampling loop owns: the window, the peak
// detector, the frequency estimate and the elapsed time counter.
type State struct {
	params    Params
	window    *Window
	detector  *PeakDetector
	estimator FrequencyEstimator
	clock     Clock // nil means timestamps derive from the sample count

	samples uint64
	skipped uint64 // dropped reads, still counted by the sample clock
	elapsed time.Duration
}

// New creates a measurement state. Zero fields of p take their defaults.
func New(p Params, opts ...Option) *State {
	p = p.withDefaults()
	s := &State{
		params:   p,
		window:   NewWindow(p.WindowSize),
		detector: NewPeakDetector(p.MinPeakSeparation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessSample appends v to the window and runs peak detection on it.
func (s *State) ProcessSample(v uint16) {
	now := s.now()
	s.samples++

	s.window.Push(v)
	if interval, ok := s.detector.Observe(v, s.window.Min(), s.window.Max(), now); ok {
		s.estimator.Update(interval)
	}
}

// Skip accounts for a sample period whose read was dropped. The window is
// untouched, but the sample clock advances so later peak timestamps stay on
// the acquisition timeline.
func (s *State) Skip() {
	s.skipped++
}

// BufferFull reports window completion, true right after the buffer wraps.
func (s *State) BufferFull() bool {
	return s.window.Full()
}

// Metrics computes the measurement for the current window contents.
func (s *State) Metrics() record.Measurement {
	return record.Measurement{
		FWHM:      FWHM(s.window.Samples(), s.params.SampleRate),
		Amplitude: Amplitude(s.window.Min(), s.window.Max(), s.params),
		Frequency: float32(s.estimator.Frequency()),
	}
}

// Reset starts a new window: min/max tracking restarts and the elapsed time
// advances by one window duration. Peak timing state is kept.
func (s *State) Reset() {
	s.window.Reset(s.params.ClearOnReset)
	s.elapsed += s.params.WindowDuration()
}

// Elapsed returns the accumulated duration of completed windows.
func (s *State) Elapsed() time.Duration { return s.elapsed }

// Samples returns the number of samples processed.
func (s *State) Samples() uint64 { return s.samples }

// Skipped returns the number of dropped sample periods.
func (s *State) Skipped() uint64 { return s.skipped }

// Peaks returns the number of peaks detected.
func (s *State) Peaks() uint64 { return s.detector.Count() }

// Frequency returns the current frequency estimate in Hz.
func (s *State) Frequency() float64 { return s.estimator.Frequency() }

// Window exposes the underlying accumulator for inspection.
func (s *State) Window() *Window { return s.window }

// Params returns the effective parameters.
func (s *State) Params() Params { return s.params }

func (s *State) now() time.Duration {
	if s.clock != nil {
		return s.clock.Now()
	}
	rate := uint64(s.params.SampleRate)
	ticks := s.samples + s.skipped
	whole := ticks / rate
	frac := ticks % rate
	return time.Duration(whole)*time.Second + time.Duration(frac*uint64(time.Second)/rate)
}
