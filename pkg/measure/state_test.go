package measure

import (
	"testing"
	"time"

	"github.com/itohio/gopulse/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func TestNew_Defaults(t *testing.T) {
	s := New(Params{})

	assert.Equal(t, DefaultParams(), s.Params())
	assert.Equal(t, DefaultWindowSize, s.Window().Cap())
	assert.Zero(t, s.Frequency())
	assert.Zero(t, s.Elapsed())
}

func TestState_ConstantFullScaleWindow(t *testing.T) {
	s := New(DefaultParams())

	for i := range DefaultWindowSize {
		s.ProcessSample(4095)
		if i < DefaultWindowSize-1 {
			require.False(t, s.BufferFull(), "sample %d", i)
		}
	}
	require.True(t, s.BufferFull())

	m := s.Metrics()
	assert.Equal(t, uint16(4095), s.Window().Max())
	assert.Equal(t, uint16(4095), s.Window().Min())
	assert.InDelta(t, 3.3, m.Amplitude, 1e-6)
	assert.InDelta(t, 4094.0, m.FWHM, 1e-3)
	assert.Zero(t, m.Frequency, "flat signal has no peaks")
	assert.Zero(t, s.Peaks())
}

func TestState_TwoPeaksFrequency(t *testing.T) {
	clk := &fakeClock{}
	s := New(DefaultParams(), WithClock(clk))

	s.ProcessSample(0)
	clk.now = 10 * time.Microsecond
	s.ProcessSample(4000)
	assert.Zero(t, s.Frequency(), "single peak leaves the initial estimate")
	assert.Equal(t, uint64(1), s.Peaks())

	clk.now = 20 * time.Microsecond
	s.ProcessSample(0)
	clk.now = 260 * time.Microsecond
	s.ProcessSample(4000)

	assert.InDelta(t, 1/250e-6, s.Frequency(), 1e-6)
}

func TestState_SamePeakTimestampKeepsEstimate(t *testing.T) {
	clk := &fakeClock{}
	s := New(DefaultParams(), WithClock(clk))

	s.ProcessSample(0)
	clk.now = time.Millisecond
	s.ProcessSample(4000)
	clk.now = 2 * time.Millisecond
	s.ProcessSample(4000)
	require.InDelta(t, 1000.0, s.Frequency(), 1e-9)

	// zero elapsed time between peaks must not divide by zero
	s.ProcessSample(4000)
	assert.InDelta(t, 1000.0, s.Frequency(), 1e-9)
}

func spikeTrain(n, period, width int, high uint16) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		if i%period < width {
			out[i] = high
		}
	}
	return out
}

func TestState_SampleClockSpikeTrain(t *testing.T) {
	s := New(DefaultParams())

	// spikes every 100 samples at 500 kS/s: 200 µs period
	for _, v := range spikeTrain(DefaultWindowSize, 100, 1, 4000) {
		s.ProcessSample(v)
	}

	require.True(t, s.BufferFull())
	assert.InDelta(t, 5000.0, s.Frequency(), 1e-6)
}

func TestState_SkipKeepsSampleClock(t *testing.T) {
	p := DefaultParams()
	s := New(p)

	for i, v := range spikeTrain(250, 100, 1, 4000) {
		if i == 150 {
			s.Skip()
			continue
		}
		s.ProcessSample(v)
	}

	period := 100 * p.SamplePeriod()
	assert.Equal(t, 200*time.Microsecond, period)
	assert.InDelta(t, 1/period.Seconds(), s.Frequency(), 1e-6)
	assert.Equal(t, uint64(249), s.Samples())
	assert.Equal(t, uint64(1), s.Skipped())
	assert.Equal(t, 249, s.Window().Position())
}

func TestState_WidePulsesTrackSampleRateWithoutGate(t *testing.T) {
	s := New(DefaultParams())
	for _, v := range spikeTrain(1000, 100, 5, 4000) {
		s.ProcessSample(v)
	}
	// each above-threshold sample is a peak, so the last interval is one sample
	assert.InDelta(t, float64(DefaultSampleRate), s.Frequency(), 1e-6)
}

func TestState_MinPeakSeparation(t *testing.T) {
	p := DefaultParams()
	p.MinPeakSeparation = 100 * time.Microsecond
	s := New(p)

	for _, v := range spikeTrain(1000, 100, 5, 4000) {
		s.ProcessSample(v)
	}
	assert.InDelta(t, 5000.0, s.Frequency(), 1e-6)
}

func TestState_ResetAdvancesElapsed(t *testing.T) {
	p := DefaultParams()
	s := New(p)

	for range 3 * p.WindowSize {
		s.ProcessSample(1000)
		if s.BufferFull() {
			s.Reset()
		}
	}

	assert.Equal(t, 3*p.WindowDuration(), s.Elapsed())
	assert.Equal(t, 4096*time.Microsecond, p.WindowDuration())
	assert.Equal(t, uint64(3*p.WindowSize), s.Samples())
}

func TestState_ResetRestartsMinMaxOnly(t *testing.T) {
	p := DefaultParams()
	p.WindowSize = 8
	s := New(p)

	for _, v := range []uint16{1, 2, 3, 4, 5, 6, 7, 8} {
		s.ProcessSample(v)
	}
	require.True(t, s.BufferFull())
	s.Reset()

	s.ProcessSample(100)
	assert.Equal(t, uint16(100), s.Window().Min())
	assert.Equal(t, uint16(100), s.Window().Max())
	assert.Equal(t, []uint16{100, 2, 3, 4, 5, 6, 7, 8}, s.Window().Samples())
}

func TestState_PeakToPeakAmplitude(t *testing.T) {
	p := DefaultParams()
	p.WindowSize = 4
	p.AmplitudeMode = PeakToPeak
	s := New(p)

	for _, v := range []uint16{1000, 3000, 2000, 1500} {
		s.ProcessSample(v)
	}

	assert.InDelta(t, 2000*3.3/4095.0, s.Metrics().Amplitude, 1e-6)
}

func TestState_DeterministicReplay(t *testing.T) {
	input := spikeTrain(3*DefaultWindowSize, 137, 9, 3900)
	for i := range input {
		input[i] += uint16(i % 13) // low-level texture
	}

	run := func() []record.Measurement {
		s := New(DefaultParams())
		var out []record.Measurement
		for _, v := range input {
			s.ProcessSample(v)
			if s.BufferFull() {
				out = append(out, s.Metrics())
				s.Reset()
			}
		}
		return out
	}

	first := run()
	second := run()
	require.Len(t, first, 3)
	assert.Equal(t, first, second)
}
