// Package measure implements the real-time sample processing core: the window
// accumulator, the adaptive-threshold peak detector, the frequency estimator
// and the per-window metrics (FWHM and amplitude).
//
// Everything in this package is single-owner state. A State must only be used
// from the goroutine that feeds it samples.
package measure

import (
	"fmt"
	"time"
)

const (
	// DefaultSampleRate is the reference ADC rate in samples per second.
	DefaultSampleRate = 500_000
	// DefaultWindowSize is the number of samples per acquisition window.
	DefaultWindowSize = 2048
	// DefaultVRef is the ADC reference voltage in volts.
	DefaultVRef = 3.3
	// DefaultFullScale is the full-scale code of the 12-bit ADC.
	DefaultFullScale = 4095

	// ThresholdNumerator and ThresholdDenominator set the peak threshold at
	// 3/4 of the observed dynamic range.
	ThresholdNumerator   = 3
	ThresholdDenominator = 4
)

// AmplitudeMode selects how the window amplitude is derived from min/max.
type AmplitudeMode int

const (
	// Peak scales the window maximum.
	Peak AmplitudeMode = iota
	// PeakToPeak scales max-min.
	PeakToPeak
)

func (m AmplitudeMode) String() string {
	switch m {
	case Peak:
		return "peak"
	case PeakToPeak:
		return "peak_to_peak"
	default:
		return fmt.Sprintf("AmplitudeMode(%d)", int(m))
	}
}

// ParseAmplitudeMode parses "peak" or "peak_to_peak". Empty means Peak.
func ParseAmplitudeMode(s string) (AmplitudeMode, error) {
	switch s {
	case "", "peak":
		return Peak, nil
	case "peak_to_peak":
		return PeakToPeak, nil
	default:
		return Peak, fmt.Errorf("unknown amplitude mode %q", s)
	}
}

// Params holds the fixed processing parameters.
type Params struct {
	SampleRate    int     // Samples per second
	WindowSize    int     // Samples per window (ring buffer capacity)
	VRef          float64 // ADC reference voltage (V)
	FullScale     uint16  // ADC code corresponding to VRef
	AmplitudeMode AmplitudeMode

	// MinPeakSeparation ignores peaks closer than this to the previous one.
	// Zero disables the gate and every above-threshold sample is a peak.
	MinPeakSeparation time.Duration

	// ClearOnReset zeroes the sample buffer between windows.
	ClearOnReset bool
}

// DefaultParams returns the reference configuration.
func DefaultParams() Params {
	return Params{
		SampleRate:    DefaultSampleRate,
		WindowSize:    DefaultWindowSize,
		VRef:          DefaultVRef,
		FullScale:     DefaultFullScale,
		AmplitudeMode: Peak,
	}
}

// WindowDuration is the time covered by one full window.
func (p Params) WindowDuration() time.Duration {
	return time.Duration(int64(p.WindowSize) * int64(time.Second) / int64(p.SampleRate))
}

// SamplePeriod is the nominal time between two samples.
func (p Params) SamplePeriod() time.Duration {
	return time.Second / time.Duration(p.SampleRate)
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.SampleRate <= 0 {
		p.SampleRate = def.SampleRate
	}
	if p.WindowSize <= 0 {
		p.WindowSize = def.WindowSize
	}
	if p.VRef <= 0 {
		p.VRef = def.VRef
	}
	if p.FullScale == 0 {
		p.FullScale = def.FullScale
	}
	return p
}
