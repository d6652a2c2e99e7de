// Package stats summarizes the most recent measurements seen by the host.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/itohio/gopulse/pkg/record"
)

// DefaultHistory is the number of measurements kept when none is given.
const DefaultHistory = 256

// Field summarizes one measurement field.
type Field struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary summarizes the measurements currently held by a History.
type Summary struct {
	Count     int
	Frequency Field
	Amplitude Field
	FWHM      Field
}

// History is a bounded ring of the last measurements. Not safe for concurrent use.
type History struct {
	freq []float64
	amp  []float64
	fwhm []float64
	pos  int
	n    int
}

// NewHistory creates a history holding at most size measurements.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistory
	}
	return &History{
		freq: make([]float64, size),
		amp:  make([]float64, size),
		fwhm: make([]float64, size),
	}
}

// Add records m, evicting the oldest measurement when full.
func (h *History) Add(m record.Measurement) {
	h.freq[h.pos] = float64(m.Frequency)
	h.amp[h.pos] = float64(m.Amplitude)
	h.fwhm[h.pos] = float64(m.FWHM)
	h.pos = (h.pos + 1) % len(h.freq)
	if h.n < len(h.freq) {
		h.n++
	}
}

// Len returns the number of measurements held.
func (h *History) Len() int { return h.n }

// Cap returns the maximum number of measurements held.
func (h *History) Cap() int { return len(h.freq) }

// Reset drops all measurements.
func (h *History) Reset() {
	h.pos = 0
	h.n = 0
}

// Summary computes statistics over the held measurements.
// Order does not matter for any of the statistics, so the ring is used as is.
func (h *History) Summary() Summary {
	if h.n == 0 {
		return Summary{}
	}
	return Summary{
		Count:     h.n,
		Frequency: summarize(h.freq[:h.n]),
		Amplitude: summarize(h.amp[:h.n]),
		FWHM:      summarize(h.fwhm[:h.n]),
	}
}

func summarize(x []float64) Field {
	mean, std := stat.MeanStdDev(x, nil)
	if len(x) < 2 {
		std = 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return Field{Mean: mean, StdDev: std, Min: lo, Max: hi}
}
