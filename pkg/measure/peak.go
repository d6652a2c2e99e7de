package measure

import "time"

// IsPeak reports whether v lies above 3/4 of the observed range [min, max].
// The threshold is computed with integer arithmetic: min + floor((max-min)*3/4).
func IsPeak(v, min, max uint16) bool {
	if max < min {
		return false
	}
	span := uint32(max - min)
	threshold := uint32(min) + span*ThresholdNumerator/ThresholdDenominator
	return uint32(v) > threshold
}

// PeakDetector applies IsPeak and remembers when the last peak happened.
type PeakDetector struct {
	minSeparation time.Duration

	last    time.Duration
	hasLast bool
	count   uint64
}

// NewPeakDetector creates a detector. A positive minSeparation suppresses
// peaks that follow the previous one too closely.
func NewPeakDetector(minSeparation time.Duration) *PeakDetector {
	return &PeakDetector{minSeparation: minSeparation}
}

// Observe evaluates one sample taken at now. When the sample is a peak it
// returns true and the interval since the previous peak (zero for the first).
func (d *PeakDetector) Observe(v, min, max uint16, now time.Duration) (time.Duration, bool) {
	if !IsPeak(v, min, max) {
		return 0, false
	}
	if d.minSeparation > 0 && d.hasLast && now-d.last < d.minSeparation {
		return 0, false
	}

	var interval time.Duration
	if d.hasLast {
		interval = now - d.last
	}
	d.last = now
	d.hasLast = true
	d.count++
	return interval, true
}

// LastPeak returns the timestamp of the most recent peak.
func (d *PeakDetector) LastPeak() (time.Duration, bool) {
	return d.last, d.hasLast
}

// Count returns the number of peaks seen so far.
func (d *PeakDetector) Count() uint64 {
	return d.count
}
