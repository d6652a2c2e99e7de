package measure

import "time"

// FrequencyEstimator holds the instantaneous peak repetition frequency.
type FrequencyEstimator struct {
	hz float64
}

// Update replaces the estimate with 1/interval. Non-positive intervals keep
// the previous value.
func (e *FrequencyEstimator) Update(interval time.Duration) {
	if interval <= 0 {
		return
	}
	e.hz = 1 / interval.Seconds()
}

// Frequency returns the current estimate in Hz. It is zero until two peaks
// have been observed.
func (e *FrequencyEstimator) Frequency() float64 {
	return e.hz
}
