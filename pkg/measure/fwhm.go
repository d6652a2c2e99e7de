package measure

// HalfMaxBounds returns the outermost indices whose samples are at or above
// half of the buffer maximum. The scans stop when they meet, so a buffer that
// never crosses half maximum yields left == right.
func HalfMaxBounds(buf []uint16) (left, right int) {
	if len(buf) == 0 {
		return 0, 0
	}

	var peak uint16
	for _, v := range buf {
		if v > peak {
			peak = v
		}
	}
	half := peak / 2

	right = len(buf) - 1
	for left < right && buf[left] < half {
		left++
	}
	for right > left && buf[right] < half {
		right--
	}
	return left, right
}

// FWHM returns the full width at half maximum of buf in microseconds.
// A buffer without signal (all zero) has zero width.
func FWHM(buf []uint16, sampleRate int) float32 {
	if sampleRate <= 0 || !hasSignal(buf) {
		return 0
	}
	left, right := HalfMaxBounds(buf)
	return float32(float64(right-left) * 1e6 / float64(sampleRate))
}

// Amplitude converts the tracked min/max to volts according to mode.
func Amplitude(min, max uint16, p Params) float32 {
	if max < min {
		// nothing observed since reset
		return 0
	}
	code := max
	if p.AmplitudeMode == PeakToPeak {
		code = max - min
	}
	return float32(float64(code) * p.VRef / float64(p.FullScale))
}

func hasSignal(buf []uint16) bool {
	for _, v := range buf {
		if v != 0 {
			return true
		}
	}
	return false
}
