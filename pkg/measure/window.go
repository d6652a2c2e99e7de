package measure

import "math"

// Window is a fixed-capacity ring buffer of samples with running min/max.
//
// Min and Max track every sample pushed since the last Reset, which is not
// necessarily the extremes of the current buffer contents.
type Window struct {
	buf []uint16
	pos int // next index to overwrite
	min uint16
	max uint16
}

// NewWindow creates a window holding size samples.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{
		buf: make([]uint16, size),
		min: math.MaxUint16,
		max: 0,
	}
}

// Push writes v at the current position and advances it modulo capacity.
func (w *Window) Push(v uint16) {
	w.buf[w.pos] = v
	w.pos = (w.pos + 1) % len(w.buf)

	if v < w.min {
		w.min = v
	}
	if v > w.max {
		w.max = v
	}
}

// Full reports whether the write position has just wrapped to zero.
func (w *Window) Full() bool {
	return w.pos == 0
}

// Reset restarts min/max tracking. The buffer is zeroed only when clear is set;
// otherwise old samples stay until overwritten.
func (w *Window) Reset(clear bool) {
	w.min = math.MaxUint16
	w.max = 0
	if clear {
		for i := range w.buf {
			w.buf[i] = 0
		}
	}
}

// Min returns the smallest sample since the last reset.
func (w *Window) Min() uint16 { return w.min }

// Max returns the largest sample since the last reset.
func (w *Window) Max() uint16 { return w.max }

// Position returns the index the next sample will be written to.
func (w *Window) Position() int { return w.pos }

// Cap returns the window capacity.
func (w *Window) Cap() int { return len(w.buf) }

// Samples returns the underlying buffer indexed 0..Cap()-1.
// The slice aliases the window and must not be modified.
func (w *Window) Samples() []uint16 { return w.buf }
