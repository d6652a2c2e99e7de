package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	w := NewWindow(16)
	assert.Equal(t, 16, w.Cap())
	assert.Equal(t, 0, w.Position())
	assert.Equal(t, uint16(math.MaxUint16), w.Min())
	assert.Equal(t, uint16(0), w.Max())

	w = NewWindow(0)
	assert.Equal(t, DefaultWindowSize, w.Cap(), "non-positive size falls back to default")
}

func TestWindow_FullEveryCapacitySamples(t *testing.T) {
	const size = 8
	w := NewWindow(size)

	var fullAt []int
	for i := 1; i <= 5*size; i++ {
		w.Push(uint16(i))
		if w.Full() {
			fullAt = append(fullAt, i)
		}
	}

	assert.Equal(t, []int{8, 16, 24, 32, 40}, fullAt)
}

func TestWindow_PushWrapsPosition(t *testing.T) {
	w := NewWindow(4)
	for i := range 6 {
		w.Push(uint16(10 + i))
	}

	assert.Equal(t, 2, w.Position())
	assert.Equal(t, []uint16{14, 15, 12, 13}, w.Samples())
}

func TestWindow_MinMaxTracking(t *testing.T) {
	w := NewWindow(4)
	for _, v := range []uint16{100, 50, 300, 200} {
		w.Push(v)
	}
	assert.Equal(t, uint16(50), w.Min())
	assert.Equal(t, uint16(300), w.Max())
}

func TestWindow_ResetKeepsSamples(t *testing.T) {
	w := NewWindow(4)
	for _, v := range []uint16{1, 2, 3, 4} {
		w.Push(v)
	}
	require.True(t, w.Full())

	w.Reset(false)

	assert.Equal(t, uint16(math.MaxUint16), w.Min())
	assert.Equal(t, uint16(0), w.Max())
	assert.Equal(t, []uint16{1, 2, 3, 4}, w.Samples(), "stale samples remain until overwritten")

	// min/max now diverge from buffer contents
	w.Push(9)
	assert.Equal(t, uint16(9), w.Min())
	assert.Equal(t, uint16(9), w.Max())
	assert.Equal(t, []uint16{9, 2, 3, 4}, w.Samples())
}

func TestWindow_ResetClear(t *testing.T) {
	w := NewWindow(4)
	for _, v := range []uint16{1, 2, 3, 4} {
		w.Push(v)
	}

	w.Reset(true)

	assert.Equal(t, []uint16{0, 0, 0, 0}, w.Samples())
	assert.Equal(t, 0, w.Position(), "clearing does not move the write position")
}
