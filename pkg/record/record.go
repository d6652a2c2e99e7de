package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Format selects the wire layout of a measurement frame.
type Format int

const (
	// Compact is the 8-byte layout: frequency (Hz) then amplitude (V).
	Compact Format = iota
	// Extended appends FWHM (µs) to the compact layout, 12 bytes total.
	Extended
)

const (
	// CompactSize is the length of a Compact frame in bytes.
	CompactSize = 8
	// ExtendedSize is the length of an Extended frame in bytes.
	ExtendedSize = 12
)

var (
	// ErrShortFrame is returned when a buffer is smaller than the frame size.
	ErrShortFrame = errors.New("short frame")
	// ErrInvalidFrame is returned for frames carrying NaN or Inf values.
	ErrInvalidFrame = errors.New("invalid frame")
)

// Measurement is the result of one completed acquisition window.
type Measurement struct {
	FWHM      float32 // Full width at half maximum (µs)
	Amplitude float32 // Peak amplitude (V)
	Frequency float32 // Peak repetition frequency (Hz)
}

// Size returns the frame length for the format.
func (f Format) Size() int {
	if f == Extended {
		return ExtendedSize
	}
	return CompactSize
}

func (f Format) String() string {
	switch f {
	case Compact:
		return "compact"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "compact" or "extended". An empty string means Compact.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "compact":
		return Compact, nil
	case "extended":
		return Extended, nil
	default:
		return Compact, fmt.Errorf("unknown frame format %q", s)
	}
}

// Encode writes m into dst using format f and returns the written slice.
// dst is reused when it has enough capacity.
func Encode(dst []byte, m Measurement, f Format) []byte {
	n := f.Size()
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(m.Frequency))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(m.Amplitude))
	if f == Extended {
		binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(m.FWHM))
	}
	return dst
}

// Decode parses a frame in format f. Compact frames leave FWHM at zero.
func Decode(b []byte, f Format) (Measurement, error) {
	if len(b) < f.Size() {
		return Measurement{}, fmt.Errorf("%w: need %d bytes, got %d", ErrShortFrame, f.Size(), len(b))
	}

	m := Measurement{
		Frequency: math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		Amplitude: math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
	}
	if f == Extended {
		m.FWHM = math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))
	}
	return m, nil
}

// Validate reports ErrInvalidFrame if any field is NaN or infinite.
// On an unframed byte stream this usually means the reader lost alignment.
func (m Measurement) Validate() error {
	for _, v := range [...]float32{m.Frequency, m.Amplitude, m.FWHM} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidFrame, m)
		}
	}
	return nil
}
