package source

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.bug.st/serial"
)

// serialReadTimeout bounds a single serial read so cancellation is observed.
const serialReadTimeout = 100 * time.Millisecond

// Reader decodes little-endian uint16 samples from a byte stream, such as a
// capture file or a USB ADC bridge.
type Reader struct {
	r      *bufio.Reader
	closer io.Closer
	buf    [2]byte
	n      int // bytes of the current sample already read
}

// NewReader creates a source reading from r. If r is an io.Closer, Close
// closes it.
func NewReader(r io.Reader) *Reader {
	src := &Reader{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// OpenFile opens a raw capture file.
func OpenFile(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", name, err)
	}
	return NewReader(f), nil
}

// OpenSerial opens a serial port streaming raw samples.
func OpenSerial(name string, baudRate int) (*Reader, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", name, err)
	}
	return NewReader(port), nil
}

// Read returns the next sample. A stream ending on a sample boundary yields
// io.EOF, a truncated sample yields io.ErrUnexpectedEOF. Bytes of a sample
// read before a failure are kept, so the next Read resumes the same sample.
func (s *Reader) Read(ctx context.Context) (uint16, error) {
	for s.n < len(s.buf) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		m, err := s.r.Read(s.buf[s.n:])
		s.n += m
		if s.n == len(s.buf) {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) && s.n > 0 {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
	}
	s.n = 0
	return binary.LittleEndian.Uint16(s.buf[:]), nil
}

// Close closes the underlying stream if it is closable.
func (s *Reader) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
