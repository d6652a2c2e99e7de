// Package source provides sample sources for the processing pipeline.
package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrAcquisition matches every *AcquisitionError.
var ErrAcquisition = errors.New("acquisition failed")

// Source produces one ADC sample per call. Read blocks until a sample is
// available, the context is done or the source fails. A source that has no
// more samples returns io.EOF.
type Source interface {
	Read(ctx context.Context) (uint16, error)
}

// AcquisitionError reports a failed sample read.
type AcquisitionError struct {
	Sample uint64 // Index of the sample that could not be read
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition failed at sample %d: %v", e.Sample, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrAcquisition) true for any AcquisitionError.
func (e *AcquisitionError) Is(target error) bool {
	return target == ErrAcquisition
}
