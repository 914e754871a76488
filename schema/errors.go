package schema

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a bucket index falls outside the sequence.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrEmptyDataset describes a sequence with zero buckets. Engine paths degrade
// gracefully instead of returning it; surfaces use it to print a notice.
var ErrEmptyDataset = errors.New("empty dataset")

// IndexError carries the offending index and sequence length.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d not in [0, %d): %v", e.Index, e.Len, ErrIndexOutOfRange)
}

// Unwrap allows errors.Is(err, ErrIndexOutOfRange).
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// FetchError wraps a transport or source failure of the data layer.
type FetchError struct {
	Granularity Granularity
	Err         error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s buckets: %v", e.Granularity, e.Err)
}

// Unwrap returns the underlying source error.
func (e *FetchError) Unwrap() error {
	return e.Err
}
