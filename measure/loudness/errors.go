package loudness

import "errors"

var (
	// ErrOutOfMemory indicates a required allocation could not be
	// satisfied. Ingestion failures of this kind leave prior block
	// history intact; a failure from ChangeParameters leaves the meter
	// unusable.
	ErrOutOfMemory = errors.New("loudness: out of memory")

	// ErrInvalidMode indicates a query was made for a measurement whose
	// enabling mode flag was not set at construction, or that a
	// multi-instance reduction was attempted across meters using
	// incompatible storage strategies (histogram vs. block-list).
	ErrInvalidMode = errors.New("loudness: invalid mode")

	// ErrInvalidChannelIndex indicates a channel index was >= the
	// meter's channel count.
	ErrInvalidChannelIndex = errors.New("loudness: invalid channel index")

	// ErrNoChange indicates ChangeParameters was called with the
	// meter's current channel count and sample rate; the meter is left
	// untouched.
	ErrNoChange = errors.New("loudness: no change")
)
