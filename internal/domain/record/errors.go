package record

import "errors"

// Time normalization errors. These are per-record conditions: the caller
// downgrades them to validation issues and keeps processing the batch.
var (
	ErrMalformedTime      = errors.New("time text is not a recognized 12-hour or 24-hour format")
	ErrAmbiguousOvernight = errors.New("stop time precedes start time without an explicit next-day marker")
	ErrShiftTooLong       = errors.New("shift duration exceeds the configured maximum")
)
