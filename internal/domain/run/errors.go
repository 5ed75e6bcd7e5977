package run

import "errors"

// Run domain errors
var (
	ErrRunNotFound = errors.New("reconciliation run not found")
	ErrEmptyBatch  = errors.New("batch contains no records")
)
