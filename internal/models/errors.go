package models

import "errors"

var (
	// ErrInvalidConfiguration is returned before any sampling when a rate, the
	// horizon or the runway count is out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnstableQueue is returned by the theoretical evaluator when rho >= 1.
	ErrUnstableQueue = errors.New("unstable queue")

	// ErrEmptySample marks computations that need at least one flight.
	ErrEmptySample = errors.New("no flights in sample")
)
