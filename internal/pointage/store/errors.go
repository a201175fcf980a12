package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrConflict is returned when an append would violate the
	// one-open-arrival-per-day invariant.  Previous state is preserved.
	ErrConflict = errors.New("store: conflict")

	// ErrHardware is returned when a reader cannot be reached within its
	// probe timeout.  It must never be conflated with a policy deny.
	ErrHardware = errors.New("store: hardware unreachable")
)
