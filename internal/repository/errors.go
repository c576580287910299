package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrStatusConflict is returned when a compare-and-swap status update
	// observes a status different from the one it was computed against.
	// The caller lost a concurrent transition race.
	ErrStatusConflict = errors.New("payment status changed concurrently")
)
