package history

import "errors"

var (
	// ErrNotFound is returned when a requested session or audio part does
	// not exist on disk.
	ErrNotFound = errors.New("history entry not found")

	// ErrCorrupt is returned when a stored record exists but cannot be
	// parsed. Bulk operations skip corrupt records instead.
	ErrCorrupt = errors.New("history entry is corrupt")

	// ErrInvalidInput is returned when a save is attempted without the
	// required fields. No I/O happens in that case.
	ErrInvalidInput = errors.New("invalid input")
)
