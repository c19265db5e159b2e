package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateProcessor indicates a processor ID is already registered.
	ErrDuplicateProcessor = errors.New("processor already registered")

	// ErrProcessorUnavailable indicates a processor failed to load.
	// The processor is excluded from snapshots; requests carry on
	// without it.
	ErrProcessorUnavailable = errors.New("processor unavailable")

	// ErrNoProcessors indicates no processor was available or every
	// invoked processor failed. The only fatal extraction condition.
	ErrNoProcessors = errors.New("no processors available")

	// ErrEmptyText indicates the chapter text is empty or whitespace.
	// Rejected before any processor is invoked.
	ErrEmptyText = errors.New("empty chapter text")

	// ErrInvalidConfig indicates a processor config update violates the
	// invariants (weight > 0, threshold in [0,1]). The prior config is
	// left unchanged.
	ErrInvalidConfig = errors.New("invalid processor config")
)
