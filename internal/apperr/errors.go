// Package apperr defines the sentinel error kinds shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound reports a missing entity, asset, or source file.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports malformed input rejected before any mutation:
	// empty entity keys, undecodable payloads, unknown entity types.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable reports that the backing index or filesystem cannot be
	// reached at all, as opposed to a single failed operation.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrConflict reports an optimistic-concurrency mismatch.
	ErrConflict = errors.New("conflict")
	// ErrAlreadyExists reports a creation attempt on an existing key.
	ErrAlreadyExists = errors.New("already exists")
)
