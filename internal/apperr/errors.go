// Package apperr defines the sentinel errors shared across layers.
// Handlers match them with errors.Is to pick response status codes.
package apperr

import "errors"

var (
	// ErrNotFound means the identifier does not resolve to any record.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the caller sent malformed or missing input.
	ErrValidation = errors.New("invalid request")
	// ErrDecode means an on-disk record cannot be parsed.
	ErrDecode = errors.New("invalid memory format")
	// ErrWriteFailed means a durable write to storage did not complete.
	ErrWriteFailed = errors.New("write failed")
	// ErrInferenceUnavailable means the inference backend is absent or failed.
	ErrInferenceUnavailable = errors.New("inference unavailable")
)
