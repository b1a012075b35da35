package service

import "errors"

// Sentinel errors shared by all agency services. Routers map these to HTTP
// statuses with errors.Is; everything else is treated as a store failure.
var (
	// ErrNotFound indicates a referenced record is absent or inactive.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
)
