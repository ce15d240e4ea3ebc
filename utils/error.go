package utils

import "errors"

// Request-level error taxonomy. Report functions wrap these so the HTTP layer
// can map them to status codes without inspecting messages.
var (
	// ErrInvalidInput covers bad date formats, bad filter types and
	// out-of-range months. Surfaced as 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers a missing organization. Surfaced as 404.
	ErrNotFound = errors.New("not found")
)
