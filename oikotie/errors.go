package oikotie

import "errors"

// Error kinds surfaced by the client. All failures are wrapped with %w
// around one of these sentinels so callers can classify with errors.Is.
// The client never retries; every failure propagates synchronously.
var (
	// ErrInvalidFilter marks an unknown house-type category. Raised
	// before any network call is made.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrAuth marks a failed or rejected credential fetch.
	ErrAuth = errors.New("authentication failed")

	// ErrTransport marks a failed page or lookup request.
	ErrTransport = errors.New("transport failure")

	// ErrParse marks a malformed response body or timestamp.
	ErrParse = errors.New("parse error")

	// ErrValidation marks a raw card missing a required field.
	ErrValidation = errors.New("validation error")
)
