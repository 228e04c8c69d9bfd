package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database. An unknown access token is
// reported the same way.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank attendee name, malformed weekend key).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an itinerary for the same trip, weekend and
// region is already being generated, or when a freshly drawn access token
// is already taken.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnavailable is returned when the text-generation collaborator is not
// configured or fails.
// Handlers should map this to HTTP 503.
var ErrUnavailable = errors.New("service unavailable")
