package domain

import "errors"

// ErrNotFound is returned when a trip, point of interest, or stored slot
// does not exist. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule
// (e.g. empty trip name, non-positive amount, unknown payer).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrOutOfRange is returned by reorder operations when an index falls
// outside the point-of-interest sequence. Handlers map this to HTTP 400.
var ErrOutOfRange = errors.New("index out of range")
