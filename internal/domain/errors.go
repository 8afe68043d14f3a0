package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when input fails validation, either at the API
// boundary (missing field, cycle hours out of range) or inside the HOS engine
// (non-positive average speed, rest stop beyond the end of the trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrInvalidInput = errors.New("invalid input")

// ErrUpstream is returned when the routing or geocoding provider fails.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrUpstream = errors.New("upstream error")
