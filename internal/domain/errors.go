package domain

import "errors"

// ErrInvalidInput indicates a required request field is missing or empty.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound indicates a title or resource could not be resolved.
var ErrNotFound = errors.New("not found")

// ErrUpstreamUnavailable indicates the metadata catalog could not be reached
// or answered with an unexpected status.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")
