package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNoStats  = errors.New("stats provider not configured")
	ErrInternal = errors.New("internal server error")
)
