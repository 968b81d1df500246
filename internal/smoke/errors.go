package smoke

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid smoke config")
	ErrAborted       = errors.New("smoke run aborted")
)
