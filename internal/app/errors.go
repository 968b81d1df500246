package service

import "errors"

// Sentinel kinds for lifecycle errors.
var (
	ErrListen         = errors.New("listen failed")
	ErrServe          = errors.New("serve failed")
	ErrShutdown       = errors.New("graceful shutdown failed")
	ErrAlreadyStarted = errors.New("service already started")
)
