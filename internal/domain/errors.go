package domain

import "errors"

// Domain errors, checkable with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running streamer.
	ErrAlreadyRunning = errors.New("loopship: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped streamer.
	ErrNotRunning = errors.New("loopship: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("loopship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("loopship: invalid configuration")
)
