package core

import (
	"errors"
)

var (
	// ErrShutdown is returned by components that received work after their
	// Shutdown was requested.
	ErrShutdown = errors.New("shutting down, new work rejected")
	// ErrNotInitialized is returned when a system is used before its
	// Initialize call.
	ErrNotInitialized = errors.New("system not initialized")
)
