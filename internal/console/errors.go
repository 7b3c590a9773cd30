package console

import "errors"

var (
	// ErrNotFound is returned for ids that name no live session.
	ErrNotFound = errors.New("session not found")
	// ErrClosed is returned once the manager has shut down.
	ErrClosed = errors.New("console closed")
)
