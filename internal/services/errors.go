package services

import "errors"

var (
	// ErrNotConfigured means the LinkedIn credentials required for the
	// requested flow are missing from the environment.
	ErrNotConfigured = errors.New("linkedin oauth is not configured")

	// ErrBadState means the callback carried a state that was never
	// issued, already consumed, or expired.
	ErrBadState = errors.New("invalid or expired oauth state")

	// ErrStoreUnavailable means the document store was never connected.
	ErrStoreUnavailable = errors.New("database not available")

	// ErrNotFound means a lookup by id matched no record.
	ErrNotFound = errors.New("profile not found")
)
