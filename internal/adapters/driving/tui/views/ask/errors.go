package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoSessionService indicates that no session service was provided.
	ErrNoSessionService = errors.New("session service is required")
)
