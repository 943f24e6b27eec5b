package challenge

import "errors"

// Sentinel errors for challenge validation.
// Callers should use errors.Is() to check for these.
var (
	// ErrUnknownLevel indicates a level index outside 0..4.
	ErrUnknownLevel = errors.New("challenge: unknown level")
)
