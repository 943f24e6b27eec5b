package scoring

import "errors"

// Sentinel errors for score calculator failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrUnknownViolation indicates a violation code not in the catalogue.
	ErrUnknownViolation = errors.New("scoring: unknown violation code")

	// ErrUnknownScenario indicates a simulation preset that does not exist.
	ErrUnknownScenario = errors.New("scoring: unknown scenario")
)
