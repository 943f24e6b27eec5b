package rules

import "errors"

// Sentinel errors for rule loading failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidRule indicates a rule is missing an id, a pattern,
	// a known category, or carries a regex that does not compile.
	ErrInvalidRule = errors.New("rules: invalid rule")

	// ErrDuplicateRule indicates two rules share the same id.
	ErrDuplicateRule = errors.New("rules: duplicate rule id")
)
