package encoding

import (
	"errors"
	"fmt"
)

// Sentinel errors for codec failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrMalformedInput indicates decode was called on text that is not
	// valid for the selected mode (bad Base64 alphabet or length,
	// dangling percent escape, short unicode escape).
	ErrMalformedInput = errors.New("encoding: malformed input")

	// ErrUnknownMode indicates an encoding mode that is not registered.
	ErrUnknownMode = errors.New("encoding: unknown mode")
)

// MalformedInputError describes where and why a decode failed.
// It matches ErrMalformedInput with errors.Is.
type MalformedInputError struct {
	Mode   Mode
	Offset int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("encoding: malformed %s input at offset %d: %s", e.Mode, e.Offset, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

func malformed(mode Mode, offset int, reason string) error {
	return &MalformedInputError{Mode: mode, Offset: offset, Reason: reason}
}

// IsMalformed reports whether err is a decode failure on bad input.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}
