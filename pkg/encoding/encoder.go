// Package encoding provides the reversible text transforms used by the
// encoder tool and by challenge validation: URL, Base64, HTML entity,
// Unicode escape and double URL encoding.
//
// Every Encode accepts any string, including "", and never fails. Every
// Decode reports structurally invalid input as a *MalformedInputError.
package encoding

import (
	"fmt"
	"strings"
)

// Mode selects a transform pair.
type Mode string

const (
	URL        Mode = "url"
	Base64     Mode = "base64"
	HTMLEntity Mode = "html"
	Unicode    Mode = "unicode"
	DoubleURL  Mode = "double-url"
)

// Modes returns the supported modes in display order.
func Modes() []Mode {
	return []Mode{URL, Base64, HTMLEntity, Unicode, DoubleURL}
}

// String returns the mode identifier.
func (m Mode) String() string { return string(m) }

// Label returns the button-style display name of the mode.
func (m Mode) Label() string {
	switch m {
	case URL:
		return "URL Encode"
	case Base64:
		return "Base64"
	case HTMLEntity:
		return "HTML Entity"
	case Unicode:
		return "Unicode"
	case DoubleURL:
		return "Double URL"
	default:
		return string(m)
	}
}

// ParseMode accepts a mode identifier or a common alias, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "url", "urlencode", "percent":
		return URL, nil
	case "base64", "b64":
		return Base64, nil
	case "html", "html-entity", "htmlentity", "entity":
		return HTMLEntity, nil
	case "unicode", "js-unicode", "uescape":
		return Unicode, nil
	case "double-url", "doubleurl", "double", "double_url":
		return DoubleURL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Encoder defines one transform pair.
type Encoder interface {
	// Name returns the encoder identifier
	Name() string
	// Encode transforms the text
	Encode(text string) (string, error)
	// Decode reverses the encoding
	Decode(encoded string) (string, error)
}

// Registry of available encoders, keyed by mode
var registry = make(map[Mode]Encoder)

// register adds an encoder under its name. Only init may call it: the
// map is read without locking afterwards.
func register(enc Encoder) {
	registry[Mode(strings.ToLower(enc.Name()))] = enc
}

// Encode applies the mode's forward transform.
func Encode(mode Mode, text string) (string, error) {
	enc, ok := registry[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return enc.Encode(text)
}

// Decode applies the mode's reverse transform.
func Decode(mode Mode, text string) (string, error) {
	enc, ok := registry[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return enc.Decode(text)
}

// EncodeWithAll applies every mode to text, keyed by mode.
func EncodeWithAll(text string) map[Mode]string {
	results := make(map[Mode]string, len(registry))
	for mode, enc := range registry {
		if encoded, err := enc.Encode(text); err == nil {
			results[mode] = encoded
		}
	}
	return results
}
