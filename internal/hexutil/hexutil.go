// Package hexutil provides the escape tables used by the codec.
// Uses lookup tables instead of fmt.Sprintf on the encode paths.
package hexutil

import "strings"

// Hex character tables
const (
	HexUpper = "0123456789ABCDEF"
	HexLower = "0123456789abcdef"
)

// Pre-computed lookup tables
var (
	// PercentEncoded contains "%XX" for each byte value (0-255), uppercase
	PercentEncoded [256]string

	// DecEntity contains "&#N;" for the ASCII range (0-127)
	DecEntity [128]string

	// unreserved marks the bytes that URL encoding leaves alone
	unreserved [256]bool
)

func init() {
	for i := 0; i < 256; i++ {
		PercentEncoded[i] = "%" + string(HexUpper[i>>4]) + string(HexUpper[i&0x0F])
		if i < 128 {
			DecEntity[i] = "&#" + itoa(i) + ";"
		}
	}
	for c := 'a'; c <= 'z'; c++ {
		unreserved[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		unreserved[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		unreserved[c] = true
	}
	// '.' is escaped on purpose so "../" shows up as %2E%2E%2F.
	unreserved['-'] = true
	unreserved['_'] = true
	unreserved['~'] = true
}

// itoa is a simple int-to-string for small positive integers (avoids strconv import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// IsUnreserved reports whether b passes through URL encoding untouched.
func IsUnreserved(b byte) bool {
	return unreserved[b]
}

// WritePercentEncoded writes a byte as %XX (uppercase) to the builder
func WritePercentEncoded(sb *strings.Builder, b byte) {
	sb.WriteString(PercentEncoded[b])
}

// WriteDecEntity writes a rune as &#N; to the builder
func WriteDecEntity(sb *strings.Builder, r rune) {
	if r >= 0 && r < 128 {
		sb.WriteString(DecEntity[r])
		return
	}
	sb.WriteString("&#")
	writeInt(sb, int(r))
	sb.WriteByte(';')
}

// WriteUnicodeEscape writes a UTF-16 code unit as \uxxxx (lowercase) to the builder
func WriteUnicodeEscape(sb *strings.Builder, u uint16) {
	sb.WriteString("\\u")
	sb.WriteByte(HexLower[u>>12&0xF])
	sb.WriteByte(HexLower[u>>8&0xF])
	sb.WriteByte(HexLower[u>>4&0xF])
	sb.WriteByte(HexLower[u&0xF])
}

// Unhex returns the value of a single hex digit.
func Unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParseHex4 parses exactly four hex digits from s.
func ParseHex4(s string) (uint16, bool) {
	if len(s) < 4 {
		return 0, false
	}
	var v uint16
	for i := 0; i < 4; i++ {
		d, ok := Unhex(s[i])
		if !ok {
			return 0, false
		}
		v = v<<4 | uint16(d)
	}
	return v, true
}

// writeInt writes an integer to the builder without allocations
func writeInt(sb *strings.Builder, n int) {
	if n == 0 {
		sb.WriteByte('0')
		return
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	sb.Write(buf[i:])
}
