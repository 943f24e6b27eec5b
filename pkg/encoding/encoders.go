package encoding

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/whatthewaf/whatthewaf/internal/hexutil"
)

func init() {
	register(&URLEncoder{})
	register(&Base64Encoder{})
	register(&HTMLEntityEncoder{})
	register(&UnicodeEncoder{})
	register(&DoubleURLEncoder{})
}

// URLEncoder percent-escapes every byte except letters, digits and -_~.
// Hex digits are uppercase.
type URLEncoder struct{}

func (e *URLEncoder) Name() string { return string(URL) }
func (e *URLEncoder) Encode(text string) (string, error) {
	return urlEncode(text), nil
}
func (e *URLEncoder) Decode(encoded string) (string, error) {
	return urlDecode(URL, encoded, "")
}

// DoubleURLEncoder applies URL encoding twice, so '%' itself shows up as %25.
type DoubleURLEncoder struct{}

func (e *DoubleURLEncoder) Name() string { return string(DoubleURL) }
func (e *DoubleURLEncoder) Encode(text string) (string, error) {
	return urlEncode(urlEncode(text)), nil
}
func (e *DoubleURLEncoder) Decode(encoded string) (string, error) {
	once, err := urlDecode(DoubleURL, encoded, "")
	if err != nil {
		return "", err
	}
	return urlDecode(DoubleURL, once, "after first pass: ")
}

// Base64Encoder uses the standard alphabet with padding.
type Base64Encoder struct{}

func (e *Base64Encoder) Name() string { return string(Base64) }
func (e *Base64Encoder) Encode(text string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(text)), nil
}
func (e *Base64Encoder) Decode(encoded string) (string, error) {
	if len(encoded)%4 != 0 {
		return "", malformed(Base64, len(encoded), "length is not a multiple of 4")
	}
	decoded, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return "", malformed(Base64, int(corrupt), "character outside the base64 alphabet")
		}
		return "", malformed(Base64, 0, err.Error())
	}
	return string(decoded), nil
}

// HTMLEntityEncoder replaces < > & " ' with decimal references (&#60;).
// Decoding accepts decimal, hex and the five named references; any other
// '&' sequence is left as it is.
type HTMLEntityEncoder struct{}

func (e *HTMLEntityEncoder) Name() string { return string(HTMLEntity) }
func (e *HTMLEntityEncoder) Encode(text string) (string, error) {
	if !strings.ContainsAny(text, `<>&"'`) {
		return text, nil
	}
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/2)
	for _, r := range text {
		switch r {
		case '<', '>', '&', '"', '\'':
			hexutil.WriteDecEntity(&sb, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String(), nil
}
func (e *HTMLEntityEncoder) Decode(encoded string) (string, error) {
	return htmlDecode(encoded)
}

// UnicodeEncoder emits \uxxxx for every UTF-16 code unit. Characters
// outside the BMP become a surrogate pair.
type UnicodeEncoder struct{}

func (e *UnicodeEncoder) Name() string { return string(Unicode) }
func (e *UnicodeEncoder) Encode(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	units := utf16.Encode([]rune(text))
	var sb strings.Builder
	sb.Grow(len(units) * 6)
	for _, u := range units {
		hexutil.WriteUnicodeEscape(&sb, u)
	}
	return sb.String(), nil
}
func (e *UnicodeEncoder) Decode(encoded string) (string, error) {
	return unicodeDecode(encoded)
}

func urlEncode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if hexutil.IsUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		hexutil.WritePercentEncoded(&sb, c)
	}
	return sb.String()
}

// urlDecode reverses percent escapes. '+' is kept as is; this is path
// decoding, not form decoding.
func urlDecode(mode Mode, s, reasonPrefix string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			buf = append(buf, c)
			continue
		}
		if i+2 >= len(s) {
			return "", malformed(mode, i, reasonPrefix+"'%' not followed by two hex digits")
		}
		hi, ok1 := hexutil.Unhex(s[i+1])
		lo, ok2 := hexutil.Unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", malformed(mode, i, reasonPrefix+"'%' not followed by two hex digits")
		}
		buf = append(buf, hi<<4|lo)
		i += 2
	}
	return string(buf), nil
}

var namedEntities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"quot": '"',
	"apos": '\'',
}

func htmlDecode(s string) (string, error) {
	if strings.IndexByte(s, '&') < 0 {
		return s, nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			sb.WriteString(s[i:])
			break
		}
		ref := s[i+1 : i+semi]
		r, ok, err := parseReference(ref, i)
		if err != nil {
			return "", err
		}
		if !ok {
			sb.WriteByte('&')
			i++
			continue
		}
		sb.WriteRune(r)
		i += semi + 1
	}
	return sb.String(), nil
}

// parseReference resolves the text between '&' and ';'. ok is false when
// the text is not a reference at all; err is set when it is a numeric
// reference to an invalid code point.
func parseReference(ref string, offset int) (r rune, ok bool, err error) {
	if named, found := namedEntities[ref]; found {
		return named, true, nil
	}
	if len(ref) < 2 || ref[0] != '#' {
		return 0, false, nil
	}

	digits, base := ref[1:], 10
	if digits[0] == 'x' || digits[0] == 'X' {
		digits, base = digits[1:], 16
	}
	if digits == "" {
		return 0, false, nil
	}

	var v int
	for i := 0; i < len(digits); i++ {
		d, isHex := hexutil.Unhex(digits[i])
		if !isHex || int(d) >= base {
			return 0, false, nil
		}
		v = v*base + int(d)
		if v > utf8.MaxRune {
			return 0, false, malformed(HTMLEntity, offset, "character reference out of range")
		}
	}
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, false, malformed(HTMLEntity, offset, "character reference to an invalid code point")
	}
	return rune(v), true, nil
}

func unicodeDecode(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}
	var sb strings.Builder
	sb.Grow(len(s) / 6 * 3)

	var units []uint16
	flush := func() {
		if len(units) > 0 {
			sb.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}

	for i := 0; i < len(s); {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == 'u' {
			u, ok := hexutil.ParseHex4(s[i+2:])
			if !ok {
				return "", malformed(Unicode, i, `\u escape needs four hex digits`)
			}
			units = append(units, u)
			i += 6
			continue
		}
		flush()
		_, size := utf8.DecodeRuneInString(s[i:])
		sb.WriteString(s[i : i+size])
		i += size
	}
	flush()
	return sb.String(), nil
}
