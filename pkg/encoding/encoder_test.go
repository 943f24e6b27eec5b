package encoding

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatthewaf/whatthewaf/pkg/testutil"
)

var roundTripInputs = []string{
	"",
	"Hello World",
	"' OR '1'='1",
	"<script>alert(1)</script>",
	"../../../etc/passwd",
	"a+b=c&d=%41",
	`back\slash \u0041 literal`,
	"&lt; already &#60; escaped &amp;",
	"日本語テキスト",
	"emoji 😀 and ñ",
	"tab\tnewline\n",
	"~-_.!*()",
}

func TestRoundTripAllModes(t *testing.T) {
	for _, mode := range Modes() {
		for _, in := range roundTripInputs {
			encoded, err := Encode(mode, in)
			require.NoError(t, err, "%s encode %q", mode, in)
			decoded, err := Decode(mode, encoded)
			require.NoError(t, err, "%s decode %q", mode, encoded)
			assert.Equal(t, in, decoded, "%s round trip", mode)
		}
	}
}

func TestRoundTripPrintableASCII(t *testing.T) {
	var sb strings.Builder
	for c := byte(0x20); c < 0x7f; c++ {
		sb.WriteByte(c)
	}
	all := sb.String()
	for _, mode := range Modes() {
		encoded, err := Encode(mode, all)
		require.NoError(t, err)
		decoded, err := Decode(mode, encoded)
		require.NoError(t, err)
		assert.Equal(t, all, decoded, mode)
	}
}

func TestEncodeEmpty(t *testing.T) {
	for _, mode := range Modes() {
		out, err := Encode(mode, "")
		require.NoError(t, err)
		assert.Equal(t, "", out, mode)
	}
}

func TestURLEncoder(t *testing.T) {
	enc := registry[URL]
	require.NotNil(t, enc)

	result, err := enc.Encode("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Equal(t, "%3Cscript%3Ealert%281%29%3C%2Fscript%3E", result)

	result, err = enc.Encode("' OR '1'='1")
	require.NoError(t, err)
	assert.Contains(t, result, "%27")
	assert.Contains(t, result, "%20")

	result, err = enc.Encode("../../../etc/passwd")
	require.NoError(t, err)
	assert.Contains(t, result, "%2E")
	assert.Contains(t, result, "%2F")

	result, err = enc.Encode("a-b_c~d")
	require.NoError(t, err)
	assert.Equal(t, "a-b_c~d", result)

	decoded, err := enc.Decode("%27%20OR%20%271%27%3D%271")
	require.NoError(t, err)
	assert.Equal(t, "' OR '1'='1", decoded)

	// Lowercase hex is accepted, '+' is not a space
	decoded, err = enc.Decode("%2e%2e%2f+x")
	require.NoError(t, err)
	assert.Equal(t, "../+x", decoded)
}

func TestURLDecodeMalformed(t *testing.T) {
	for _, in := range []string{"%", "abc%", "%4", "%G1", "100%zz"} {
		_, err := Decode(URL, in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformedInput), in)

		var mErr *MalformedInputError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, URL, mErr.Mode)
	}

	_, err := Decode(URL, "100%zz")
	var mErr *MalformedInputError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, 3, mErr.Offset)
}

func TestBase64Encoder(t *testing.T) {
	enc := registry[Base64]
	require.NotNil(t, enc)

	result, err := enc.Encode("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "SGVsbG8gV29ybGQ=", result)

	decoded, err := enc.Decode("SGVsbG8gV29ybGQ=")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", decoded)

	result, err = enc.Encode("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotEmpty(t, result)
	assert.NotContains(t, result, "<script>")
}

func TestBase64DecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"invalid characters and length", "not-valid-base64!!!"},
		{"bad length", "SGVsbG8"},
		{"bad alphabet", "SGVs!G8="},
		{"misplaced padding", "S=Vs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode(Base64, tt.in)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, IsMalformed(err))
			assert.Contains(t, err.Error(), "base64")
		})
	}
}

func TestHTMLEntityEncoder(t *testing.T) {
	enc := registry[HTMLEntity]
	require.NotNil(t, enc)

	result, err := enc.Encode("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Equal(t, "&#60;script&#62;alert(1)&#60;/script&#62;", result)

	result, err = enc.Encode(`"a" & 'b'`)
	require.NoError(t, err)
	assert.Equal(t, "&#34;a&#34; &#38; &#39;b&#39;", result)

	decoded, err := enc.Decode("&#60;script&#62;alert(1)&#60;/script&#62;")
	require.NoError(t, err)
	assert.Equal(t, "<script>alert(1)</script>", decoded)
}

func TestHTMLEntityDecodeForms(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"&lt;&gt;&amp;&quot;&apos;", `<>&"'`},
		{"&#x3c;&#X3E;", "<>"},
		{"&#60;&#62;", "<>"},
		{"&copy; stays", "&copy; stays"},
		{"AT&T", "AT&T"},
		{"a & b; c", "a & b; c"},
		{"&#;", "&#;"},
		{"&#12a;", "&#12a;"},
		{"&#233;", "é"},
	}
	for _, tt := range tests {
		got, err := Decode(HTMLEntity, tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"&#0;", "&#55296;", "&#x110000;", "&#99999999999;"} {
		_, err := Decode(HTMLEntity, bad)
		assert.True(t, IsMalformed(err), bad)
	}
}

func TestUnicodeEncoder(t *testing.T) {
	enc := registry[Unicode]
	require.NotNil(t, enc)

	result, err := enc.Encode("test")
	require.NoError(t, err)
	assert.Equal(t, `\u0074\u0065\u0073\u0074`, result)

	result, err = enc.Encode("\U0001F600")
	require.NoError(t, err)
	assert.Equal(t, `\ud83d\ude00`, result)

	decoded, err := enc.Decode(`\u0074\u0065\u0073\u0074`)
	require.NoError(t, err)
	assert.Equal(t, "test", decoded)

	// Plain text around escapes passes through
	decoded, err = enc.Decode(`Hi \u003c\u0062\u003e there \!`)
	require.NoError(t, err)
	assert.Equal(t, "Hi <b> there \\!", decoded)

	decoded, err = enc.Decode(`\ud83d\ude00`)
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", decoded)
}

func TestUnicodeDecodeMalformed(t *testing.T) {
	for _, in := range []string{`\u`, `\u12`, `abc\u00zz`, `t\u006`} {
		_, err := Decode(Unicode, in)
		assert.True(t, IsMalformed(err), in)
	}
}

func TestDoubleURLEncoder(t *testing.T) {
	enc := registry[DoubleURL]
	require.NotNil(t, enc)

	result, err := enc.Encode("../")
	require.NoError(t, err)
	assert.Equal(t, "%252E%252E%252F", result)
	assert.Contains(t, result, "%25")

	decoded, err := enc.Decode("%252E%252E%252F")
	require.NoError(t, err)
	assert.Equal(t, "../", decoded)
}

func TestDoubleURLDecodeSinglyEncoded(t *testing.T) {
	// Decoding singly encoded text twice is not a round trip.
	single, err := Encode(URL, "100%")
	require.NoError(t, err)
	assert.Equal(t, "100%25", single)

	_, err = Decode(DoubleURL, single)
	require.Error(t, err, "second pass sees a dangling '%'")
	var mErr *MalformedInputError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, DoubleURL, mErr.Mode)

	got, err := Decode(DoubleURL, "%2541")
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	got, err = Decode(DoubleURL, "%41")
	require.NoError(t, err)
	assert.Equal(t, "A", got, "decoding twice is harmless when the first pass leaves no escapes")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"url", URL},
		{"URL", URL},
		{"b64", Base64},
		{"html-entity", HTMLEntity},
		{"entity", HTMLEntity},
		{"unicode", Unicode},
		{"double", DoubleURL},
		{" double-url ", DoubleURL},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseMode("rot13")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestUnknownMode(t *testing.T) {
	_, err := Encode(Mode("rot13"), "x")
	assert.ErrorIs(t, err, ErrUnknownMode)
	_, err = Decode(Mode("rot13"), "x")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.NotContains(t, registry, Mode("rot13"))
}

func TestModeLabels(t *testing.T) {
	for _, m := range Modes() {
		assert.NotEqual(t, string(m), "")
		assert.NotEmpty(t, m.Label())
		assert.Contains(t, registry, m)
	}
}

func TestEncodeWithAll(t *testing.T) {
	all := EncodeWithAll("<")
	assert.Len(t, all, len(Modes()))
	assert.Equal(t, "%3C", all[URL])
	assert.Equal(t, "PA==", all[Base64])
	assert.Equal(t, "&#60;", all[HTMLEntity])
	assert.Equal(t, `\u003c`, all[Unicode])
	assert.Equal(t, "%253C", all[DoubleURL])
}

func BenchmarkURLEncode(b *testing.B) {
	payload := "SELECT * FROM users WHERE id='1' OR '1'='1'--"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(URL, payload)
	}
}

// The registry is filled by init and only read afterwards, so concurrent
// callers are safe under -race.
func TestConcurrentUse(t *testing.T) {
	modes := Modes()
	testutil.RunConcurrently(50, func(i int) {
		m := modes[i%len(modes)]
		out, err := Encode(m, "<a href='x'>")
		if !assert.NoError(t, err) {
			return
		}
		back, err := Decode(m, out)
		assert.NoError(t, err)
		assert.Equal(t, "<a href='x'>", back)
		assert.Len(t, EncodeWithAll("x"), len(modes))
	})
}
