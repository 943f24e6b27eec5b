package hexutil

import (
	"fmt"
	"strings"
	"testing"
)

func TestLookupTablesCorrectness(t *testing.T) {
	for i := 0; i < 256; i++ {
		expected := fmt.Sprintf("%%%02X", i)
		if PercentEncoded[i] != expected {
			t.Errorf("PercentEncoded[%d] = %q, expected %q", i, PercentEncoded[i], expected)
		}
	}

	for i := 0; i < 128; i++ {
		expected := fmt.Sprintf("&#%d;", i)
		if DecEntity[i] != expected {
			t.Errorf("DecEntity[%d] = %q, expected %q", i, DecEntity[i], expected)
		}
	}
}

func TestIsUnreserved(t *testing.T) {
	for _, c := range []byte("azAZ09-_~") {
		if !IsUnreserved(c) {
			t.Errorf("expected %q to be unreserved", c)
		}
	}
	for _, c := range []byte("./ '%<>&=?#") {
		if IsUnreserved(c) {
			t.Errorf("expected %q to be escaped", c)
		}
	}
}

func TestWriteDecEntity(t *testing.T) {
	var sb strings.Builder
	WriteDecEntity(&sb, '<')
	WriteDecEntity(&sb, 'é')
	WriteDecEntity(&sb, '😀')
	if got := sb.String(); got != "&#60;&#233;&#128512;" {
		t.Errorf("got %q", got)
	}
}

func TestWriteUnicodeEscape(t *testing.T) {
	var sb strings.Builder
	WriteUnicodeEscape(&sb, 't')
	WriteUnicodeEscape(&sb, 0xD83D)
	if got := sb.String(); got != `t\ud83d` {
		t.Errorf("got %q", got)
	}
}

func TestUnhex(t *testing.T) {
	for i, c := range []byte(HexUpper) {
		v, ok := Unhex(c)
		if !ok || int(v) != i {
			t.Errorf("Unhex(%q) = %d, %v", c, v, ok)
		}
	}
	for i, c := range []byte(HexLower) {
		v, ok := Unhex(c)
		if !ok || int(v) != i {
			t.Errorf("Unhex(%q) = %d, %v", c, v, ok)
		}
	}
	if _, ok := Unhex('g'); ok {
		t.Error("expected 'g' to be rejected")
	}
}

func TestParseHex4(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
		ok   bool
	}{
		{"0074", 0x74, true},
		{"FFFF", 0xFFFF, true},
		{"d83dXX", 0xD83D, true},
		{"007", 0, false},
		{"00z4", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseHex4(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseHex4(%q) = %#x, %v; want %#x, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func BenchmarkWritePercentEncoded(b *testing.B) {
	payload := "SELECT * FROM users WHERE id='1' OR '1'='1'--"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var sb strings.Builder
		sb.Grow(len(payload) * 3)
		for j := 0; j < len(payload); j++ {
			WritePercentEncoded(&sb, payload[j])
		}
		_ = sb.String()
	}
}
