package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whatthewaf/whatthewaf/pkg/academy"
	"github.com/whatthewaf/whatthewaf/pkg/jsonutil"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func playedSession(t *testing.T) *academy.Session {
	t.Helper()
	s := academy.New()
	s.Detect("<script>alert(1)</script>")
	s.Detect("hello")
	_, err := s.ScoreSimulate("attack")
	require.NoError(t, err)
	_, err = s.ChallengeValidate(0, "<SCRIPT>")
	require.NoError(t, err)
	_, err = s.ChallengeValidate(2, "UNION/**/SELECT")
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"": FormatText, "txt": FormatText, "MD": FormatMarkdown, ".html": FormatHTML, "json": FormatJSON,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	s := playedSession(t)
	r := Build(s.Summary(), fixedNow)

	require.Len(t, r.Levels, 5)
	assert.True(t, r.Levels[0].Completed)
	assert.False(t, r.Levels[1].Completed)
	assert.True(t, r.Levels[2].Completed)
	assert.Len(t, r.Recommendations, 2)
	assert.Equal(t, s.ID(), r.Summary.SessionID)
}

func TestGenerateAllFormats(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	r := Build(playedSession(t).Summary(), fixedNow)

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			out, err := g.GenerateToString(r, f)
			require.NoError(t, err)
			assert.Contains(t, out, r.Summary.SessionID)
			assert.Contains(t, out, "Case Sensitivity")
		})
	}
}

func TestGenerateText(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	out, err := g.GenerateToString(Build(playedSession(t).Summary(), fixedNow), FormatText)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "WHAT THE WAF SESSION REPORT\n"))
	assert.Contains(t, out, "2026-03-14 09:26:53")
	assert.Contains(t, out, "total 7 -> BLOCKED")
	assert.Contains(t, out, "CHALLENGES 2/5")
	assert.Contains(t, out, "[x] Level 1")
	assert.Contains(t, out, "[ ] Level 2")
	assert.Contains(t, out, "not finished")
	assert.Contains(t, out, "DEFENSES LEARNED")
}

func TestGenerateMarkdown(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	out, err := g.GenerateToString(Build(academy.New().Summary(), fixedNow), FormatMarkdown)
	require.NoError(t, err)

	assert.Contains(t, out, "# What The WAF Session Report")
	assert.Contains(t, out, "| 1 | Case Sensitivity |")
	assert.Contains(t, out, "| no |")
	assert.NotContains(t, out, "Defenses learned")
}

func TestGenerateHTMLEscapes(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	r := Build(academy.New().Summary(), fixedNow)
	r.Recommendations = []string{"<script>alert(1)</script>"}

	out, err := g.GenerateToString(r, FormatHTML)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestGenerateJSON(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	r := Build(playedSession(t).Summary(), fixedNow)
	out, err := g.GenerateToString(r, FormatJSON)
	require.NoError(t, err)

	var back Report
	require.NoError(t, jsonutil.UnmarshalStrict([]byte(out), &back))
	assert.Equal(t, r.Summary.SessionID, back.Summary.SessionID)
	assert.Equal(t, []int{0, 2}, back.Summary.CompletedLevels)
	assert.True(t, back.GeneratedAt.Equal(fixedNow))
}

func TestGenerateUnknownFormat(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	_, err = g.GenerateToString(Build(academy.New().Summary(), fixedNow), Format("pdf"))
	assert.Error(t, err)
}
