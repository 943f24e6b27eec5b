package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevels(t *testing.T) {
	require.Equal(t, 5, Count())
	for i, lv := range Levels() {
		assert.Equal(t, i, lv.Index)
		assert.Equal(t, i+1, lv.Number())
		assert.NotEmpty(t, lv.Title)
		assert.NotEmpty(t, lv.Hint)
		assert.NotEmpty(t, lv.Defense)
		assert.NoError(t, lv.Target.Validate(), lv.Target.ID)
		assert.True(t, lv.Technique.IsValid())
		assert.Contains(t, lv.String(), lv.Title)
	}

	_, err := Get(5)
	assert.ErrorIs(t, err, ErrUnknownLevel)
	_, err = Get(-1)
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		input   string
		success bool
		reason  string
	}{
		{"uppercase script", 0, "<SCRIPT>alert(1)</SCRIPT>", true, ""},
		{"mixed case script", 0, "<ScRiPt>alert(1)</ScRiPt>", true, ""},
		{"lowercase script blocked", 0, "<script>alert(1)</script>", false, "blocked by rule challenge-script-lowercase"},
		{"plain text", 0, "SCRIPT alert(1)", false, "not recognised as a script tag"},

		{"encoded traversal to passwd", 1, "%2e%2e%2f%2e%2e%2f%2e%2e%2fetc/passwd", true, ""},
		{"encoded traversal", 1, "%2e%2e%2f%2e%2e%2f", true, ""},
		{"encoded slash only", 1, "..%2fetc", true, ""},
		{"literal traversal blocked", 1, "../../", false, "blocked by rule challenge-dotdot-slash"},
		{"encoded backslash traversal", 1, "%2e%2e%5c%2e%2e%5cwin.ini", true, ""},
		{"raw backslash traversal", 1, `..\..\`, false, "not percent-encoded"},
		{"no traversal", 1, "%2fetc%2fpasswd", false, "not recognised as path traversal after URL decoding"},
		{"bad escape", 1, "%zz", false, ""},

		{"comment split", 2, "UNION/**/SELECT", true, ""},
		{"comment split with text", 2, "1 union/*x*/select password from users", true, ""},
		{"comment split all", 2, "UNION/**/ALL/**/SELECT", true, ""},
		{"contiguous blocked", 2, "UNION SELECT", false, "blocked by rule challenge-union-select"},
		{"no comment", 2, "UNIONSELECT", false, "not recognised as UNION SELECT split by a block comment"},

		{"img onerror", 3, "<img/src=x onerror=alert(1)>", true, ""},
		{"svg onload", 3, "<svg onload=alert(1)>", true, ""},
		{"javascript href", 3, `<a href="javascript:alert(1)">x</a>`, true, ""},
		{"script blocked", 3, "<SCRIPT>alert(1)</SCRIPT>", false, "blocked by rule challenge-script-tag"},
		{"harmless tag", 3, "<b>bold</b>", false, "not recognised as an event handler or javascript: URL"},

		{"encoded tautology", 4, "%27%20OR%201=1%23", true, ""},
		{"encoded string tautology", 4, "%27%20OR%20%27a%27=%27a", true, ""},
		{"raw tautology blocked", 4, "' OR 1=1--", false, "blocked by rule challenge-quote-tautology"},
		{"not encoded", 4, "' OR 2=2", false, "not percent-encoded"},
		{"encoded non tautology", 4, "%27%20OR%201=2", false, "not recognised as a SQL tautology after URL decoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Validate(tt.level, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.level, a.Level)
			assert.Equal(t, tt.input, a.Input)
			assert.Equal(t, tt.success, a.Succeeded(), a.Reason)
			if tt.success {
				assert.Equal(t, Success, a.Outcome)
				assert.Empty(t, a.Reason)
			} else {
				assert.Equal(t, Failure, a.Outcome)
				assert.NotEmpty(t, a.Reason)
			}
			if tt.reason != "" {
				assert.Equal(t, tt.reason, a.Reason)
			}
		})
	}
}

func TestValidateEmptySubmission(t *testing.T) {
	for lv := 0; lv < Count(); lv++ {
		for _, in := range []string{"", "   ", "\t\n"} {
			a, err := Validate(lv, in)
			require.NoError(t, err)
			assert.False(t, a.Succeeded())
			assert.Equal(t, ReasonEmpty, a.Reason)
		}
	}
}

func TestValidateUnknownLevel(t *testing.T) {
	_, err := Validate(7, "<SCRIPT>")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestValidateNeverSucceedsWhenTargetMatches(t *testing.T) {
	inputs := []string{
		"<script>", "<SCRIPT>", "../", "%2e%2e%2f", "UNION SELECT", "UNION/**/SELECT",
		"<img onerror=x>", "' or 1=1", "%27%20OR%201=1", "",
	}
	for _, lv := range Levels() {
		for _, in := range inputs {
			a, err := Validate(lv.Index, in)
			require.NoError(t, err)
			if a.Succeeded() {
				assert.False(t, lv.Target.Matches(in), "level %d accepted %q", lv.Number(), in)
			}
		}
	}
}

type attemptRecorder struct {
	attempts map[int]int
	success  int
}

func (r *attemptRecorder) Detection(bool, []string) {}
func (r *attemptRecorder) DecodeError(string)       {}
func (r *attemptRecorder) Score(int, string)        {}
func (r *attemptRecorder) ChallengeAttempt(level int, ok bool) {
	if r.attempts == nil {
		r.attempts = make(map[int]int)
	}
	r.attempts[level]++
	if ok {
		r.success++
	}
}

func TestValidatorLogsAndRecords(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &attemptRecorder{}
	v := NewValidator(WithLogger(zap.New(core)), WithRecorder(rec), WithLogger(nil))

	_, err := v.Validate(0, "<SCRIPT>")
	require.NoError(t, err)
	_, err = v.Validate(0, "<script>")
	require.NoError(t, err)
	_, err = v.Validate(9, "x")
	require.Error(t, err)

	assert.Equal(t, 2, rec.attempts[0])
	assert.Equal(t, 1, rec.success)

	entries := logs.FilterMessage("challenge attempt").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "success", entries[0].ContextMap()["outcome"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["level"])
	assert.Equal(t, "challenge-script-lowercase", entries[1].ContextMap()["target_rule"])
}

func TestProgressIdempotent(t *testing.T) {
	p := NewProgress()
	win, _ := Validate(0, "<SCRIPT>")
	lose, _ := Validate(0, "<script>")

	assert.True(t, p.Record(win))
	assert.False(t, p.Record(win), "second success does not count again")
	assert.False(t, p.Record(lose))
	assert.Equal(t, []int{0}, p.Completed())
	assert.Equal(t, 1, p.CompletedCount())
	assert.True(t, p.IsCompleted(0))
	assert.False(t, p.IsCompleted(1))

	assert.Equal(t, 3, p.Attempts())
	assert.Equal(t, 2, p.DistinctAttempts(0))
	assert.Equal(t, 0, p.DistinctAttempts(1))
}

func TestProgressCompletedSorted(t *testing.T) {
	p := NewProgress()
	for _, tc := range []struct {
		level int
		input string
	}{
		{4, "%27%20OR%201=1%23"},
		{2, "UNION/**/SELECT"},
		{0, "<SCRIPT>"},
	} {
		a, err := Validate(tc.level, tc.input)
		require.NoError(t, err)
		require.True(t, p.Record(a), tc.input)
	}
	assert.Equal(t, []int{0, 2, 4}, p.Completed())

	p.Reset()
	assert.Empty(t, p.Completed())
	assert.Zero(t, p.Attempts())
}

func TestFingerprintSeparatesLevels(t *testing.T) {
	assert.Equal(t, fingerprint(1, "x"), fingerprint(1, "x"))
	assert.NotEqual(t, fingerprint(1, "x"), fingerprint(2, "x"))
	assert.NotEqual(t, fingerprint(1, "x"), fingerprint(1, "y"))
}
