package academy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/whatthewaf/whatthewaf/pkg/challenge"
	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/metrics"
	"github.com/whatthewaf/whatthewaf/pkg/rules"
	"github.com/whatthewaf/whatthewaf/pkg/scoring"
)

func TestNewSession(t *testing.T) {
	a, b := New(), New()
	_, err := uuid.Parse(a.ID())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, encoding.URL, a.Mode())
	assert.Same(t, rules.Default(), a.Catalogue())
	assert.Empty(t, a.CompletedLevels())
}

func TestDetect(t *testing.T) {
	s := New()
	res := s.Detect("1' UNION SELECT password FROM users--")
	assert.True(t, res.Blocked)
	assert.Contains(t, res.MatchedRuleIDs, "sqli-union-select")

	res = s.Detect("")
	assert.False(t, res.Blocked)
	assert.NotNil(t, res.MatchedRuleIDs)
	assert.Empty(t, res.MatchedRuleIDs)

	sum := s.Summary()
	assert.Equal(t, 2, sum.Detections)
	assert.Equal(t, 1, sum.Blocked)
}

func TestDetectAll(t *testing.T) {
	s := New()
	got := s.DetectAll([]string{"hello", "<script>", "; cat /etc/passwd"}, 2)
	require.Len(t, got, 3)
	assert.False(t, got[0].Blocked)
	assert.Contains(t, got[1].MatchedRuleIDs, "xss-script-tag")
	assert.Contains(t, got[2].MatchedRuleIDs, "cmd-injection")

	sum := s.Summary()
	assert.Equal(t, 3, sum.Detections)
	assert.Equal(t, 2, sum.Blocked)
}

func TestCustomCatalogue(t *testing.T) {
	c, err := rules.New(rules.NewLiteral("only-foo", rules.Generic, "foo", false))
	require.NoError(t, err)
	s := New(WithCatalogue(c))

	assert.True(t, s.Detect("FOO").Blocked)
	assert.False(t, s.Detect("<script>alert(1)</script>").Blocked)
}

func TestEncodeDecode(t *testing.T) {
	s := New()
	enc, err := s.Encode(encoding.Base64, "hello")
	require.NoError(t, err)
	dec, err := s.Decode(encoding.Base64, enc)
	require.NoError(t, err)
	assert.Equal(t, "hello", dec)

	_, err = s.Decode(encoding.Base64, "abc")
	require.ErrorIs(t, err, encoding.ErrMalformedInput)
	assert.Equal(t, 1, s.Summary().DecodeErrors)
}

func TestSetMode(t *testing.T) {
	s := New()
	require.NoError(t, s.SetMode(encoding.HTMLEntity))
	assert.Equal(t, encoding.HTMLEntity, s.Mode())
	assert.ErrorIs(t, s.SetMode("rot13"), encoding.ErrUnknownMode)
	assert.Equal(t, encoding.HTMLEntity, s.Mode())
}

func TestWorkbenchDecodeCountsFailures(t *testing.T) {
	s := New()
	s.Workbench().Output = "%G1"
	_, err := s.WorkbenchDecode()
	require.Error(t, err)
	assert.Empty(t, s.Workbench().Input)
	assert.Equal(t, 1, s.Summary().DecodeErrors)
}

func TestScore(t *testing.T) {
	s := New()
	r, err := s.ScoreToggle(scoring.ViolParameter)
	require.NoError(t, err)
	assert.Equal(t, ScoreResult{Total: 3, Status: scoring.StatusWarning}, r)

	r, err = s.ScoreToggle(scoring.ViolBotClient)
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusBlocked, r.Status)

	_, err = s.ScoreToggle("VIOL_NOPE")
	assert.ErrorIs(t, err, scoring.ErrUnknownViolation)

	r = s.ScoreReset()
	assert.Equal(t, ScoreResult{Total: 0, Status: scoring.StatusAllowed}, r)

	r, err = s.ScoreSimulate("api-client")
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusWarning, r.Status)

	r, err = s.ScoreSimulate("attack")
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusBlocked, r.Status)

	_, err = s.ScoreSimulate("nope")
	assert.ErrorIs(t, err, scoring.ErrUnknownScenario)
}

func TestSessionsAreIsolated(t *testing.T) {
	a, b := New(), New()
	_, err := a.ScoreToggle(scoring.ViolAttackSignature)
	require.NoError(t, err)
	_, err = a.ChallengeValidate(0, "<SCRIPT>")
	require.NoError(t, err)

	assert.Zero(t, b.ScoreSnapshot().Total)
	assert.Empty(t, b.CompletedLevels())
	assert.Equal(t, []int{0}, a.CompletedLevels())
}

func TestChallengeValidate(t *testing.T) {
	s := New()

	r, err := s.ChallengeValidate(0, "<SCRIPT>alert(1)</SCRIPT>")
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.True(t, r.NewlyCompleted)

	r, err = s.ChallengeValidate(0, "<ScRiPt>")
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.False(t, r.NewlyCompleted, "completion is counted once")
	assert.Equal(t, []int{0}, s.CompletedLevels())

	r, err = s.ChallengeValidate(1, "")
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.Equal(t, challenge.ReasonEmpty, r.Reason)

	_, err = s.ChallengeValidate(5, "x")
	assert.ErrorIs(t, err, challenge.ErrUnknownLevel)
	assert.Equal(t, 3, s.Progress().Attempts())
}

func TestQuizThroughSession(t *testing.T) {
	s := New()
	q := s.Quiz()
	for _, a := range []int{1, 2, 1, 2, 2} {
		_, err := q.Answer(a)
		require.NoError(t, err)
		require.NoError(t, q.Next())
	}
	sum := s.Summary()
	assert.True(t, sum.QuizFinished)
	assert.Equal(t, 100, sum.QuizPercent)
	assert.Equal(t, "5 / 5", sum.QuizScore)
}

func TestLoggingAndMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p, err := metrics.NewPrometheus()
	require.NoError(t, err)
	s := New(WithLogger(zap.New(core)), WithRecorder(p))

	s.Detect("<script>alert(1)</script>")
	_, _ = s.Decode(encoding.URL, "%")
	_, _ = s.ChallengeValidate(0, "<SCRIPT>")
	_, _ = s.ScoreSimulate("attack")

	assert.Positive(t, testutil.CollectAndCount(p.Registry()))

	completed := logs.FilterMessage("level completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, s.ID(), completed[0].ContextMap()["session"])
	assert.Equal(t, 1, logs.FilterMessage("decode failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("detect").Len())
	assert.Equal(t, 1, logs.FilterMessage("challenge attempt").Len())
}
