package challenge

import (
	"strings"

	"go.uber.org/zap"

	"github.com/whatthewaf/whatthewaf/pkg/detector"
	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/metrics"
)

// Outcome of an attempt.
type Outcome string

const (
	Success Outcome = "success"
	Failure Outcome = "failure"
)

// ReasonEmpty is the failure reason for blank submissions.
const ReasonEmpty = "empty submission"

// Attempt is the result of validating one submission.
type Attempt struct {
	Level   int     `json:"level"`
	Input   string  `json:"input"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Succeeded reports whether the attempt bypassed the level.
func (a Attempt) Succeeded() bool { return a.Outcome == Success }

// Validator checks submissions. The zero value is not usable; call
// NewValidator.
type Validator struct {
	logger   *zap.Logger
	recorder metrics.Recorder
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(v *Validator) {
		if r != nil {
			v.recorder = r
		}
	}
}

// NewValidator returns a validator that logs nothing and records nothing
// unless configured to.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{logger: zap.NewNop(), recorder: metrics.Nop{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks input against the level at 0-based index level. An
// unknown level is the only error; everything else is reported through
// the Attempt.
//
// A submission succeeds when the level's target rule alone does not match
// the raw text and the normalized text still carries the level's
// technique.
func (v *Validator) Validate(level int, input string) (Attempt, error) {
	lv, err := Get(level)
	if err != nil {
		return Attempt{}, err
	}

	a := Attempt{Level: level, Input: input, Outcome: Failure}
	a.Reason = evaluate(lv, input)
	if a.Reason == "" {
		a.Outcome = Success
	}

	v.recorder.ChallengeAttempt(level, a.Succeeded())
	if ce := v.logger.Check(zap.DebugLevel, "challenge attempt"); ce != nil {
		ce.Write(
			zap.Int("level", lv.Number()),
			zap.String("target_rule", lv.Target.ID),
			zap.String("outcome", string(a.Outcome)),
			zap.String("reason", a.Reason),
		)
	}
	return a, nil
}

func evaluate(lv Level, input string) string {
	if strings.TrimSpace(input) == "" {
		return ReasonEmpty
	}
	if detector.DetectRule(lv.Target, input) {
		return "blocked by rule " + lv.Target.ID
	}

	text := input
	if lv.Normalize == NormalizeURLDecode {
		decoded, err := encoding.Decode(encoding.URL, input)
		if err != nil {
			return "could not URL-decode: " + err.Error()
		}
		text = decoded
	}
	return lv.recognise(input, text)
}

var defaultValidator = NewValidator()

// Validate checks input with a validator that neither logs nor records.
func Validate(level int, input string) (Attempt, error) {
	return defaultValidator.Validate(level, input)
}
