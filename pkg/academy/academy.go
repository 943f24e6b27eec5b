// Package academy is the session-scoped surface of the engine. A Session
// owns every piece of mutable state one learner touches: the score
// calculator, challenge progress, the quiz and the encoder workbench.
// Nothing here is global.
package academy

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/whatthewaf/whatthewaf/pkg/challenge"
	"github.com/whatthewaf/whatthewaf/pkg/detector"
	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/metrics"
	"github.com/whatthewaf/whatthewaf/pkg/quiz"
	"github.com/whatthewaf/whatthewaf/pkg/rules"
	"github.com/whatthewaf/whatthewaf/pkg/scoring"
)

// DetectResult is the outcome of Session.Detect.
type DetectResult struct {
	Blocked        bool     `json:"blocked"`
	MatchedRuleIDs []string `json:"matched_rule_ids"`
	// Matched holds the full rules for rendering.
	Matched []rules.Rule `json:"-"`
}

// ScoreResult is the calculator state after a score operation.
type ScoreResult struct {
	Total  int            `json:"total"`
	Status scoring.Status `json:"status"`
}

// ChallengeResult is the outcome of one challenge submission.
type ChallengeResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	// NewlyCompleted is true only the first time a level is solved.
	NewlyCompleted bool `json:"newly_completed"`
}

// Session is one learner's state. Not safe for concurrent use.
type Session struct {
	id        string
	log       *zap.Logger
	recorder  metrics.Recorder
	catalogue *rules.Catalogue

	detector  *detector.Detector
	validator *challenge.Validator
	score     *scoring.State
	progress  *challenge.Progress
	quiz      *quiz.Session
	bench     *encoding.Workbench

	stats struct {
		detections   int
		blocked      int
		decodeErrors int
	}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Every line carries the session ID.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets the metrics recorder shared by the session's parts.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithCatalogue replaces the default detection rules.
func WithCatalogue(c *rules.Catalogue) Option {
	return func(s *Session) {
		if c != nil {
			s.catalogue = c
		}
	}
}

// New starts a session.
func New(opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		log:       zap.NewNop(),
		recorder:  metrics.Nop{},
		catalogue: rules.Default(),
		score:     scoring.NewState(),
		progress:  challenge.NewProgress(),
		quiz:      quiz.NewSession(),
		bench:     encoding.NewWorkbench(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("session", s.id))
	s.detector = detector.New(s.catalogue, detector.WithLogger(s.log), detector.WithRecorder(s.recorder))
	s.validator = challenge.NewValidator(challenge.WithLogger(s.log), challenge.WithRecorder(s.recorder))
	return s
}

// ID returns the session's UUID.
func (s *Session) ID() string { return s.id }

// Catalogue returns the rules the session detects with.
func (s *Session) Catalogue() *rules.Catalogue { return s.catalogue }

// Detect runs input through the session's catalogue.
func (s *Session) Detect(input string) DetectResult {
	res := s.detector.Detect(input)
	s.stats.detections++
	if res.Blocked() {
		s.stats.blocked++
	}
	return DetectResult{Blocked: res.Blocked(), MatchedRuleIDs: res.MatchedRuleIDs(), Matched: res.Matched}
}

// DetectAll runs every input through the catalogue on a pool of workers.
// Results come back in input order and are counted like Detect.
func (s *Session) DetectAll(inputs []string, workers int) []DetectResult {
	out := make([]DetectResult, 0, len(inputs))
	for _, res := range s.detector.DetectAll(inputs, workers) {
		s.stats.detections++
		if res.Blocked() {
			s.stats.blocked++
		}
		out = append(out, DetectResult{Blocked: res.Blocked(), MatchedRuleIDs: res.MatchedRuleIDs(), Matched: res.Matched})
	}
	return out
}

// Encode transforms text with mode.
func (s *Session) Encode(mode encoding.Mode, text string) (string, error) {
	return encoding.Encode(mode, text)
}

// Decode reverses mode on text. Malformed input is counted and logged.
func (s *Session) Decode(mode encoding.Mode, text string) (string, error) {
	out, err := encoding.Decode(mode, text)
	if err != nil {
		s.decodeFailed(mode, err)
		return "", err
	}
	return out, nil
}

func (s *Session) decodeFailed(mode encoding.Mode, err error) {
	if !encoding.IsMalformed(err) {
		return
	}
	s.stats.decodeErrors++
	s.recorder.DecodeError(string(mode))
	s.log.Info("decode failed", zap.String("mode", string(mode)), zap.Error(err))
}

// SetMode selects the workbench mode.
func (s *Session) SetMode(mode encoding.Mode) error { return s.bench.SetMode(mode) }

// Mode returns the workbench mode. It is URL for a new session.
func (s *Session) Mode() encoding.Mode { return s.bench.Mode() }

// Workbench exposes the encoder tool panes.
func (s *Session) Workbench() *encoding.Workbench { return s.bench }

// WorkbenchDecode decodes the output pane, counting failures like Decode.
func (s *Session) WorkbenchDecode() (string, error) {
	out, err := s.bench.Decode()
	if err != nil {
		s.decodeFailed(s.bench.Mode(), err)
	}
	return out, err
}

// ScoreToggle adds or removes a violation.
func (s *Session) ScoreToggle(code string) (ScoreResult, error) {
	snap, err := s.score.Toggle(code)
	if err != nil {
		return toScore(snap), err
	}
	return s.scored(snap), nil
}

// ScoreReset clears all violations.
func (s *Session) ScoreReset() ScoreResult {
	return s.scored(s.score.Reset())
}

// ScoreSimulate loads a scenario preset.
func (s *Session) ScoreSimulate(name string) (ScoreResult, error) {
	snap, err := s.score.Simulate(name)
	if err != nil {
		return toScore(snap), err
	}
	return s.scored(snap), nil
}

// ScoreSnapshot returns the calculator state including the selection.
func (s *Session) ScoreSnapshot() scoring.Snapshot { return s.score.Snapshot() }

func (s *Session) scored(snap scoring.Snapshot) ScoreResult {
	s.recorder.Score(snap.Total, string(snap.Status))
	s.log.Debug("score", zap.Int("total", snap.Total), zap.String("status", string(snap.Status)))
	return toScore(snap)
}

func toScore(snap scoring.Snapshot) ScoreResult {
	return ScoreResult{Total: snap.Total, Status: snap.Status}
}

// ChallengeValidate checks a submission for the 0-based level and records
// it in the session's progress.
func (s *Session) ChallengeValidate(level int, input string) (ChallengeResult, error) {
	a, err := s.validator.Validate(level, input)
	if err != nil {
		return ChallengeResult{}, err
	}
	fresh := s.progress.Record(a)
	if fresh {
		s.log.Info("level completed", zap.Int("level", level+1), zap.Int("completed", s.progress.CompletedCount()))
	}
	return ChallengeResult{Success: a.Succeeded(), Reason: a.Reason, NewlyCompleted: fresh}, nil
}

// CompletedLevels returns solved 0-based level indexes in order.
func (s *Session) CompletedLevels() []int { return s.progress.Completed() }

// Progress exposes challenge progress.
func (s *Session) Progress() *challenge.Progress { return s.progress }

// Quiz exposes the quiz session.
func (s *Session) Quiz() *quiz.Session { return s.quiz }

// Summary is a point-in-time digest of the session for reports.
type Summary struct {
	SessionID       string           `json:"session_id"`
	Detections      int              `json:"detections"`
	Blocked         int              `json:"blocked"`
	DecodeErrors    int              `json:"decode_errors"`
	Score           scoring.Snapshot `json:"score"`
	Attempts        int              `json:"attempts"`
	CompletedLevels []int            `json:"completed_levels"`
	LevelCount      int              `json:"level_count"`
	QuizScore       string           `json:"quiz_score"`
	QuizFinished    bool             `json:"quiz_finished"`
	QuizPercent     int              `json:"quiz_percent"`
}

// Summary digests the session.
func (s *Session) Summary() Summary {
	return Summary{
		SessionID:       s.id,
		Detections:      s.stats.detections,
		Blocked:         s.stats.blocked,
		DecodeErrors:    s.stats.decodeErrors,
		Score:           s.score.Snapshot(),
		Attempts:        s.progress.Attempts(),
		CompletedLevels: s.progress.Completed(),
		LevelCount:      challenge.Count(),
		QuizScore:       s.quiz.Score(),
		QuizFinished:    s.quiz.Finished(),
		QuizPercent:     s.quiz.Percent(),
	}
}
