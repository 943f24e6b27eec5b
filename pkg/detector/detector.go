// Package detector runs input text against a rule catalogue and returns
// the allow/block verdict.
//
// Matching is always done on the raw input. Nothing is decoded or
// normalized first, so an encoded or case-shifted payload is only caught
// if a rule was written for that form.
package detector

import (
	"go.uber.org/zap"

	"github.com/whatthewaf/whatthewaf/pkg/metrics"
	"github.com/whatthewaf/whatthewaf/pkg/rules"
)

// Verdict is the allow/block decision for one input.
type Verdict string

const (
	Allowed Verdict = "ALLOWED"
	Blocked Verdict = "BLOCKED"
)

// Result is the outcome of one Detect call.
type Result struct {
	// Input is the text that was evaluated, unchanged.
	Input string
	// Matched holds every rule that fired, in catalogue order.
	Matched []rules.Rule
}

// Blocked reports whether any rule matched.
func (r Result) Blocked() bool {
	return len(r.Matched) > 0
}

// Verdict returns ALLOWED or BLOCKED.
func (r Result) Verdict() Verdict {
	if r.Blocked() {
		return Blocked
	}
	return Allowed
}

// MatchedRuleIDs returns the ids of the matched rules. Never nil.
func (r Result) MatchedRuleIDs() []string {
	ids := make([]string, 0, len(r.Matched))
	for _, m := range r.Matched {
		ids = append(ids, m.ID)
	}
	return ids
}

// First returns the first matched rule in catalogue order.
func (r Result) First() (rules.Rule, bool) {
	if len(r.Matched) == 0 {
		return rules.Rule{}, false
	}
	return r.Matched[0], true
}

// Categories returns the category of each matched rule, one per match.
func (r Result) Categories() []string {
	out := make([]string, 0, len(r.Matched))
	for _, m := range r.Matched {
		out = append(out, m.Category.String())
	}
	return out
}

// Detector evaluates input against a fixed catalogue.
type Detector struct {
	catalogue *rules.Catalogue
	log       *zap.Logger
	recorder  metrics.Recorder
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for per-evaluation debug lines.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Detector) {
		if r != nil {
			d.recorder = r
		}
	}
}

// New creates a detector over c. A nil catalogue means rules.Default().
func New(c *rules.Catalogue, opts ...Option) *Detector {
	if c == nil {
		c = rules.Default()
	}
	d := &Detector{
		catalogue: c,
		log:       zap.NewNop(),
		recorder:  metrics.Nop{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalogue returns the rules this detector evaluates.
func (d *Detector) Catalogue() *rules.Catalogue {
	return d.catalogue
}

// Detect evaluates every rule against input. Empty input is valid and
// yields an empty, allowed result.
func (d *Detector) Detect(input string) Result {
	res := Result{Input: input}
	if input != "" {
		d.catalogue.Each(func(r rules.Rule) bool {
			if r.Matches(input) {
				res.Matched = append(res.Matched, r)
			}
			return true
		})
	}

	d.recorder.Detection(res.Blocked(), res.Categories())
	if ce := d.log.Check(zap.DebugLevel, "detect"); ce != nil {
		ce.Write(
			zap.Int("input_len", len(input)),
			zap.String("verdict", string(res.Verdict())),
			zap.Strings("rule_ids", res.MatchedRuleIDs()),
		)
	}
	return res
}

// DetectRule reports whether a single rule fires on input. It is the
// detector restricted to a one-rule catalogue.
func DetectRule(r rules.Rule, input string) bool {
	if input == "" {
		return false
	}
	return r.Matches(input)
}

// Detect runs input against the default catalogue with no observers.
func Detect(input string) Result {
	return defaultDetector.Detect(input)
}

var defaultDetector = New(nil)
