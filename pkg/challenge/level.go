// Package challenge validates bypass attempts against deliberately weak
// rules. Each level pairs one target rule with the evasion technique that
// slips past it.
package challenge

import (
	"fmt"

	"github.com/whatthewaf/whatthewaf/pkg/rules"
)

// Normalization is how submitted text is prepared before technique
// recognition.
type Normalization string

const (
	NormalizeNone      Normalization = "none"
	NormalizeURLDecode Normalization = "url-decode"
	NormalizeLiteral   Normalization = "literal"
)

// Level is one bypass exercise.
type Level struct {
	Index       int
	Title       string
	Description string
	Hint        string
	Defense     string
	Target      rules.Rule
	Technique   rules.Category
	Normalize   Normalization

	// recognise returns "" when text carries the technique, otherwise the
	// reason it does not. raw is the submission as typed; text is raw
	// after normalization.
	recognise func(raw, text string) string
}

// Number is the 1-based level number shown to players.
func (l Level) Number() int { return l.Index + 1 }

func (l Level) String() string {
	return fmt.Sprintf("Level %d: %s", l.Number(), l.Title)
}

var levels = []Level{
	{
		Title:       "Case Sensitivity",
		Description: "The filter blocks the exact string <script>. Get a script tag past it.",
		Hint:        "HTML tag names are case-insensitive, but this rule is not.",
		Defense:     "Match tag names case-insensitively, or normalise case before matching.",
		Target:      rules.ChallengeScriptLowercase,
		Technique:   rules.XSS,
		Normalize:   NormalizeNone,
		recognise: func(_, text string) string {
			if !hasScriptTag(text) {
				return "not recognised as a script tag"
			}
			return ""
		},
	},
	{
		Title:       "URL Encoding",
		Description: "The filter blocks the literal sequence ../. Climb out of the web root anyway.",
		Hint:        "The server decodes %XX escapes after the filter has looked at the request.",
		Defense:     "Decode the request fully before inspection and reject traversal after canonicalisation.",
		Target:      rules.ChallengeDotDotSlash,
		Technique:   rules.PathTraversal,
		Normalize:   NormalizeURLDecode,
		recognise: func(raw, text string) string {
			if !hasPercentEscape(raw) {
				return "not percent-encoded"
			}
			if !hasTraversal(text) {
				return "not recognised as path traversal after URL decoding"
			}
			return ""
		},
	},
	{
		Title:       "SQL Comments",
		Description: "The filter blocks UNION followed by whitespace and SELECT. Join the queries anyway.",
		Hint:        "To a SQL parser, an inline /* comment */ is as good as a space.",
		Defense:     "Strip or reject SQL comments before matching keywords, or use parameterised queries.",
		Target:      rules.ChallengeUnionSelect,
		Technique:   rules.SQLi,
		Normalize:   NormalizeLiteral,
		recognise: func(raw, _ string) string {
			if !commentSplitUnion(raw) {
				return "not recognised as UNION SELECT split by a block comment"
			}
			return ""
		},
	},
	{
		Title:       "Alternative Tags",
		Description: "The filter blocks every <script element. Run JavaScript without one.",
		Hint:        "Plenty of elements run code from an event handler such as onerror.",
		Defense:     "Encode output for its HTML context and deploy a Content Security Policy.",
		Target:      rules.ChallengeScriptTag,
		Technique:   rules.XSS,
		Normalize:   NormalizeNone,
		recognise: func(_, text string) string {
			if _, _, ok := scriptlessHandler(text); !ok {
				return "not recognised as an event handler or javascript: URL"
			}
			return ""
		},
	},
	{
		Title:       "Encoded Injection",
		Description: "The filter blocks ' OR 1=1. Deliver the tautology anyway.",
		Hint:        "Percent-encode the quote and spaces; the application decodes them later.",
		Defense:     "Inspect decoded parameters and bind values through prepared statements.",
		Target:      rules.ChallengeQuoteTautology,
		Technique:   rules.SQLi,
		Normalize:   NormalizeURLDecode,
		recognise: func(raw, text string) string {
			if !hasPercentEscape(raw) {
				return "not percent-encoded"
			}
			if !quotedTautology(text) {
				return "not recognised as a SQL tautology after URL decoding"
			}
			return ""
		},
	},
}

func init() {
	for i := range levels {
		levels[i].Index = i
	}
}

// Count is the number of levels.
func Count() int { return len(levels) }

// Levels returns all levels in order.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Get returns the level at 0-based index i.
func Get(i int) (Level, error) {
	if i < 0 || i >= len(levels) {
		return Level{}, fmt.Errorf("%w: %d", ErrUnknownLevel, i)
	}
	return levels[i], nil
}
