package rules

import (
	"strings"

	"github.com/whatthewaf/whatthewaf/pkg/regexcache"
)

// MatcherKind tags which variant a Matcher is.
type MatcherKind string

const (
	// KindLiteral matches a fixed substring.
	KindLiteral MatcherKind = "literal"
	// KindRegex matches a regular expression.
	KindRegex MatcherKind = "regex"
)

// Matcher is the pattern half of a rule. The case mode is owned by the
// rule and passed in on every call, so the same matcher can back a
// case-sensitive and a case-insensitive rule.
type Matcher interface {
	Kind() MatcherKind
	Pattern() string
	Match(input string, caseSensitive bool) bool
}

// Literal matches when the input contains Text.
type Literal struct {
	Text string
}

// Kind implements Matcher.
func (Literal) Kind() MatcherKind { return KindLiteral }

// Pattern implements Matcher.
func (l Literal) Pattern() string { return l.Text }

// Match implements Matcher. An empty literal never matches.
func (l Literal) Match(input string, caseSensitive bool) bool {
	if l.Text == "" || input == "" {
		return false
	}
	if caseSensitive {
		return strings.Contains(input, l.Text)
	}
	return strings.Contains(strings.ToLower(input), strings.ToLower(l.Text))
}

// Regex matches when Expr finds a match anywhere in the input.
type Regex struct {
	Expr string
}

// Kind implements Matcher.
func (Regex) Kind() MatcherKind { return KindRegex }

// Pattern implements Matcher.
func (r Regex) Pattern() string { return r.Expr }

// Match implements Matcher. A pattern that fails to compile never matches;
// rules are validated when they are built so this only happens for
// hand-constructed matchers.
func (r Regex) Match(input string, caseSensitive bool) bool {
	if input == "" {
		return false
	}
	re, err := regexcache.Get(r.Expr, caseSensitive)
	if err != nil {
		return false
	}
	return re.MatchString(input)
}

// compile checks that the regex compiles in the given case mode.
func (r Regex) compile(caseSensitive bool) error {
	_, err := regexcache.Get(r.Expr, caseSensitive)
	return err
}
