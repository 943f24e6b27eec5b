package rules

import (
	"fmt"
	"strings"
)

// Rule is a single named detection pattern. Rules are values and are never
// mutated after construction.
type Rule struct {
	ID            string
	Category      Category
	Matcher       Matcher
	CaseSensitive bool
	Description   string
	// Score is the anomaly weight shown next to the rule in listings.
	Score int
}

// Matches reports whether the rule fires on the raw input.
func (r Rule) Matches(input string) bool {
	if r.Matcher == nil {
		return false
	}
	return r.Matcher.Match(input, r.CaseSensitive)
}

// Validate checks the rule is well-formed.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRule)
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("%w: rule %s has unknown category %q", ErrInvalidRule, r.ID, r.Category)
	}
	switch m := r.Matcher.(type) {
	case nil:
		return fmt.Errorf("%w: rule %s has no pattern", ErrInvalidRule, r.ID)
	case Literal:
		if m.Text == "" {
			return fmt.Errorf("%w: rule %s has an empty literal", ErrInvalidRule, r.ID)
		}
	case Regex:
		if m.Expr == "" {
			return fmt.Errorf("%w: rule %s has an empty regex", ErrInvalidRule, r.ID)
		}
		if err := m.compile(r.CaseSensitive); err != nil {
			return fmt.Errorf("%w: rule %s: %v", ErrInvalidRule, r.ID, err)
		}
	}
	if r.Score < 0 {
		return fmt.Errorf("%w: rule %s has negative score", ErrInvalidRule, r.ID)
	}
	return nil
}

// String renders the rule as "id [category] kind:pattern".
func (r Rule) String() string {
	if r.Matcher == nil {
		return fmt.Sprintf("%s [%s]", r.ID, r.Category)
	}
	return fmt.Sprintf("%s [%s] %s:%s", r.ID, r.Category, r.Matcher.Kind(), r.Matcher.Pattern())
}

// NewLiteral builds a substring rule.
func NewLiteral(id string, cat Category, text string, caseSensitive bool) Rule {
	return Rule{ID: id, Category: cat, Matcher: Literal{Text: text}, CaseSensitive: caseSensitive}
}

// NewRegex builds a regular expression rule.
func NewRegex(id string, cat Category, expr string, caseSensitive bool) Rule {
	return Rule{ID: id, Category: cat, Matcher: Regex{Expr: expr}, CaseSensitive: caseSensitive}
}

// withInfo returns a copy of r carrying a description and score.
func (r Rule) withInfo(desc string, score int) Rule {
	r.Description = desc
	r.Score = score
	return r
}
