// Package rules holds the detection rule catalogue: named literal and
// regex patterns grouped by attack category. Catalogues are ordered and
// read-only once built; order only affects which rule is reported first.
package rules

import "fmt"

// Catalogue is an immutable ordered list of rules.
type Catalogue struct {
	rules []Rule
	byID  map[string]int
}

// New validates rules and builds a catalogue preserving their order.
func New(rules ...Rule) (*Catalogue, error) {
	c := &Catalogue{
		rules: make([]Rule, 0, len(rules)),
		byID:  make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}
		c.byID[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// MustNew is New for built-in rule sets; it panics on invalid rules.
func MustNew(rules ...Rule) *Catalogue {
	c, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of rules.
func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Rules returns a copy of the rules in catalogue order.
func (c *Catalogue) Rules() []Rule {
	if c == nil {
		return nil
	}
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Each calls fn for every rule in order until fn returns false.
func (c *Catalogue) Each(fn func(Rule) bool) {
	if c == nil {
		return
	}
	for _, r := range c.rules {
		if !fn(r) {
			return
		}
	}
}

// Get looks a rule up by id.
func (c *Catalogue) Get(id string) (Rule, bool) {
	if c == nil {
		return Rule{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// ByCategory returns the rules of one category in catalogue order.
func (c *Catalogue) ByCategory(cat Category) []Rule {
	var out []Rule
	c.Each(func(r Rule) bool {
		if r.Category == cat {
			out = append(out, r)
		}
		return true
	})
	return out
}

// Merge returns a new catalogue with other's rules appended after c's.
func (c *Catalogue) Merge(other *Catalogue) (*Catalogue, error) {
	all := append(c.Rules(), other.Rules()...)
	return New(all...)
}
