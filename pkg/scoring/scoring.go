// Package scoring implements anomaly scoring: selected violations add up
// to a total, and the total is classified against fixed thresholds.
package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the classification of an anomaly score.
type Status string

const (
	StatusAllowed Status = "ALLOWED"
	StatusWarning Status = "WARNING"
	StatusBlocked Status = "BLOCKED"
)

// Thresholds. A total at or above BlockThreshold is blocked, exactly
// WarningThreshold warns, anything lower is allowed.
const (
	WarningThreshold = 3
	BlockThreshold   = 4
)

// Classify maps a total to its status.
func Classify(total int) Status {
	switch {
	case total >= BlockThreshold:
		return StatusBlocked
	case total >= WarningThreshold:
		return StatusWarning
	default:
		return StatusAllowed
	}
}

// Snapshot is the externally visible view of a State.
type Snapshot struct {
	Total    int      `json:"total"`
	Status   Status   `json:"status"`
	Selected []string `json:"selected"`
}

// State holds the selected violations of one calculator session. It is
// not safe for concurrent use; each session owns its own State.
type State struct {
	selected map[string]bool
	total    int
}

// NewState returns an empty calculator.
func NewState() *State {
	return &State{selected: make(map[string]bool)}
}

// Toggle adds or removes code from the selection. Unknown codes leave the
// state untouched.
func (s *State) Toggle(code string) (Snapshot, error) {
	if _, ok := Lookup(code); !ok {
		return s.Snapshot(), fmt.Errorf("%w: %s", ErrUnknownViolation, code)
	}
	if s.selected[code] {
		delete(s.selected, code)
	} else {
		s.selected[code] = true
	}
	s.recompute()
	return s.Snapshot(), nil
}

// IsSelected reports whether code is currently selected.
func (s *State) IsSelected(code string) bool {
	return s.selected[code]
}

// Reset clears the selection.
func (s *State) Reset() Snapshot {
	clear(s.selected)
	s.recompute()
	return s.Snapshot()
}

// Simulate replaces the selection with a named scenario's violations.
// The state is always reset first, so earlier manual selections never
// add to the scenario's score.
func (s *State) Simulate(name string) (Snapshot, error) {
	sc, ok := LookupScenario(name)
	if !ok {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	s.Reset()
	for _, code := range sc.Codes {
		s.selected[code] = true
	}
	s.recompute()
	return s.Snapshot(), nil
}

// Total returns the current score.
func (s *State) Total() int { return s.total }

// Status returns the classification of the current score.
func (s *State) Status() Status { return Classify(s.total) }

// Snapshot returns the current total, status and sorted selection.
func (s *State) Snapshot() Snapshot {
	sel := make([]string, 0, len(s.selected))
	for code := range s.selected {
		sel = append(sel, code)
	}
	sort.Strings(sel)
	return Snapshot{Total: s.total, Status: Classify(s.total), Selected: sel}
}

// recompute derives the total from the selection from scratch.
func (s *State) recompute() {
	total := 0
	for code := range s.selected {
		v, _ := Lookup(code)
		total += v.Points
	}
	s.total = total
}

// Scenario is a named preset selection.
type Scenario struct {
	Name        string
	Label       string
	Description string
	Codes       []string
	aliases     []string
}

var scenarios = []Scenario{
	{
		Name:        "api-client",
		Label:       "API Client",
		Description: "a scripted client hitting an endpoint that returns an unexpected status",
		Codes:       []string{ViolBotClient, ViolHTTPResponseStatus},
		aliases:     []string{"api client", "api"},
	},
	{
		Name:        "attack",
		Label:       "Attack",
		Description: "a request carrying an attack signature in an illegal parameter",
		Codes:       []string{ViolAttackSignature, ViolParameter},
		aliases:     []string{"attack request"},
	},
}

// Scenarios returns the simulation presets.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// LookupScenario finds a preset by name or alias, case-insensitively.
func LookupScenario(name string) (Scenario, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, sc := range scenarios {
		if n == sc.Name {
			return sc, true
		}
		for _, a := range sc.aliases {
			if n == a {
				return sc, true
			}
		}
	}
	return Scenario{}, false
}
