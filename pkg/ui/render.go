package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/whatthewaf/whatthewaf/pkg/challenge"
	"github.com/whatthewaf/whatthewaf/pkg/detector"
	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/quiz"
	"github.com/whatthewaf/whatthewaf/pkg/rules"
	"github.com/whatthewaf/whatthewaf/pkg/scoring"
)

// ErrorMarker prefixes every rendered failure.
const ErrorMarker = "ERROR:"

var title = cases.Title(language.English)

// Truncate cuts s to max runes, ending in "..." when anything was cut.
// It never splits a multi-byte character.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Badge renders a verdict or score status as a colored label.
func Badge(status string) string {
	return StatusStyle(status).Render(status)
}

// ProgressBar renders fraction (0..1) as a bar of width cells.
func ProgressBar(width int, fraction float64) string {
	filled := int(float64(width) * fraction)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	var b strings.Builder
	b.WriteString(BracketStyle.Render("["))
	b.WriteString(ProgressFullStyle.Render(strings.Repeat("#", filled)))
	b.WriteString(ProgressEmptyStyle.Render(strings.Repeat(".", width-filled)))
	b.WriteString(BracketStyle.Render("]"))
	return b.String()
}

// RenderDetect renders a detector verdict with the rules that fired.
// An empty matched list is an ALLOWED verdict.
func RenderDetect(matched []rules.Rule) string {
	var b strings.Builder
	if len(matched) == 0 {
		b.WriteString(Badge(string(detector.Allowed)))
		b.WriteString("  " + HelpStyle.Render("no rule matched"))
		return b.String()
	}
	b.WriteString(Badge(string(detector.Blocked)))
	fmt.Fprintf(&b, "  %d rule(s) matched\n", len(matched))
	for _, r := range matched {
		fmt.Fprintf(&b, "  %s %s %s\n",
			CategoryStyle.Render(r.Category.Label()),
			CodeStyle.Render(r.ID),
			HelpStyle.Render(r.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderDecodeResult renders the outcome of a decode. A failure always
// renders as an ERROR line and never shows output, so a previous result
// cannot be mistaken for this one.
func RenderDecodeResult(mode encoding.Mode, out string, err error) string {
	if err != nil {
		return ErrorStyle.Render(ErrorMarker) + " " + err.Error()
	}
	return Field(mode.Label(), out)
}

// RenderEncodeAll renders text under every mode, in mode order.
func RenderEncodeAll(all map[encoding.Mode]string) string {
	lines := make([]string, 0, len(all))
	for _, m := range encoding.Modes() {
		if v, ok := all[m]; ok {
			lines = append(lines, Field(m.Label(), v))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderScore renders the calculator: selected violations, total and
// status, with a bar filling toward the block threshold.
func RenderScore(snap scoring.Snapshot) string {
	var b strings.Builder
	for _, code := range snap.Selected {
		v, ok := scoring.Lookup(code)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %-26s %s\n",
			RiskStyle(string(v.Risk)).Render(fmt.Sprintf("+%d", v.Points)),
			v.Code,
			HelpStyle.Render(v.Description))
	}
	fraction := float64(snap.Total) / float64(scoring.BlockThreshold)
	fmt.Fprintf(&b, "  %s %s %s",
		ProgressBar(20, fraction),
		ValueStyle.Render(fmt.Sprintf("total %d", snap.Total)),
		Badge(string(snap.Status)))
	return b.String()
}

// RenderViolations lists the violation catalogue.
func RenderViolations() string {
	lines := make([]string, 0, len(scoring.Violations()))
	for _, v := range scoring.Violations() {
		lines = append(lines, fmt.Sprintf("  %-26s %s %s %s",
			v.Code,
			RiskStyle(string(v.Risk)).Render(fmt.Sprintf("%d pt", v.Points)),
			BracketStyle.Render("["+string(v.Risk)+"]"),
			HelpStyle.Render(v.Description)))
	}
	return strings.Join(lines, "\n")
}

// RenderRules renders a rule listing.
func RenderRules(rs []rules.Rule) string {
	lines := make([]string, 0, len(rs))
	for _, r := range rs {
		cs := "i"
		if r.CaseSensitive {
			cs = "s"
		}
		lines = append(lines, fmt.Sprintf("  %-28s %s %s %s",
			CodeStyle.Render(r.ID),
			CategoryStyle.Render(r.Category.Label()),
			BracketStyle.Render(string(r.Matcher.Kind())+"/"+cs),
			r.Matcher.Pattern()))
	}
	return strings.Join(lines, "\n")
}

// RenderLevel renders a challenge brief.
func RenderLevel(lv challenge.Level, completed bool) string {
	mark := Icon("○", "[ ]")
	if completed {
		mark = PassStyle.Render(Icon("●", "[x]"))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", mark, TitleStyle.Render(lv.String()))
	fmt.Fprintf(&b, "  %s\n", lv.Description)
	b.WriteString(Field("Target", lv.Target.String()) + "\n")
	b.WriteString(Field("Technique", lv.Technique.Label()))
	return b.String()
}

// RenderAttempt renders a challenge result. Successes include the
// defense for the level; failures include the reason and the hint.
func RenderAttempt(lv challenge.Level, a challenge.Attempt) string {
	outcome := title.String(string(a.Outcome))
	if a.Succeeded() {
		return PassStyle.Render(Icon("✔ ", "[+] ")+outcome) + "  " + lv.Title + " bypassed\n" +
			Field("Defense", lv.Defense)
	}
	return FailStyle.Render(Icon("✘ ", "[-] ")+outcome) + "  " + a.Reason + "\n" +
		Field("Hint", lv.Hint)
}

// RenderChallengeProgress renders "n/5" with a bar.
func RenderChallengeProgress(completed, total int) string {
	frac := 0.0
	if total > 0 {
		frac = float64(completed) / float64(total)
	}
	return fmt.Sprintf("%s %d/%d levels", ProgressBar(total*4, frac), completed, total)
}

// RenderQuestion renders question i (0-based) with its options. When
// selected is a valid option the correct answer is revealed.
func RenderQuestion(i int, q quiz.Question, selected int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", SectionStyle.Render(fmt.Sprintf("Question %d/%d", i+1, quiz.Len())), q.Prompt)
	answered := selected >= 0 && selected < len(q.Options)
	for j, opt := range q.Options {
		line := fmt.Sprintf("  %d) %s", j+1, opt)
		switch {
		case answered && j == q.Answer:
			line = PassStyle.Render(line)
		case answered && j == selected:
			line = FailStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if answered {
		b.WriteString(HelpStyle.Render("  " + q.Explanation))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderQuizResult renders the final score.
func RenderQuizResult(s *quiz.Session) string {
	style := PassStyle
	if s.Percent() < 60 {
		style = FailStyle
	}
	return fmt.Sprintf("%s %s  %s",
		ProgressBar(20, s.Progress()),
		ValueStyle.Render(s.Score()),
		style.Render(fmt.Sprintf("%d%%", s.Percent())))
}
