package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Brand colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00D4AA") // Teal

	// Risk colors
	High = lipgloss.Color("#FF6B6B")
	Low  = lipgloss.Color("#6BCB77")

	// Status colors
	Success = lipgloss.Color("#00D26A") // Green
	Warning = lipgloss.Color("#FFB800") // Amber
	Error   = lipgloss.Color("#FF3838") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray

	Foreground = lipgloss.Color("#FAFAFA")
)

// Pre-configured styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Foreground).
			Background(Primary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B3B4F"))

	BracketStyle = lipgloss.NewStyle().
			Foreground(Muted)

	PassStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	FailStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Rule or technique category badge
	CategoryStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(lipgloss.Color("#3B3B4F")).
			Padding(0, 1)

	CodeStyle = lipgloss.NewStyle().
			Foreground(Secondary)
)

// StatusStyle returns the badge style for a verdict or score status:
// ALLOWED, WARNING or BLOCKED.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch status {
	case "ALLOWED":
		return base.Foreground(lipgloss.Color("#000000")).Background(Success)
	case "WARNING":
		return base.Foreground(lipgloss.Color("#000000")).Background(Warning)
	case "BLOCKED":
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(Error)
	default:
		return base.Foreground(Muted)
	}
}

// RiskStyle colors a violation by risk tier.
func RiskStyle(risk string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch risk {
	case "high":
		return base.Foreground(High)
	case "low":
		return base.Foreground(Low)
	default:
		return base.Foreground(Muted)
	}
}
