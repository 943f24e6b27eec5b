package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Version information - these can be overridden at build time via ldflags:
// go build -ldflags "-X github.com/whatthewaf/whatthewaf/pkg/ui.Version=1.0.0"
var (
	Version   = "0.4.0"
	BuildDate = "2026-10-19"
	Commit    = "dev"
)

var (
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetNoColor disables colored output
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

const bannerArt = `
          __          __  ________         _       _____    ____
 _      _/ /_  ____ _/ /_/_  __/ /_  ___  | |     / /   |  / __/
| | /| / / __ \/ __ ` + "`" + `/ __// / / __ \/ _ \ | | /| / / /| | / /_
| |/ |/ / / / / /_/ / /_ / / / / / /  __/ | |/ |/ / ___ |/ __/
|__/|__/_/ /_/\__,_/\__//_/ /_/ /_/\___/  |__/|__/_/  |_/_/
`

// PrintBanner writes the banner and version line.
func PrintBanner(w io.Writer) {
	for _, line := range strings.Split(bannerArt, "\n") {
		if line != "" {
			fmt.Fprintln(w, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(w, "%s  %s\n\n",
		VersionStyle.Render("v"+Version),
		SubtitleStyle.Render("learn how a web application firewall thinks"))
}

// Divider returns a rule sized to the terminal.
func Divider() string {
	width := Width(72)
	if width > 72 {
		width = 72
	}
	return DividerStyle.Render(strings.Repeat(Icon("─", "-"), width))
}

// PrintSection prints a section header.
func PrintSection(w io.Writer, title string) {
	fmt.Fprintln(w, SectionStyle.Render("> "+title))
	fmt.Fprintln(w, Divider())
}

// Field renders "  label  value".
func Field(label, value string) string {
	return "  " + LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}
