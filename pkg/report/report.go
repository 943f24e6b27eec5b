// Package report renders a learner's session as a text, Markdown, HTML or
// JSON report.
package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/whatthewaf/whatthewaf/pkg/academy"
	"github.com/whatthewaf/whatthewaf/pkg/challenge"
	"github.com/whatthewaf/whatthewaf/pkg/jsonutil"
	"github.com/whatthewaf/whatthewaf/templates"
)

// Format defines output format
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON}
}

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// LevelRow is one line of the challenge table.
type LevelRow struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Technique string `json:"technique"`
	Completed bool   `json:"completed"`
}

// Report is the data every template renders.
type Report struct {
	Title           string          `json:"title"`
	GeneratedAt     time.Time       `json:"generated_at"`
	Summary         academy.Summary `json:"summary"`
	Levels          []LevelRow      `json:"levels"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

// Build assembles a report from a session summary. Completed levels
// contribute their defense as a recommendation.
func Build(sum academy.Summary, now time.Time) *Report {
	done := make(map[int]bool, len(sum.CompletedLevels))
	for _, lv := range sum.CompletedLevels {
		done[lv] = true
	}

	r := &Report{
		Title:       "What The WAF Session Report",
		GeneratedAt: now,
		Summary:     sum,
	}
	for _, lv := range challenge.Levels() {
		r.Levels = append(r.Levels, LevelRow{
			Number:    lv.Number(),
			Title:     lv.Title,
			Technique: lv.Technique.Label(),
			Completed: done[lv.Index],
		})
		if done[lv.Index] {
			r.Recommendations = append(r.Recommendations, lv.Defense)
		}
	}
	return r
}

var templateFiles = map[Format]string{
	FormatText:     "report.txt.tmpl",
	FormatMarkdown: "report.md.tmpl",
	FormatHTML:     "report.html.tmpl",
}

// executor is satisfied by both text/template and html/template.
type executor interface {
	Execute(w io.Writer, data any) error
}

// Generator renders reports from the embedded templates.
type Generator struct {
	templates map[Format]executor
}

// NewGenerator parses the embedded templates.
func NewGenerator() (*Generator, error) {
	g := &Generator{templates: make(map[Format]executor)}
	for format, name := range templateFiles {
		data, err := templates.FS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		var t executor
		if format == FormatHTML {
			t, err = htmltemplate.New(name).Funcs(sprig.HtmlFuncMap()).Parse(string(data))
		} else {
			t, err = template.New(name).Funcs(sprig.TxtFuncMap()).Parse(string(data))
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		g.templates[format] = t
	}
	return g, nil
}

// Generate writes r to w in format.
func (g *Generator) Generate(r *Report, format Format, w io.Writer) error {
	if format == FormatJSON {
		enc := jsonutil.NewStreamEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	t, ok := g.templates[format]
	if !ok {
		return fmt.Errorf("unsupported format: %s", format)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, r); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// GenerateToString renders r in format.
func (g *Generator) GenerateToString(r *Report, format Format) (string, error) {
	var buf bytes.Buffer
	if err := g.Generate(r, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
