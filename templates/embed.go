// Package templates embeds the session report templates.
//
// Usage:
//
//	data, _ := templates.FS.ReadFile("report.md.tmpl")
package templates

import "embed"

// FS contains one template per report format: report.txt.tmpl,
// report.md.tmpl and report.html.tmpl. They are rendered with the sprig
// function library.
//
//go:embed *.tmpl
var FS embed.FS
