// Package presets embeds the bundled configuration and rule files so the
// CLI works without anything on disk.
//
// Usage:
//
//	data, _ := presets.FS.ReadFile("config.yaml")
package presets

import "embed"

// Bundled file names.
const (
	ConfigFile = "config.yaml"
	RulesFile  = "rules.example.yaml"
)

// FS contains config.yaml, the default configuration, and
// rules.example.yaml, a sample custom rule file.
//
//go:embed *.yaml
var FS embed.FS
