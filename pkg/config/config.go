// Package config loads whatthewaf settings. Values come from three layers,
// later ones winning: the embedded defaults, an optional YAML file, and
// command-line flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/whatthewaf/whatthewaf/pkg/encoding"
	"github.com/whatthewaf/whatthewaf/pkg/logging"
	"github.com/whatthewaf/whatthewaf/presets"
)

// Config holds all CLI configuration options
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	LogJSON  bool   `yaml:"log_json"`  // JSON lines instead of console output

	// Output
	NoColor bool `yaml:"no_color"`

	// Metrics listener for the shell (empty = disabled)
	MetricsAddr string `yaml:"metrics_addr"`

	// Custom rule file merged into the default catalogue
	RulesFile string `yaml:"rules_file"`

	// Initial encoder tool mode
	EncoderMode string `yaml:"encoder_mode"`
}

// Default returns the embedded defaults.
func Default() *Config {
	data, err := presets.FS.ReadFile(presets.ConfigFile)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults missing: %v", err))
	}
	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load reads path on top of the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := decode(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// BindFlags registers the global flags on fs, defaulting to the values
// already in c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&c.LogJSON, "json", c.LogJSON, "JSON log output")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable colored output")
	fs.BoolVar(&c.NoColor, "nc", c.NoColor, "No color (alias)")
	fs.StringVar(&c.RulesFile, "rules", c.RulesFile, "Extra rule file (YAML or JSON)")
	fs.StringVar(&c.EncoderMode, "mode", c.EncoderMode, "Encoder mode: url, base64, html, unicode, double-url")
}

// Verbose raises the log level to debug.
func (c *Config) Verbose() { c.LogLevel = "debug" }

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if _, err := encoding.ParseMode(c.EncoderMode); err != nil {
		return fmt.Errorf("%w: encoder_mode: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Mode returns the parsed encoder mode. Call Validate first.
func (c *Config) Mode() encoding.Mode {
	m, err := encoding.ParseMode(c.EncoderMode)
	if err != nil {
		return encoding.URL
	}
	return m
}
