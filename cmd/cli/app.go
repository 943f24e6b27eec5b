package main

import (
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/whatthewaf/whatthewaf/pkg/academy"
	"github.com/whatthewaf/whatthewaf/pkg/config"
	"github.com/whatthewaf/whatthewaf/pkg/logging"
	"github.com/whatthewaf/whatthewaf/pkg/metrics"
	"github.com/whatthewaf/whatthewaf/pkg/rules"
	"github.com/whatthewaf/whatthewaf/pkg/ui"
)

// app carries the resolved configuration and I/O of one command run.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg *config.Config
	log *zap.Logger
}

// command is a parsed subcommand ready to run.
type command struct {
	fs     *flag.FlagSet
	common CommonFlags
}

func newCommand(name string, stderr io.Writer) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.fs.SetOutput(stderr)
	c.common.Register(c.fs)
	return c
}

// parse parses args and builds the app. A non-nil exit code means the
// command should stop and return it.
func (c *command) parse(args []string, stdin io.Reader, stdout, stderr io.Writer) (*app, *int) {
	code := func(v int) *int { return &v }
	if err := c.fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, code(exitOK)
		}
		return nil, code(exitUsage)
	}
	cfg, err := c.common.Resolve(c.fs)
	if err != nil {
		printError(stderr, "%v", err)
		return nil, code(exitUsage)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		printError(stderr, "%v", err)
		return nil, code(exitError)
	}
	ui.SetNoColor(cfg.NoColor)
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, cfg: cfg, log: log}, nil
}

// catalogue returns the default rules merged with the configured rule
// file, if any.
func (a *app) catalogue() (*rules.Catalogue, error) {
	if a.cfg.RulesFile == "" {
		return rules.Default(), nil
	}
	extra, err := rules.LoadFile(a.cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	merged, err := rules.Default().Merge(extra)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", a.cfg.RulesFile, err)
	}
	a.log.Debug("custom rules loaded",
		zap.String("file", a.cfg.RulesFile),
		zap.Int("rules", extra.Len()))
	return merged, nil
}

// session starts an academy session with the app's logger, rules and
// encoder mode.
func (a *app) session(rec metrics.Recorder) (*academy.Session, error) {
	cat, err := a.catalogue()
	if err != nil {
		return nil, err
	}
	s := academy.New(
		academy.WithLogger(a.log),
		academy.WithRecorder(rec),
		academy.WithCatalogue(cat),
	)
	if err := s.SetMode(a.cfg.Mode()); err != nil {
		return nil, err
	}
	return s, nil
}
