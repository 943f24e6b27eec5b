package main

import (
	"flag"
	"fmt"

	"github.com/whatthewaf/whatthewaf/pkg/config"
)

// CommonFlags holds flags shared by every command. Use Register to bind
// them to a command's FlagSet and Resolve after parsing.
type CommonFlags struct {
	ConfigFile string
	Verbose    bool

	// defaults only carries the flag definitions; values are replayed onto
	// the loaded config by Resolve.
	defaults *config.Config
}

// Register binds common flags to the given FlagSet.
func (cf *CommonFlags) Register(fs *flag.FlagSet) {
	cf.defaults = config.Default()
	fs.StringVar(&cf.ConfigFile, "config", "", "YAML config file")
	fs.BoolVar(&cf.Verbose, "verbose", false, "Debug logging")
	fs.BoolVar(&cf.Verbose, "v", false, "Debug logging (alias)")
	cf.defaults.BindFlags(fs)
}

// Resolve loads the config file and applies every config flag that was
// set explicitly on fs, so flags win over the file.
func (cf *CommonFlags) Resolve(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(cf.ConfigFile)
	if err != nil {
		return nil, err
	}
	replay := flag.NewFlagSet("config", flag.ContinueOnError)
	cfg.BindFlags(replay)

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if setErr != nil || replay.Lookup(f.Name) == nil {
			return
		}
		setErr = replay.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, setErr)
	}
	if cf.Verbose {
		cfg.Verbose()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
