package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds simsvc settings. Environment variables provide the defaults,
// flags override them.
type Config struct {
	Dir       string `env:"SIMSVC_CONFIG" envDefault:"assets"`
	Out       string `env:"SIMSVC_OUT" envDefault:"out.json"`
	Seed      int64  `env:"SIMSVC_SEED" envDefault:"12345"`
	Runs      int    `env:"SIMSVC_RUNS" envDefault:"1"`
	Workers   int    `env:"SIMSVC_WORKERS" envDefault:"8"`
	Events    bool   `env:"SIMSVC_EVENTS" envDefault:"true"`
	Snapshots string `env:"SIMSVC_SNAPSHOTS"`
	Verbose   bool   `env:"SIMSVC_VERBOSE"`
}

// ParseConfig loads env defaults into a Config and then applies flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.StringVar(&cfg.Dir, "config", cfg.Dir, "data directory (effects, abilities, characters, cards, scenario)")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "output file (single) or summary file (batch)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed")
	fs.IntVar(&cfg.Runs, "n", cfg.Runs, "number of simulations")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel simulations in batch mode")
	fs.BoolVar(&cfg.Events, "log", cfg.Events, "save the full event log when n==1")
	fs.StringVar(&cfg.Snapshots, "snapshots", cfg.Snapshots, "write JSON-lines roster snapshots here when n==1")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "debug logging")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Runs < 1 {
		cfg.Runs = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}
