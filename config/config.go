// Package config provides configuration loading and access for the
// droplet grid manager and router: embedded defaults, optionally
// overridden by a YAML file supplied at startup.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every configurable parameter of a droplet grid run.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Error     ErrorConfig     `yaml:"error"`
	Router    RouterConfig    `yaml:"router"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GridConfig holds the dimensions of a rectangular electrode grid.
// dropletctl does not read it: it always takes its topology from a grid
// Spec file (see grid.LoadSpec).
type GridConfig struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

// ErrorConfig configures the manager's modeled error sources (§4.1, §7).
type ErrorConfig struct {
	// SplitErrorStdev is sigma of the split-volume noise distribution.
	// Zero disables noise.
	SplitErrorStdev float64 `yaml:"split_error_stdev"`
}

// RouterConfig configures the multi-droplet router (§4.2).
type RouterConfig struct {
	// MaxIterations bounds how many reshuffle attempts the router makes
	// before giving up on a planning request.
	MaxIterations int `yaml:"max_iterations"`

	// DeterministicSeed, if non-nil, seeds the router's shuffle PRNG
	// instead of the wall clock. Intended for reproducible test fixtures
	// and replay tooling, not production routing (§9).
	DeterministicSeed *int64 `yaml:"deterministic_seed"`
}

// TelemetryConfig configures the CSV droplet-state observer.
type TelemetryConfig struct {
	// Enabled turns the observer on. When false, dropletctl writes no
	// CSV trace unless an output path is passed with --out.
	Enabled bool `yaml:"enabled"`

	// OutputPath is the CSV file the observer writes droplet snapshots
	// to, one row per droplet per recorded tick.
	OutputPath string `yaml:"output_path"`
}

var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}
