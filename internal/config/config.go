// Package config loads the pipeline's tunable parameters from a TOML file.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full set of tunable parameters for a single inference run.
// Every field has a sensible built-in default even if no config file is
// loaded at all.
type Config struct {
	// MaxSamples is the number of sampled candidate strings drawn per class
	// during token-class generalisation.
	MaxSamples int `toml:"max_samples"`

	// OracleTimeoutSeconds bounds a single oracle probe; a probe exceeding
	// it is folded to accept.
	OracleTimeoutSeconds float64 `toml:"oracle_timeout_seconds"`

	// RandomSeed seeds the deterministic sampler used by token-class
	// generalisation, so a run can be reproduced exactly.
	RandomSeed int64 `toml:"random_seed"`

	// Oracle selects which backend cmd/ginfer wires up.
	Oracle OracleConfig `toml:"oracle"`

	// Cache, if Cache.Path is non-empty, enables the sqlite-backed
	// persistent oracle cache.
	Cache CacheConfig `toml:"cache"`
}

// OracleConfig describes which oracle.Backend to construct.
type OracleConfig struct {
	// Kind is "subprocess" or "session".
	Kind string `toml:"kind"`

	// Command and Args configure a subprocess backend.
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// CacheConfig describes the optional persistent oracle cache.
type CacheConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no config file is supplied:
// MAX_SAMPLES = 10, oracle timeout = 3s.
func Default() Config {
	return Config{
		MaxSamples:           10,
		OracleTimeoutSeconds: 3.0,
		RandomSeed:           1,
		Oracle:               OracleConfig{Kind: "subprocess"},
	}
}

// Timeout returns OracleTimeoutSeconds as a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.OracleTimeoutSeconds * float64(time.Second))
}

// Load reads and parses a TOML config file at path, starting from Default()
// so any field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}

	return cfg, nil
}
