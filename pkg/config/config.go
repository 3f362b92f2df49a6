// Package config loads the anml CLI configuration file.
//
// The file is TOML and every key is optional:
//
//	network_id = "an1"
//	sentinel   = "0"
//	start_kind = "all-input"
//	detailed   = false
//
//	[cache]
//	enabled = true
//	dir     = "/tmp/anml-cache"
//	ttl     = "168h"
//
// Command-line flags take precedence over file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/cache"
	"github.com/tjt7a/anml/pkg/dot"
	apperr "github.com/tjt7a/anml/pkg/errors"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Duration is a time.Duration that decodes from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// CacheConfig controls the artifact cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

// Config holds conversion defaults.
type Config struct {
	NetworkID string      `toml:"network_id"`
	Sentinel  string      `toml:"sentinel"`
	StartKind string      `toml:"start_kind"`
	Detailed  bool        `toml:"detailed"`
	Cache     CacheConfig `toml:"cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		NetworkID: automata.DefaultNetworkID,
		Sentinel:  dot.DefaultSentinel,
		StartKind: automata.StartAllInput.String(),
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration{cache.TTLArtifact},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/anml/config.toml, falling back to
// ~/.config/anml/config.toml.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "anml", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "anml", FileName), nil
}

// Load reads the config file at path on top of Default. If path is empty
// the default location is used, and a missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, apperr.New(apperr.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.Start(); err != nil {
		return err
	}
	if c.NetworkID != "" {
		if err := apperr.ValidateIdentifier("network", c.NetworkID); err != nil {
			return err
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "cache ttl %s must not be negative", c.Cache.TTL.Duration)
	}
	return nil
}

// Start parses StartKind. Only all-input and start-of-data are accepted
// since the value is assigned to real start states.
func (c Config) Start() (automata.StartKind, error) {
	k, err := automata.ParseStartKind(c.StartKind)
	if err != nil {
		return automata.StartNone, err
	}
	if k == automata.StartNone && c.StartKind != "" {
		return automata.StartNone, apperr.New(apperr.ErrCodeInvalidInput, "start_kind %q cannot be used for start states", c.StartKind)
	}
	return k, nil
}

// String renders the configuration as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
