// Package config handles loading CLI configuration from files.
//
// Configuration lives in a TOML file named srcmap.toml or .srcmaprc.toml.
// The config file is searched for in the current directory and parent
// directories.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Color controls colored terminal output: "auto", "always" or "never".
	Color *string `toml:"color,omitempty"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig controls the on-disk decoded-map cache.
type CacheConfig struct {
	// Enabled turns the disk cache on (default true).
	Enabled *bool `toml:"enabled,omitempty"`

	// Dir overrides the cache directory. Empty means the XDG default.
	Dir string `toml:"dir,omitempty"`
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"srcmap.toml",
	".srcmaprc.toml",
}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options are the effective settings after merging config file values with
// CLI flags. CLI flags take precedence.
type Options struct {
	Color        string
	CacheEnabled bool
	CacheDir     string
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Color:        "auto",
		CacheEnabled: true,
	}
}

// MergeOptions carries CLI flag values; nil means not specified on the CLI.
type MergeOptions struct {
	Color   *string
	NoCache bool
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) Options {
	opts := DefaultOptions()

	if c != nil {
		if c.Color != nil {
			opts.Color = *c.Color
		}
		if c.Cache.Enabled != nil {
			opts.CacheEnabled = *c.Cache.Enabled
		}
		opts.CacheDir = c.Cache.Dir
	}

	if cli.Color != nil {
		opts.Color = *cli.Color
	}
	if cli.NoCache {
		opts.CacheEnabled = false
	}

	return opts
}
