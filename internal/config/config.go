// Package config loads solver settings with the precedence
// defaults < config file < GENERALSUB_* environment < flags.
// Flag binding is the CLI's job; everything below the flags lives here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Config holds every tunable the CLI exposes.
type Config struct {
	// Dictionary is the word-list path handed to the index builder.
	Dictionary string `yaml:"dictionary" mapstructure:"dictionary"`

	// Placeholder is the single character rendered for Ambiguous letters.
	Placeholder string `yaml:"placeholder" mapstructure:"placeholder"`

	// MaxNodes caps the number of admitted search nodes per run; 0 means
	// unlimited.
	MaxNodes int `yaml:"max_nodes" mapstructure:"max_nodes"`

	// FoldDiacritics strips combining marks from dictionary words before
	// normalization, so "café" can match "cafe".
	FoldDiacritics bool `yaml:"fold_diacritics" mapstructure:"fold_diacritics"`

	// IndexCache is the path of the optional SQLite signature cache; empty
	// disables caching and streams the dictionary on every run.
	IndexCache string `yaml:"index_cache" mapstructure:"index_cache"`

	// Parallel is the number of worker goroutines for batch input.
	Parallel int `yaml:"parallel" mapstructure:"parallel"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Dictionary:     "/usr/share/dict/words",
		Placeholder:    "_",
		MaxNodes:       0,
		FoldDiacritics: false,
		IndexCache:     "",
		Parallel:       4,
	}
}

// Load reads configuration from the given file path. When path is empty it
// falls back to config.yaml under the user config directory (on Unix,
// $XDG_CONFIG_HOME/generalsub/), and a missing file is not an error; an
// explicit path that cannot be read is. Environment variables prefixed
// GENERALSUB_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("dictionary", def.Dictionary)
	v.SetDefault("placeholder", def.Placeholder)
	v.SetDefault("max_nodes", def.MaxNodes)
	v.SetDefault("fold_diacritics", def.FoldDiacritics)
	v.SetDefault("index_cache", def.IndexCache)
	v.SetDefault("parallel", def.Parallel)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "generalsub"))
		}
	}

	v.SetEnvPrefix("GENERALSUB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Only the default search is allowed to come up empty.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints that flags and files cannot express.
func (c *Config) Validate() error {
	if c.Dictionary == "" {
		return fmt.Errorf("config: dictionary path must not be empty")
	}
	if n := utf8.RuneCountInString(c.Placeholder); n != 1 {
		return fmt.Errorf("config: placeholder must be exactly one character, got %q", c.Placeholder)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("config: max_nodes must be >= 0, got %d", c.MaxNodes)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("config: parallel must be >= 1, got %d", c.Parallel)
	}
	return nil
}

// PlaceholderRune returns the placeholder as a rune. Validate guarantees the
// string holds exactly one.
func (c *Config) PlaceholderRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Placeholder)
	return r
}
