// Package config provides reading and writing of gres configuration.
// Supports both global (~/.gres/config.yaml) and local (.gres/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.gres/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .gres/config.yaml
	ScopeLocal
)

// Colour modes accepted for the colour key.
const (
	ColourAuto   = "auto"
	ColourAlways = "always"
	ColourNever  = "never"
)

// Journal holds change-journal configuration options.
type Journal struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// MaxContextLines bounds the configurable default context window.
const MaxContextLines = 1000

// Config contains configuration for gres.
type Config struct {
	Colour  string  `yaml:"colour,omitempty"`
	Context *int    `yaml:"context,omitempty"`
	Hidden  *bool   `yaml:"hidden,omitempty"`
	Journal Journal `yaml:"journal,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	switch c.Colour {
	case "", ColourAuto, ColourAlways, ColourNever:
	default:
		return fmt.Errorf("%w: colour must be auto, always or never, got %q",
			ErrInvalidValue, c.Colour)
	}
	if c.Context != nil {
		v := *c.Context
		if v < 0 || v > MaxContextLines {
			return fmt.Errorf("%w: context must be between 0 and %d, got %d",
				ErrInvalidValue, MaxContextLines, v)
		}
	}
	return nil
}

// ColourMode returns the configured colour mode (defaults to auto).
func (c *Config) ColourMode() string {
	if c.Colour == "" {
		return ColourAuto
	}
	return c.Colour
}

// ContextLines returns the default number of context lines (defaults to 0).
func (c *Config) ContextLines() int {
	if c.Context == nil {
		return 0
	}
	return *c.Context
}

// IncludeHidden returns whether hidden files are walked (defaults to false).
func (c *Config) IncludeHidden() bool {
	if c.Hidden == nil {
		return false
	}
	return *c.Hidden
}

// JournalEnabled returns whether rewrites are journalled (defaults to true).
func (c *Config) JournalEnabled() bool {
	if c.Journal.Enabled == nil {
		return true
	}
	return *c.Journal.Enabled
}

// JournalPath returns the journal database path. Empty means the
// journal package's default location.
func (c *Config) JournalPath() string {
	return c.Journal.Path
}

// LocalPath returns the path to the local (directory) config file.
func LocalPath() string {
	return filepath.Join(".gres", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.gres/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gres", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
