// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic. This separation allows config.go to focus on YAML structure
// and loading, while this file handles the CLI interface where config is
// accessed by string keys (e.g., "journal.enabled").
//
// Design: Pointers are used for optional fields so we can distinguish between
// "not set" (nil) and "explicitly set to zero/false". This enables proper
// defaulting - we only apply defaults when the user hasn't set a value.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"colour", "context", "hidden",
		"journal.enabled", "journal.path",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "colour":
		return c.ColourMode(), nil
	case "context":
		return strconv.Itoa(c.ContextLines()), nil
	case "hidden":
		return strconv.FormatBool(c.IncludeHidden()), nil
	case "journal.enabled":
		return strconv.FormatBool(c.JournalEnabled()), nil
	case "journal.path":
		return c.Journal.Path, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "colour":
		v := strings.ToLower(value)
		if v != ColourAuto && v != ColourAlways && v != ColourNever {
			return fmt.Errorf("%w: colour must be auto, always or never", ErrInvalidValue)
		}
		c.Colour = v
	case "context":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > MaxContextLines {
			return fmt.Errorf("%w: context must be an integer between 0 and %d", ErrInvalidValue, MaxContextLines)
		}
		c.Context = &n
	case "hidden":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%w: hidden must be true or false", ErrInvalidValue)
		}
		c.Hidden = &b
	case "journal.enabled":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%w: journal.enabled must be true or false", ErrInvalidValue)
		}
		c.Journal.Enabled = &b
	case "journal.path":
		c.Journal.Path = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"colour":          c.ColourMode(),
		"context":         strconv.Itoa(c.ContextLines()),
		"hidden":          strconv.FormatBool(c.IncludeHidden()),
		"journal.enabled": strconv.FormatBool(c.JournalEnabled()),
		"journal.path":    c.Journal.Path,
	}
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "colour":
		return c.Colour != ""
	case "context":
		return c.Context != nil
	case "hidden":
		return c.Hidden != nil
	case "journal.enabled":
		return c.Journal.Enabled != nil
	case "journal.path":
		return c.Journal.Path != ""
	default:
		return false
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, ErrInvalidValue
	}
}
