// Package config resolves settings from the TOML config file, .env files and
// the environment.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "patterndrill", "config.toml")
}

// DefaultEnvPath returns the per-user .env path.
func DefaultEnvPath() string {
	return filepath.Join(XDGConfigHome(), "patterndrill", ".env")
}
