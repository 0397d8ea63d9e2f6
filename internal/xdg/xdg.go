// Package xdg provides helpers to resolve XDG Base Directory paths for mealplan.
// It implements the XDG Base Directory specification for determining appropriate
// locations for configuration files and local state on Unix-like systems.
//
// The package handles fallback to traditional locations when XDG environment
// variables are not set and ensures private permissions on created directories.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base.
const AppName = "mealplan"

// ConfigDir returns the XDG config directory for mealplan.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/mealplan when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for mealplan.
// The encrypted keyring file backend keeps its items here.
// It falls back to ~/.local/state/mealplan when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", ".local", "state")
}

func resolve(envVar string, fallback ...string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
