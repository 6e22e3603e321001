// Package config resolves file locations for the rentflow CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DatabasePath returns the SQLite database location: the configured
// database.path when set, otherwise the XDG data directory default.
func DatabasePath() (string, error) {
	if p := viper.GetString("database.path"); p != "" {
		return expandHome(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "rentflow", "rentflow.db"), nil
}

// expandHome resolves a leading ~ in a configured path.
func expandHome(p string) (string, error) {
	if len(p) == 0 || p[0] != '~' {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}
