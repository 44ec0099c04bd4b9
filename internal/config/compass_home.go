package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetCompassHome returns the compass home directory.
// Priority order:
//  1. COMPASS_HOME environment variable (if set)
//  2. ~/.compass under the user home directory
//
// The directory is created if it doesn't exist.
func GetCompassHome() (string, error) {
	if home := os.Getenv("COMPASS_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create compass home directory: %w", err)
		}
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}

	compassHome := filepath.Join(userHome, ".compass")
	if err := os.MkdirAll(compassHome, 0755); err != nil {
		return "", fmt.Errorf("create compass home directory: %w", err)
	}

	return compassHome, nil
}

// GetJournalDBPath returns the absolute path to the journal database.
// Always returns: $COMPASS_HOME/journal.db
func GetJournalDBPath() (string, error) {
	home, err := GetCompassHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "journal.db"), nil
}

// GetLockPath returns the path of the single-instance lock file.
func GetLockPath() (string, error) {
	home, err := GetCompassHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "compass.lock"), nil
}
