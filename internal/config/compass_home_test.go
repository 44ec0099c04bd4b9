package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetCompassHomeEnvOverride verifies COMPASS_HOME takes priority
func TestGetCompassHomeEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	custom := filepath.Join(tmpDir, "custom-home")
	t.Setenv("COMPASS_HOME", custom)

	home, err := GetCompassHome()
	if err != nil {
		t.Fatalf("GetCompassHome() error = %v", err)
	}
	if home != custom {
		t.Errorf("GetCompassHome() = %q, want %q", home, custom)
	}

	// The directory is created on first resolution.
	if _, err := os.Stat(custom); err != nil {
		t.Errorf("home directory not created: %v", err)
	}
}

// TestGetCompassHomeDefault verifies the ~/.compass fallback
func TestGetCompassHomeDefault(t *testing.T) {
	t.Setenv("COMPASS_HOME", "")
	t.Setenv("HOME", t.TempDir())

	home, err := GetCompassHome()
	if err != nil {
		t.Fatalf("GetCompassHome() error = %v", err)
	}
	if filepath.Base(home) != ".compass" {
		t.Errorf("GetCompassHome() = %q, want a .compass directory", home)
	}
}

// TestGetJournalDBPath verifies the database path is inside the home
func TestGetJournalDBPath(t *testing.T) {
	t.Setenv("COMPASS_HOME", t.TempDir())

	dbPath, err := GetJournalDBPath()
	if err != nil {
		t.Fatalf("GetJournalDBPath() error = %v", err)
	}
	if filepath.Base(dbPath) != "journal.db" {
		t.Errorf("GetJournalDBPath() = %q, want a journal.db path", dbPath)
	}
}

// TestGetLockPath verifies the lock path is inside the home
func TestGetLockPath(t *testing.T) {
	t.Setenv("COMPASS_HOME", t.TempDir())

	lockPath, err := GetLockPath()
	if err != nil {
		t.Fatalf("GetLockPath() error = %v", err)
	}
	if filepath.Base(lockPath) != "compass.lock" {
		t.Errorf("GetLockPath() = %q, want a compass.lock path", lockPath)
	}
}
