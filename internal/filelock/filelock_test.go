package filelock

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestTryLockAndUnlock verifies basic acquire and release
func TestTryLockAndUnlock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock := NewFileLock(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if !acquired {
		t.Fatal("TryLock() = false, want true for a free lock")
	}

	if err := lock.Unlock(); err != nil {
		t.Errorf("Unlock() error = %v", err)
	}

	// The lock can be re-acquired after release.
	acquired, err = lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock() after Unlock error = %v", err)
	}
	if !acquired {
		t.Error("TryLock() = false after Unlock, want true")
	}
	lock.Unlock()
}

// TestAtomicWrite verifies the written content and overwrite behavior
func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.md")

	if err := AtomicWrite(path, []byte("first version")); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if string(data) != "first version" {
		t.Errorf("content = %q, want %q", data, "first version")
	}

	if err := AtomicWrite(path, []byte("second version")); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second version" {
		t.Errorf("content = %q, want %q", data, "second version")
	}
}

// TestAtomicWriteCreatesDirectory verifies missing parent dirs are created
func TestAtomicWriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "export.md")

	if err := AtomicWrite(path, []byte("content")); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("written file missing: %v", err)
	}
}

// TestAtomicWriteLeavesNoTempFiles verifies temp files are cleaned up
func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.md")

	if err := AtomicWrite(path, []byte("content")); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}
