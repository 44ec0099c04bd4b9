package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readSessionLog(t *testing.T, logDir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("read latest.log: %v", err)
	}
	return string(data)
}

// TestNewFileLoggerCreatesSessionFile verifies log file and symlink creation
func TestNewFileLoggerCreatesSessionFile(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	fl, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer fl.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}

	var hasSession, hasLatest bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "session-") && strings.HasSuffix(e.Name(), ".log") {
			hasSession = true
		}
		if e.Name() == "latest.log" {
			hasLatest = true
		}
	}
	if !hasSession {
		t.Error("no session-*.log file created")
	}
	if !hasLatest {
		t.Error("no latest.log symlink created")
	}
}

// TestFileLoggerLevelFiltering verifies messages below the level are dropped
func TestFileLoggerLevelFiltering(t *testing.T) {
	logDir := t.TempDir()

	fl, err := NewFileLogger(logDir, "warn")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	fl.LogDebug("debug message")
	fl.LogInfo("info message")
	fl.LogWarn("warn message")
	fl.LogError("error message")
	fl.Close()

	content := readSessionLog(t, logDir)
	if strings.Contains(content, "debug message") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(content, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("warn message missing")
	}
	if !strings.Contains(content, "error message") {
		t.Error("error message missing")
	}
}

// TestFileLoggerTraceLevel verifies trace level passes everything
func TestFileLoggerTraceLevel(t *testing.T) {
	logDir := t.TempDir()

	fl, err := NewFileLogger(logDir, "trace")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	fl.LogTrace("trace message")
	fl.LogError("error message")
	fl.Close()

	content := readSessionLog(t, logDir)
	if !strings.Contains(content, "trace message") {
		t.Error("trace message missing at trace level")
	}
	if !strings.Contains(content, "error message") {
		t.Error("error message missing at trace level")
	}
}

// TestFileLoggerCloseIsIdempotent verifies double close is safe
func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	if err := fl.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Writes after close are dropped, not panics.
	fl.LogInfo("after close")
}

// TestNormalizeLogLevel verifies unknown levels fall back to info
func TestNormalizeLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"TRACE", "trace"},
		{"Debug", "debug"},
		{"info", "info"},
		{"verbose", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		if got := normalizeLogLevel(tt.input); got != tt.want {
			t.Errorf("normalizeLogLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestLogLevelOrdering verifies the severity ordering used for filtering
func TestLogLevelOrdering(t *testing.T) {
	levels := []string{"trace", "debug", "info", "warn", "error"}
	for i := 1; i < len(levels); i++ {
		if logLevelToInt(levels[i-1]) >= logLevelToInt(levels[i]) {
			t.Errorf("level %q should order below %q", levels[i-1], levels[i])
		}
	}
}
