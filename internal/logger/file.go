package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileLogger writes session events to timestamped log files under the
// compass log directory and maintains a latest.log symlink pointing to the
// most recent session. It is thread-safe and filters by log level.
type FileLogger struct {
	logDir     string
	sessionLog *os.File
	logLevel   string
	mu         sync.Mutex
}

// NewFileLogger creates a FileLogger writing to the given directory with the
// given minimum level. The directory is created if missing.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// session-YYYYMMDD-HHMMSS.log
	timestamp := time.Now().Format("20060102-150405")
	sessionFile := filepath.Join(logDir, fmt.Sprintf("session-%s.log", timestamp))

	file, err := os.OpenFile(sessionFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create session log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(sessionFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:     logDir,
		sessionLog: file,
		logLevel:   normalizeLogLevel(logLevel),
	}

	logger.write(fmt.Sprintf("=== Compass Session Log ===\nStarted at: %s\n\n",
		time.Now().Format(time.RFC3339)))

	return logger, nil
}

// shouldLog reports whether a message at the given level passes the filter.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// Close flushes and closes the session log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.sessionLog != nil {
		if err := fl.sessionLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync session log: %w", err)
		}
		if err := fl.sessionLog.Close(); err != nil {
			return fmt.Errorf("failed to close session log: %w", err)
		}
		fl.sessionLog = nil
	}
	return nil
}

// write is a thread-safe helper that appends to the session log.
func (fl *FileLogger) write(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.sessionLog != nil {
		fl.sessionLog.WriteString(message)
		// Flush after each write so tail -f works during a session.
		fl.sessionLog.Sync()
	}
}
