// Package logger provides leveled file logging for compass sessions.
package logger

import "strings"

// Logger is the logging interface consumed by the gateway, journal, and
// workflow packages. FileLogger is the production implementation; Nop is
// used in tests and in non-interactive commands that don't keep logs.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Nop is a Logger that discards everything.
type Nop struct{}

func (Nop) LogTrace(string) {}
func (Nop) LogDebug(string) {}
func (Nop) LogInfo(string)  {}
func (Nop) LogWarn(string)  {}
func (Nop) LogError(string) {}

// normalizeLogLevel lowercases a level name and falls back to "info" for
// unknown values.
func normalizeLogLevel(level string) string {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error":
		return strings.ToLower(level)
	default:
		return "info"
	}
}

// logLevelToInt maps a level name to its ordering for filtering.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return 0
	case "debug":
		return 1
	case "info":
		return 2
	case "warn":
		return 3
	case "error":
		return 4
	default:
		return 2
	}
}
