// FILE: utility.go
package ultralog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors
var (
	// ErrClosed is returned by operations attempted after Close
	ErrClosed = errors.New("ultralog: logger is closed")
	// ErrRotationTimeout reports a rotation abandoned after its time bound
	ErrRotationTimeout = errors.New("ultralog: rotation timed out")
	// ErrRotationIncomplete reports a backup chain that did not fully shift
	ErrRotationIncomplete = errors.New("ultralog: rotation incomplete")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, internalPrefix) {
		format = internalPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return errors.Join(err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level name or a numeric severity to its value.
func ParseLevel(levelStr string) (int64, error) {
	s := strings.TrimSpace(levelStr)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if level, ok := LevelByName(s); ok {
		return level, nil
	}
	return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warning, error, critical)", levelStr)
}

// LevelByName resolves a level name in any case; "warn" is accepted for WARNING.
func LevelByName(name string) (int64, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warning", "warn":
		return LevelWarning, true
	case "error":
		return LevelError, true
	case "critical":
		return LevelCritical, true
	}
	return 0, false
}

// LevelOrInfo is the lenient form of ParseLevel: anything unrecognized is INFO.
func LevelOrInfo(levelStr string) int64 {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return LevelInfo
	}
	return level
}

// LevelName returns the record token for a severity.
func LevelName(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "LEVEL" + strconv.FormatInt(level, 10)
	}
}
