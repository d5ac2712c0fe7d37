// FILE: ultralog/interface.go
package ultralog

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// dumpConfig renders values on one line with their types and without
// pointer addresses, so dumps of equal values produce equal records
var dumpConfig = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Log writes a message at the given severity.
func (l *Logger) Log(level int64, message string) {
	l.log(level, message)
}

// Logf formats and writes a message at the given severity. Arguments are
// only formatted when the severity passes the filter.
func (l *Logger) Logf(level int64, format string, args ...any) {
	if level < l.level.Load() {
		return
	}
	l.log(level, fmt.Sprintf(format, args...))
}

// Debug logs a message at debug level.
func (l *Logger) Debug(message string) {
	l.log(LevelDebug, message)
}

// Info logs a message at info level.
func (l *Logger) Info(message string) {
	l.log(LevelInfo, message)
}

// Warning logs a message at warning level.
func (l *Logger) Warning(message string) {
	l.log(LevelWarning, message)
}

// Error logs a message at error level.
func (l *Logger) Error(message string) {
	l.log(LevelError, message)
}

// Critical logs a message at critical level.
func (l *Logger) Critical(message string) {
	l.log(LevelCritical, message)
}

// Dump writes "label: value" with value rendered by go-spew, types included.
func (l *Logger) Dump(level int64, label string, v any) {
	if level < l.level.Load() {
		return
	}
	l.log(level, label+": "+dumpConfig.Sprintf("%#v", v))
}
