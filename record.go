// FILE: ultralog/record.go
package ultralog

import (
	"fmt"
	"strings"
)

// log handles the core logging logic. It never blocks on file I/O.
func (l *Logger) log(level int64, message string) {
	if l.state.closed.Load() {
		return
	}
	if level < l.level.Load() {
		return
	}

	levelName := LevelName(level)
	record := l.formatter.Format(message, levelName)

	if l.consoleOn.Load() {
		l.writeConsole(record)
	}

	if l.cfg.Path != "" {
		l.queue.push(record)
	}

	if l.remote != nil {
		l.remote.Send(levelName, message)
	}
}

// writeConsole mirrors a record to the console sink, ignoring failures
func (l *Logger) writeConsole(data []byte) {
	s, ok := l.console.Load().(sink)
	if !ok || s.w == nil {
		return
	}
	l.consoleMu.Lock()
	_, _ = s.w.Write(data)
	l.consoleMu.Unlock()
}

// internalLog writes logger diagnostics to the console sink when the console
// mirror is on. Diagnostics never reach the file.
func (l *Logger) internalLog(format string, args ...any) {
	if !l.consoleOn.Load() {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if !strings.HasPrefix(msg, internalPrefix) {
		msg = internalPrefix + msg
	}
	l.writeConsole([]byte(msg))
}
