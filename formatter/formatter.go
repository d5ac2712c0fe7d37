// Package formatter renders log records as single text lines of the form
// "<timestamp> - <name> - <LEVEL> - <message>\n" and parses them back.
package formatter

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimestampFormat is the layout of the timestamp segment
const DefaultTimestampFormat = "2006-01-02 15:04:05"

// TimestampCacheWindow is the maximum staleness of a cached timestamp
const TimestampCacheWindow = 500 * time.Millisecond

const separator = " - "

// stamp is one immutable cache snapshot
type stamp struct {
	text string
	at   time.Time
}

// Formatter turns (message, level) into a record. Setters are meant for
// construction time; Format is safe for concurrent use.
type Formatter struct {
	name            string
	showTimestamp   bool
	timestampFormat string
	now             func() time.Time

	cached    atomic.Pointer[stamp]
	refreshMu sync.Mutex
}

// New creates a formatter for the named logger with timestamps enabled
func New(name string) *Formatter {
	return &Formatter{
		name:            name,
		showTimestamp:   true,
		timestampFormat: DefaultTimestampFormat,
		now:             time.Now,
	}
}

// ShowTimestamp sets whether to include the timestamp segment
func (f *Formatter) ShowTimestamp(show bool) *Formatter {
	f.showTimestamp = show
	return f
}

// TimestampFormat sets the timestamp layout
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
		f.cached.Store(nil)
	}
	return f
}

// Clock replaces the wall clock, used by tests
func (f *Formatter) Clock(now func() time.Time) *Formatter {
	if now != nil {
		f.now = now
		f.cached.Store(nil)
	}
	return f
}

// Name returns the logger name embedded in records
func (f *Formatter) Name() string {
	return f.name
}

// Format renders one record, terminated by a newline
func (f *Formatter) Format(message, level string) []byte {
	size := len(f.name) + len(level) + len(message) + 2*len(separator) + 1
	var ts string
	if f.showTimestamp {
		ts = f.timestamp()
		size += len(ts) + len(separator)
	}

	buf := make([]byte, 0, size)
	if f.showTimestamp {
		buf = append(buf, ts...)
		buf = append(buf, separator...)
	}
	buf = append(buf, f.name...)
	buf = append(buf, separator...)
	buf = append(buf, level...)
	buf = append(buf, separator...)
	buf = append(buf, message...)
	buf = append(buf, '\n')
	return buf
}

// timestamp returns the cached timestamp, refreshing it once the window passed.
// Readers never lock; one refresher re-checks under refreshMu so a burst of
// expired readers produces a single clock read.
func (f *Formatter) timestamp() string {
	now := f.now()
	if s := f.cached.Load(); s != nil && now.Sub(s.at) <= TimestampCacheWindow {
		return s.text
	}

	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	if s := f.cached.Load(); s != nil && now.Sub(s.at) <= TimestampCacheWindow {
		return s.text
	}
	s := &stamp{text: now.Format(f.timestampFormat), at: now}
	f.cached.Store(s)
	return s.text
}

// Entry is a parsed record
type Entry struct {
	Timestamp string
	Name      string
	Level     string
	Message   string
}

// Parse splits a record produced by Format back into its segments. The
// trailing newline is optional. Names containing the separator are not
// supported; messages may contain it.
func (f *Formatter) Parse(line string) (Entry, bool) {
	line = strings.TrimSuffix(line, "\n")

	var e Entry
	if f.showTimestamp {
		parts := strings.SplitN(line, separator, 4)
		if len(parts) != 4 {
			return Entry{}, false
		}
		e = Entry{Timestamp: parts[0], Name: parts[1], Level: parts[2], Message: parts[3]}
	} else {
		parts := strings.SplitN(line, separator, 3)
		if len(parts) != 3 {
			return Entry{}, false
		}
		e = Entry{Name: parts[0], Level: parts[1], Message: parts[2]}
	}
	return e, true
}
