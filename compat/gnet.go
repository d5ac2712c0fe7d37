// FILE: ultralog/compat/gnet.go
package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/ultralog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet engine diagnostics into an ultralog.Logger
type GnetAdapter struct {
	logger       *ultralog.Logger
	prefix       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetPrefix prepends a tag to every message, "gnet: " by default
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *ultralog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		prefix: "gnet: ",
		fatalHandler: func(string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

func (a *GnetAdapter) logf(level int64, format string, args ...any) {
	a.logger.Log(level, a.prefix+fmt.Sprintf(format, args...))
}

// Debugf logs at debug level
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logf(ultralog.LevelDebug, format, args...)
}

// Infof logs at info level
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logf(ultralog.LevelInfo, format, args...)
}

// Warnf logs at warning level
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logf(ultralog.LevelWarning, format, args...)
}

// Errorf logs at error level
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logf(ultralog.LevelError, format, args...)
}

// Fatalf logs at critical level, flushes, and calls the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Log(ultralog.LevelCritical, a.prefix+msg)

	// Ensure the record is on disk before the handler exits
	_ = a.logger.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
