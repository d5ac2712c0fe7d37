// FILE: ultralog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/ultralog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter routes fasthttp server diagnostics into an ultralog.Logger
type FastHTTPAdapter struct {
	logger        *ultralog.Logger
	defaultLevel  int64
	levelDetector func(string) int64 // Returns 0 when no level is recognized
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection finds nothing
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *ultralog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  ultralog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != 0 {
			level = detected
		}
	}

	a.logger.Log(level, "fasthttp: "+msg)
}

// DetectLogLevel guesses a level from keywords in the message, 0 if none match
func DetectLogLevel(msg string) int64 {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "panic"),
		strings.Contains(msgLower, "fatal"):
		return ultralog.LevelCritical

	case strings.Contains(msgLower, "error"),
		strings.Contains(msgLower, "failed"):
		return ultralog.LevelError

	case strings.Contains(msgLower, "warn"),
		strings.Contains(msgLower, "deprecated"):
		return ultralog.LevelWarning

	case strings.Contains(msgLower, "debug"),
		strings.Contains(msgLower, "trace"):
		return ultralog.LevelDebug
	}

	return 0
}
