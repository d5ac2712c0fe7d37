// FILE: ultralog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/ultralog"
)

// Builder creates gnet and fasthttp adapters sharing one logger. It either
// wraps an existing *ultralog.Logger or creates one from a *ultralog.Config.
type Builder struct {
	logger *ultralog.Logger
	logCfg *ultralog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger uses an existing logger; WithConfig is then ignored
func (b *Builder) WithLogger(l *ultralog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("ultralog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance
func (b *Builder) WithConfig(cfg *ultralog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*ultralog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l, err := ultralog.New(b.logCfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed. A logger
// created by the builder is owned by the caller and must be closed.
func (b *Builder) GetLogger() (*ultralog.Logger, error) {
	return b.getLogger()
}
