// FILE: ultralog/builder.go
package ultralog

import "io"

// Builder provides a fluent API for building a Logger.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	opts []Option
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Config returns a copy of the configuration accumulated so far.
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Build validates the configuration and creates the Logger.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.cfg.Clone(), b.opts...)
}

// Name sets the logger name embedded in every record.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Level sets the minimum severity.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the minimum severity from a name or number.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Path sets the destination file. Empty disables the file sink.
func (b *Builder) Path(path string) *Builder {
	b.cfg.Path = path
	return b
}

// TruncateFile empties the destination before the first write.
func (b *Builder) TruncateFile(truncate bool) *Builder {
	b.cfg.TruncateFile = truncate
	return b
}

// ShowTimestamp toggles the timestamp segment.
func (b *Builder) ShowTimestamp(show bool) *Builder {
	b.cfg.ShowTimestamp = show
	return b
}

// TimestampFormat sets the timestamp layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// Rotation sets the whole rotation policy.
func (b *Builder) Rotation(enabled bool, maxFileSize, backupCount int64) *Builder {
	b.cfg.EnableRotation = enabled
	b.cfg.MaxFileSize = maxFileSize
	b.cfg.BackupCount = backupCount
	return b
}

// MaxFileSize sets the rotation threshold in bytes.
func (b *Builder) MaxFileSize(size int64) *Builder {
	b.cfg.MaxFileSize = size
	return b
}

// BackupCount sets how many backups are retained.
func (b *Builder) BackupCount(count int64) *Builder {
	b.cfg.BackupCount = count
	return b
}

// RotateSchedule sets a cron spec that forces rotation.
func (b *Builder) RotateSchedule(spec string) *Builder {
	b.cfg.RotateSchedule = spec
	return b
}

// FileBufferSize sets the write buffer size in bytes.
func (b *Builder) FileBufferSize(size int64) *Builder {
	b.cfg.FileBufferSize = size
	return b
}

// BatchSize sets the maximum records per flushed batch.
func (b *Builder) BatchSize(size int64) *Builder {
	b.cfg.BatchSize = size
	return b
}

// FlushIntervalMs sets the idle wait between empty drains.
func (b *Builder) FlushIntervalMs(interval int64) *Builder {
	b.cfg.FlushIntervalMs = interval
	return b
}

// ForceSync makes every batch durable before the write returns.
func (b *Builder) ForceSync(sync bool) *Builder {
	b.cfg.ForceSync = sync
	return b
}

// ConsoleOutput toggles the console mirror.
func (b *Builder) ConsoleOutput(enable bool) *Builder {
	b.cfg.ConsoleOutput = enable
	return b
}

// ConsoleWriter redirects the console mirror, mainly for tests.
func (b *Builder) ConsoleWriter(w io.Writer) *Builder {
	b.opts = append(b.opts, WithConsoleWriter(w))
	return b
}

// HeartbeatIntervalS sets the heartbeat period; 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Remote enables forwarding to a log endpoint.
func (b *Builder) Remote(serverURL, authToken string) *Builder {
	b.cfg.ServerURL = serverURL
	b.cfg.AuthToken = authToken
	return b
}

// Override applies "key=value" pairs on top of the builder state.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.cfg.ApplyOverride(overrides...)
	return b
}
