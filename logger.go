// FILE: ultralog/logger.go
package ultralog

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lixenwraith/ultralog/formatter"
	"github.com/lixenwraith/ultralog/remote"
)

// Logger is an append-only file sink with batching and size-based rotation.
//
// Producers format records on their own goroutine and push them onto an
// unbounded queue; a single background writer drains the queue into the
// active file. The size counter used for rotation only tracks bytes written
// by this process: several processes sharing one path rotate independently
// and inconsistently.
type Logger struct {
	cfg       *Config // Immutable after New
	formatter *formatter.Formatter

	level     atomic.Int64
	consoleOn atomic.Bool
	console   atomic.Value // stores sink
	consoleMu sync.Mutex

	queue   pendingQueue
	drainMu sync.Mutex // Serializes queue consumers

	fileMu sync.Mutex // Guards file, shared by append and rotate
	file   *fileState

	state State

	remote   *remote.Sink
	schedule *cron.Cron

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Option customizes a Logger beyond what Config expresses
type Option func(*Logger)

// WithConsoleWriter sends the console mirror and internal diagnostics to w
func WithConsoleWriter(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.console.Store(sink{w: w})
		}
	}
}

// WithClock replaces the wall clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.formatter.Clock(now)
	}
}

// New validates cfg and starts a logger. A nil cfg means DefaultConfig.
// Only configuration problems are returned; a destination that cannot be
// opened is reported on the console and retried on every batch.
func New(cfg *Config, opts ...Option) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	l := &Logger{
		cfg: cfg,
		formatter: formatter.New(cfg.Name).
			ShowTimestamp(cfg.ShowTimestamp).
			TimestampFormat(cfg.TimestampFormat),
		file: newFileState(cfg),
		done: make(chan struct{}),
	}
	l.state.startTime = time.Now()
	l.level.Store(cfg.Level)
	l.consoleOn.Store(cfg.ConsoleOutput)
	if cfg.ConsoleTarget == ConsoleStdout {
		l.console.Store(sink{w: os.Stdout})
	} else {
		l.console.Store(sink{w: os.Stderr})
	}

	for _, opt := range opts {
		opt(l)
	}

	if cfg.Path != "" {
		l.fileMu.Lock()
		if cfg.TruncateFile {
			if err := l.file.truncate(); err != nil {
				l.internalLog("%v\n", err)
			}
		}
		if err := l.file.open(); err != nil {
			l.internalLog("%v\n", err)
		}
		l.fileMu.Unlock()
	}

	if cfg.remoteEnabled() {
		l.remote = remote.New(cfg.ServerURL, cfg.AuthToken,
			remote.WithTimeout(ms(cfg.RemoteTimeoutMs)),
			remote.WithQueueSize(int(cfg.RemoteQueueSize)),
			remote.WithReporter(func(msg string) {
				l.internalLog("remote: %s\n", msg)
			}),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go l.processBatches(ctx)

	if cfg.RotateSchedule != "" && cfg.Path != "" {
		if err := l.startSchedule(cfg.RotateSchedule); err != nil {
			// Parsed once already in validate
			l.internalLog("%v\n", err)
		}
	}

	return l, nil
}

// Close stops the logger: new records are refused, queued records are
// drained within shutdown_timeout_ms, the writer is joined for at most
// writer_join_timeout_ms and the file is flushed and closed. Records still
// queued at the deadline are dropped and a writer that does not stop in time
// is abandoned. Calling Close again returns nil.
func (l *Logger) Close() error {
	var finalErr error
	l.closeOnce.Do(func() {
		finalErr = l.shutdown()
	})
	return finalErr
}

func (l *Logger) shutdown() error {
	l.state.closed.Store(true)

	var finalErr error

	if l.schedule != nil {
		stopCtx := l.schedule.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(scheduleStopTimeout):
			l.internalLog("scheduled rotation still running at shutdown\n")
		}
	}

	deadline := time.Now().Add(ms(l.cfg.ShutdownTimeoutMs))
	l.drainUntil(deadline)

	l.cancel()
	select {
	case <-l.done:
	case <-time.After(ms(l.cfg.WriterJoinTimeoutMs)):
		l.internalLog("batch writer did not stop within %v\n", ms(l.cfg.WriterJoinTimeoutMs))
		finalErr = combineErrors(finalErr, fmtErrorf("batch writer did not stop within %v", ms(l.cfg.WriterJoinTimeoutMs)))
	}

	// Records pushed by producers racing the closed flag
	l.drainUntil(deadline)

	if n := l.queue.discard(); n > 0 {
		l.state.dropped.Add(uint64(n))
		l.internalLog("shutdown timed out, dropped %d queued records\n", n)
		finalErr = combineErrors(finalErr, fmtErrorf("shutdown timed out with %d records still queued", n))
	}

	if l.remote != nil {
		if err := l.remote.Close(ms(l.cfg.RemoteTimeoutMs)); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}

	l.fileMu.Lock()
	if err := l.file.close(); err != nil {
		l.internalLog("%v\n", err)
		finalErr = combineErrors(finalErr, err)
	}
	l.fileMu.Unlock()

	return finalErr
}

// drainUntil flushes batches until the queue is empty or the deadline passes
func (l *Logger) drainUntil(deadline time.Time) {
	for l.queue.len() > 0 && time.Now().Before(deadline) {
		l.drainOnce()
	}
}

// Flush writes every record queued so far and flushes the file buffer.
// It returns an error if the queue could not be emptied within timeout.
func (l *Logger) Flush(timeout time.Duration) error {
	if l.state.closed.Load() {
		return ErrClosed
	}

	l.drainUntil(time.Now().Add(timeout))
	if n := l.queue.len(); n > 0 {
		return fmtErrorf("timeout waiting for flush, %d records still queued", n)
	}

	// Wait for a batch the writer may still be holding
	l.drainMu.Lock()
	defer l.drainMu.Unlock()

	l.fileMu.Lock()
	defer l.fileMu.Unlock()
	if err := l.file.flush(); err != nil {
		// Reopened by the next batch
		_ = l.file.close()
		return err
	}
	return nil
}

// Config returns a copy of the configuration the logger was built with.
// Level and console output reflect their construction-time values.
func (l *Logger) Config() *Config {
	return l.cfg.Clone()
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.cfg.Name
}

// Level returns the current minimum severity
func (l *Logger) Level() int64 {
	return l.level.Load()
}

// SetLevel changes the minimum severity for subsequent calls
func (l *Logger) SetLevel(level int64) {
	l.level.Store(level)
}

// SetLevelString changes the minimum severity by name; unknown names mean INFO
func (l *Logger) SetLevelString(level string) {
	l.level.Store(LevelOrInfo(level))
}

// ConsoleOutput reports whether the console mirror is on
func (l *Logger) ConsoleOutput() bool {
	return l.consoleOn.Load()
}

// SetConsoleOutput toggles the console mirror at runtime
func (l *Logger) SetConsoleOutput(enable bool) {
	l.consoleOn.Store(enable)
}

// SetConsoleWriter redirects the console mirror
func (l *Logger) SetConsoleWriter(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.console.Store(sink{w: w})
}
