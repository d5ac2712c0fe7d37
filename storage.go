// FILE: ultralog/storage.go
package ultralog

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// fileState is the active destination file. Every method must be called with
// Logger.fileMu held.
type fileState struct {
	path      string
	bufSize   int
	forceSync bool

	file   *os.File
	writer *bufio.Writer // nil when unbuffered
	size   int64         // bytes in the active file as seen by this process
}

func newFileState(cfg *Config) *fileState {
	return &fileState{
		path:      cfg.Path,
		bufSize:   int(cfg.FileBufferSize),
		forceSync: cfg.ForceSync,
	}
}

// isOpen reports whether a handle is held
func (f *fileState) isOpen() bool {
	return f.file != nil
}

// open opens the active path for append, creating it and its parent
// directory as needed. The size counter starts from the on-disk length.
func (f *fileState) open() error {
	if f.file != nil {
		return nil
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open log file '%s': %w", f.path, err)
	}

	var size int64
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	f.file = file
	f.size = size
	if f.bufSize > 0 {
		f.writer = bufio.NewWriterSize(file, f.bufSize)
	}
	return nil
}

// truncate empties the destination. Only used before the first open.
func (f *fileState) truncate() error {
	if _, err := os.Stat(f.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := os.Truncate(f.path, 0); err != nil {
		return fmtErrorf("failed to truncate log file '%s': %w", f.path, err)
	}
	return nil
}

// out is the current write target
func (f *fileState) out() io.Writer {
	if f.writer != nil {
		return f.writer
	}
	return f.file
}

// write appends one record and advances the size counter by what was written
func (f *fileState) write(record []byte) error {
	n, err := f.out().Write(record)
	f.size += int64(n)
	if err != nil {
		return fmtErrorf("failed to write to log file '%s': %w", f.path, err)
	}
	return nil
}

// flush pushes buffered bytes to the OS, and to stable storage under force_sync
func (f *fileState) flush() error {
	if f.file == nil {
		return nil
	}
	if f.writer != nil {
		if err := f.writer.Flush(); err != nil {
			return fmtErrorf("failed to flush log file '%s': %w", f.path, err)
		}
	}
	if f.forceSync {
		if err := f.file.Sync(); err != nil {
			return fmtErrorf("failed to sync log file '%s': %w", f.path, err)
		}
	}
	return nil
}

// close flushes and releases the handle. Safe to call repeatedly and when
// never opened.
func (f *fileState) close() error {
	if f.file == nil {
		return nil
	}

	var err error
	if f.writer != nil {
		if flushErr := f.writer.Flush(); flushErr != nil {
			err = fmtErrorf("failed to flush log file '%s': %w", f.path, flushErr)
		}
	}
	if closeErr := f.file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", f.path, closeErr))
	}

	f.file = nil
	f.writer = nil
	return err
}
