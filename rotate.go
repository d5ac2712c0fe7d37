// FILE: ultralog/rotate.go
package ultralog

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// backupPath returns the name of backup index i, ".1" being the newest
func backupPath(path string, i int64) string {
	return fmt.Sprintf("%s.%d", path, i)
}

// Rotate forces a rotation of the active file. A file that is still empty
// is left alone. The returned error wraps ErrRotationTimeout or
// ErrRotationIncomplete when the backup chain did not fully shift.
func (l *Logger) Rotate() error {
	if l.state.closed.Load() {
		return ErrClosed
	}
	if l.cfg.Path == "" {
		return fmtErrorf("rotation requested but no log file is configured")
	}
	if !l.cfg.EnableRotation {
		return fmtErrorf("rotation requested but rotation is disabled")
	}

	l.fileMu.Lock()
	defer l.fileMu.Unlock()

	if !l.file.isOpen() {
		if err := l.file.open(); err != nil {
			return err
		}
	}
	if l.file.size == 0 {
		return nil
	}
	return l.rotateLocked(time.Now().Add(ms(l.cfg.RotationTimeoutMs)))
}

// rotateLocked retires the active file into the backup chain and opens a
// fresh one. Caller holds fileMu. Steps after closing the handle are checked
// against deadline; once it passes, the original path is reopened and the
// chain is left as is. No placeholder backups are ever created.
func (l *Logger) rotateLocked(deadline time.Time) error {
	path := l.file.path
	count := l.cfg.BackupCount

	if err := l.file.close(); err != nil {
		l.internalLog("error closing file before rotation: %v\n", err)
	}

	var stepErrs []error
	timedOut := false

	if count == 0 {
		// No retention: the active content is discarded
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			stepErrs = append(stepErrs, err)
		}
	} else {
		// Drop the oldest retained backup
		if time.Now().After(deadline) {
			timedOut = true
		} else if err := os.Remove(backupPath(path, count)); err != nil && !errors.Is(err, os.ErrNotExist) {
			stepErrs = append(stepErrs, err)
		}

		// Shift .i to .i+1, oldest first
		for i := count - 1; i >= 1 && !timedOut; i-- {
			if time.Now().After(deadline) {
				timedOut = true
				break
			}
			if err := os.Rename(backupPath(path, i), backupPath(path, i+1)); err != nil && !errors.Is(err, os.ErrNotExist) {
				stepErrs = append(stepErrs, err)
			}
		}

		// The active file becomes the newest backup
		if !timedOut {
			if time.Now().After(deadline) {
				timedOut = true
			} else if err := os.Rename(path, backupPath(path, 1)); err != nil {
				stepErrs = append(stepErrs, err)
			}
		}
	}

	// Always leave a writable active file behind
	if err := l.file.open(); err != nil {
		stepErrs = append(stepErrs, err)
	}

	switch {
	case timedOut:
		l.state.rotationsIncomplete.Add(1)
		l.internalLog("rotation of '%s' timed out, continuing with the current file\n", path)
		return fmt.Errorf("%w after %v", ErrRotationTimeout, ms(l.cfg.RotationTimeoutMs))

	case len(stepErrs) > 0:
		l.state.rotationsIncomplete.Add(1)
		err := fmt.Errorf("%w: %w", ErrRotationIncomplete, errors.Join(stepErrs...))
		l.internalLog("%v\n", err)
		return err
	}

	l.state.rotations.Add(1)
	return nil
}
