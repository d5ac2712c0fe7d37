// FILE: ultralog/rotate_test.go
package ultralog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileSize returns the size of path, or -1 if it does not exist
func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return -1
	}
	require.NoError(t, err)
	return info.Size()
}

func TestRotationCreatesBackups(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) {
		c.MaxFileSize = 200
		c.BackupCount = 2
		c.ForceSync = true
	})

	for i := 0; i < 10; i++ {
		logger.Info(fmt.Sprintf("message %d %s", i, strings.Repeat("x", 40)))
	}
	require.NoError(t, logger.Close())

	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")
	assert.Greater(t, logger.Stats().Rotations, uint64(0))
}

func TestRotationBounds(t *testing.T) {
	const (
		maxSize = 300
		backups = 3
		total   = 60
	)
	logger, path := createTestLogger(t, func(c *Config) {
		c.ShowTimestamp = false
		c.MaxFileSize = maxSize
		c.BackupCount = backups
	})

	for i := 0; i < total; i++ {
		logger.Info(fmt.Sprintf("record-%03d", i))
	}
	require.NoError(t, logger.Close())

	for i := int64(1); i <= backups; i++ {
		require.FileExists(t, backupPath(path, i))
	}
	assert.NoFileExists(t, backupPath(path, backups+1))

	// Every file stays under the limit, newest content is in the active file,
	// and each backup is older than the one before it
	previousFirst := total
	for _, p := range []string{path, backupPath(path, 1), backupPath(path, 2), backupPath(path, 3)} {
		assert.LessOrEqual(t, fileSize(t, p), int64(maxSize), p)

		lines := readLines(t, p)
		require.NotEmpty(t, lines, p)

		var first, last int
		_, err := fmt.Sscanf(lines[0], "UltraLogger - INFO - record-%d", &first)
		require.NoError(t, err)
		_, err = fmt.Sscanf(lines[len(lines)-1], "UltraLogger - INFO - record-%d", &last)
		require.NoError(t, err)

		assert.Less(t, last, previousFirst, p)
		previousFirst = first
	}

	// The oldest records are gone from the file set
	assert.Greater(t, previousFirst, 0)
}

func TestRotationDisabled(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) {
		c.EnableRotation = false
		c.MaxFileSize = 100
	})

	for i := 0; i < 20; i++ {
		logger.Info("unbounded growth")
	}
	require.NoError(t, logger.Close())

	assert.Len(t, readLines(t, path), 20)
	assert.NoFileExists(t, path+".1")
	assert.ErrorIs(t, logger.Rotate(), ErrClosed)
}

func TestRotationTinyLimit(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) {
		c.ShowTimestamp = false
		c.MaxFileSize = 10
		c.BackupCount = 2
	})

	for i := 0; i < 5; i++ {
		logger.Info(fmt.Sprintf("r%d", i))
	}
	require.NoError(t, logger.Close())

	// Each record is larger than the limit, so every record gets its own file
	assert.Equal(t, []string{"UltraLogger - INFO - r4"}, readLines(t, path))
	assert.Equal(t, []string{"UltraLogger - INFO - r3"}, readLines(t, path+".1"))
	assert.Equal(t, []string{"UltraLogger - INFO - r2"}, readLines(t, path+".2"))
	assert.NoFileExists(t, path+".3")
}

func TestRotationWithoutBackups(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) {
		c.ShowTimestamp = false
		c.MaxFileSize = 60
		c.BackupCount = 0
	})

	for i := 0; i < 6; i++ {
		logger.Info(fmt.Sprintf("entry-%d", i))
	}
	require.NoError(t, logger.Close())

	lines := readLines(t, path)
	require.NotEmpty(t, lines)
	assert.Equal(t, "UltraLogger - INFO - entry-5", lines[len(lines)-1])
	assert.NotContains(t, lines, "UltraLogger - INFO - entry-0")
	assert.NoFileExists(t, path+".1")
}

func TestExistingFileCountsTowardLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("o", 150)+"\n"), 0644))

	cfg := DefaultConfig()
	cfg.Path = path
	cfg.ConsoleOutput = false
	cfg.MaxFileSize = 200

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Info(strings.Repeat("n", 60))
	require.NoError(t, logger.Close())

	old, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("o", 150)+"\n", string(old))
	assert.Len(t, readLines(t, path), 1)
}

func TestTruncateOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.log")
	require.NoError(t, os.WriteFile(path, []byte("stale line\n"), 0644))

	logger, err := NewBuilder().
		Path(path).
		TruncateFile(true).
		ConsoleOutput(false).
		Build()
	require.NoError(t, err)
	logger.Info("fresh line")
	require.NoError(t, logger.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "fresh line")
}

func TestManualRotate(t *testing.T) {
	logger, path := createTestLogger(t)
	defer logger.Close()

	// Nothing written yet: the empty file is not retired
	require.NoError(t, logger.Rotate())
	assert.NoFileExists(t, path+".1")

	logger.Info("first generation")
	require.NoError(t, logger.Flush(time.Second))
	require.NoError(t, logger.Rotate())

	backup := readLines(t, path+".1")
	require.Len(t, backup, 1)
	assert.Contains(t, backup[0], "first generation")
	assert.Equal(t, int64(0), fileSize(t, path))
	assert.Equal(t, uint64(1), logger.Stats().Rotations)
}

func TestRotateRequiresFileAndRotation(t *testing.T) {
	logger, err := New(nil, WithConsoleWriter(&syncBuffer{}))
	require.NoError(t, err)
	assert.Error(t, logger.Rotate())
	require.NoError(t, logger.Close())

	disabled, _ := createTestLogger(t, func(c *Config) { c.EnableRotation = false })
	assert.Error(t, disabled.Rotate())
	require.NoError(t, disabled.Close())
}

func TestRotationTimeout(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) { c.BackupCount = 3 })

	logger.Info("generation a")
	require.NoError(t, logger.Flush(time.Second))
	require.NoError(t, logger.Rotate())
	logger.Info("generation b")
	require.NoError(t, logger.Flush(time.Second))

	// A deadline already in the past abandons the shift before touching the chain
	logger.fileMu.Lock()
	err := logger.rotateLocked(time.Now().Add(-time.Second))
	stillOpen := logger.file.isOpen()
	logger.fileMu.Unlock()

	assert.ErrorIs(t, err, ErrRotationTimeout)
	assert.True(t, stillOpen, "active file must be reopened after a timeout")
	assert.Equal(t, uint64(1), logger.Stats().RotationsIncomplete)

	logger.Info("generation c")
	require.NoError(t, logger.Close())

	active := readLines(t, path)
	require.Len(t, active, 2)
	assert.Contains(t, active[0], "generation b")
	assert.Contains(t, active[1], "generation c")

	backup := readLines(t, path+".1")
	require.Len(t, backup, 1)
	assert.Contains(t, backup[0], "generation a")
	assert.NoFileExists(t, path+".2")
}

func TestRotationIncompleteNoPlaceholders(t *testing.T) {
	console := &syncBuffer{}
	logger, path := createTestLogger(t, func(c *Config) {
		c.BackupCount = 2
		c.ConsoleOutput = true
	})
	logger.SetConsoleWriter(console)

	// A non-empty directory in the oldest slot cannot be removed
	blocker := backupPath(path, 2)
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0755))

	logger.Info("survives")
	require.NoError(t, logger.Flush(time.Second))

	err := logger.Rotate()
	assert.ErrorIs(t, err, ErrRotationIncomplete)
	assert.Equal(t, uint64(1), logger.Stats().RotationsIncomplete)
	assert.Contains(t, console.String(), "ultralog: ")

	// The active file still moved to .1 and nothing was fabricated
	backup := readLines(t, path+".1")
	require.Len(t, backup, 1)
	assert.Contains(t, backup[0], "survives")
	assert.DirExists(t, blocker)
	assert.NoFileExists(t, backupPath(path, 3))

	logger.Info("after incomplete rotation")
	require.NoError(t, logger.Close())
	assert.Len(t, readLines(t, path), 1)
}

func TestScheduledRotation(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) { c.RotateSchedule = "@every 1s" })
	defer logger.Close()

	logger.Info("before schedule")
	require.NoError(t, logger.Flush(time.Second))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path + ".1")
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
}
