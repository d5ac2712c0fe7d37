// FILE: ultralog/processor_test.go
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
	"golang.org/x/sync/errgroup"
)

func TestConcurrentProducers(t *testing.T) {
	const (
		workers  = 10
		messages = 100
	)
	logger, path := createTestLogger(t)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < messages; i++ {
				logger.Info(fmt.Sprintf("worker-%d-%d", w, i))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, logger.Close())

	lines := readLines(t, path)
	require.Len(t, lines, workers*messages)

	// Exactly once per (worker, index), in each worker's own order
	next := make([]int, workers)
	for _, line := range lines {
		_, msg, found := strings.Cut(line, " - INFO - ")
		require.True(t, found, line)

		var w, i int
		_, err := fmt.Sscanf(msg, "worker-%d-%d", &w, &i)
		require.NoError(t, err, line)
		require.Equal(t, next[w], i, "worker %d out of order", w)
		next[w]++
	}
	for w := 0; w < workers; w++ {
		assert.Equal(t, messages, next[w])
	}
}

func TestConcurrentProducersWithRotationAndReconfiguration(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) {
		c.MaxFileSize = 4 * KiB
		c.BackupCount = 50
		c.BatchSize = 7
	})
	logger.SetConsoleWriter(&syncBuffer{})

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				logger.Info(fmt.Sprintf("w%d-%d", w, i))
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := 0; i < 50; i++ {
			logger.SetConsoleOutput(i%2 == 0)
			logger.SetLevel(LevelDebug)
		}
		logger.SetConsoleOutput(false)
		return nil
	})
	require.NoError(t, g.Wait())
	require.NoError(t, logger.Close())

	// Nothing lost across the chain: 1600 records spread over active + backups
	total := len(readLines(t, path))
	for i := int64(1); ; i++ {
		p := backupPath(path, i)
		if _, err := os.Stat(p); err != nil {
			break
		}
		total += len(readLines(t, p))
	}
	assert.Equal(t, 1600, total)
	assert.Equal(t, uint64(0), logger.Stats().RotationsIncomplete)
}

func TestUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	console := &syncBuffer{}
	cfg := DefaultConfig()
	cfg.Path = filepath.Join(blocker, "sub", "app.log")
	cfg.FlushIntervalMs = 10

	// Construction succeeds; the failure is reported and logging degrades
	logger, err := New(cfg, WithConsoleWriter(console))
	require.NoError(t, err)
	assert.Contains(t, console.String(), "ultralog: ")

	assert.NotPanics(t, func() {
		logger.Error("lost record")
	})
	require.NoError(t, logger.Close())

	assert.Equal(t, uint64(1), logger.Stats().Dropped)
	assert.Contains(t, console.String(), "lost record")
}

func TestInternalLogRespectsConsoleToggle(t *testing.T) {
	console := &syncBuffer{}
	logger, err := New(nil, WithConsoleWriter(console))
	require.NoError(t, err)
	defer logger.Close()

	logger.SetConsoleOutput(false)
	logger.internalLog("hidden diagnostic\n")
	assert.Empty(t, console.String())

	logger.SetConsoleOutput(true)
	logger.internalLog("visible diagnostic\n")
	assert.Equal(t, "ultralog: visible diagnostic\n", console.String())
}

func TestHeartbeat(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) { c.HeartbeatIntervalS = 1 })

	logger.Info("work")
	require.Eventually(t, func() bool {
		return logger.Stats().Heartbeats > 0
	}, 3*time.Second, 20*time.Millisecond)
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "INFO - heartbeat sequence=1 ")
	assert.Contains(t, string(content), "processed=")
}

func TestBatchSizeBoundsPop(t *testing.T) {
	var q pendingQueue
	for i := 0; i < 120; i++ {
		q.push([]byte(fmt.Sprintf("%d", i)))
	}

	first := q.popBatch(50)
	require.Len(t, first, 50)
	assert.Equal(t, "0", string(first[0]))
	assert.Equal(t, "49", string(first[49]))

	second := q.popBatch(50)
	assert.Equal(t, "50", string(second[0]))
	assert.Equal(t, 20, q.len())

	assert.Len(t, q.popBatch(50), 20)
	assert.Nil(t, q.popBatch(50))
	assert.Equal(t, 0, q.len())
}

func TestQueueDiscard(t *testing.T) {
	var q pendingQueue
	q.push([]byte("a"))
	q.push([]byte("b"))

	assert.Equal(t, 2, q.discard())
	assert.Equal(t, 0, q.len())
}

func TestRecoversAfterHandleFailure(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) { c.ShowTimestamp = false })

	logger.Info("before")
	require.NoError(t, logger.Flush(time.Second))

	// Pull the handle out from under the logger
	logger.fileMu.Lock()
	require.NoError(t, logger.file.file.Close())
	logger.fileMu.Unlock()

	logger.Info("lost")
	require.NoError(t, logger.Flush(time.Second))
	assert.False(t, func() bool {
		logger.fileMu.Lock()
		defer logger.fileMu.Unlock()
		return logger.file.isOpen()
	}(), "failed handle must be released")

	for i := 0; i < 3; i++ {
		logger.Info(fmt.Sprintf("after recovery %d", i))
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, logger.Close())

	assert.Equal(t, []string{
		"UltraLogger - INFO - before",
		"UltraLogger - INFO - after recovery 0",
		"UltraLogger - INFO - after recovery 1",
		"UltraLogger - INFO - after recovery 2",
	}, readLines(t, path))

	stats := logger.Stats()
	assert.Equal(t, uint64(4), stats.Processed)
	assert.Equal(t, uint64(1), stats.Dropped)
}

func TestUnbufferedWriteFailureDropsRestOfBatch(t *testing.T) {
	logger, path := createTestLogger(t, func(c *Config) {
		c.ShowTimestamp = false
		c.FileBufferSize = 0
		c.FlushIntervalMs = 60_000
	})
	defer logger.Close()

	logger.fileMu.Lock()
	require.NoError(t, logger.file.file.Close())
	logger.fileMu.Unlock()

	// Both records land in one batch
	logger.drainMu.Lock()
	logger.Info("a")
	logger.Info("b")
	logger.drainMu.Unlock()
	require.NoError(t, logger.Flush(time.Second))
	assert.Equal(t, uint64(2), logger.Stats().Dropped)
	assert.Equal(t, uint64(0), logger.Stats().Processed)

	logger.Info("c")
	require.NoError(t, logger.Flush(time.Second))
	assert.Equal(t, []string{"UltraLogger - INFO - c"}, readLines(t, path))
}
