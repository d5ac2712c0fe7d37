// FILE: ultralog/processor.go
package ultralog

import (
	"context"
	"time"
)

// processBatches is the batch writer loop running in its own goroutine.
// It drains the pending queue in bounded batches and idles for the flush
// interval only when nothing was drained.
func (l *Logger) processBatches(ctx context.Context) {
	defer close(l.done)

	idle := time.NewTimer(ms(l.cfg.FlushIntervalMs))
	defer idle.Stop()

	var nextHeartbeat time.Time
	heartbeatInterval := time.Duration(l.cfg.HeartbeatIntervalS) * time.Second
	if heartbeatInterval > 0 {
		nextHeartbeat = time.Now().Add(heartbeatInterval)
	}

	for {
		if ctx.Err() != nil {
			return
		}

		if heartbeatInterval > 0 && !time.Now().Before(nextHeartbeat) {
			l.logHeartbeat()
			nextHeartbeat = time.Now().Add(heartbeatInterval)
		}

		if l.drainOnce() > 0 {
			continue
		}

		idle.Reset(ms(l.cfg.FlushIntervalMs))
		select {
		case <-ctx.Done():
			return
		case <-idle.C:
		}
	}
}

// drainOnce pops and flushes one batch. drainMu makes pop+flush atomic with
// respect to the other consumer, so records from one producer reach the file
// in the order they were pushed.
func (l *Logger) drainOnce() int {
	l.drainMu.Lock()
	defer l.drainMu.Unlock()

	batch := l.queue.popBatch(int(l.cfg.BatchSize))
	if len(batch) == 0 {
		return 0
	}
	l.flushBatch(batch)
	return len(batch)
}

// flushBatch writes one batch under the file lock. The size check runs per
// record rather than once per batch, so a batch is split into runs that fit
// under max_file_size and the file may rotate more than once inside it. A
// record larger than the limit goes alone into a fresh file. An empty active
// file is never rotated.
//
// A write or flush failure closes the handle so the next batch reopens the
// path. Records not yet flushed when that happens are counted as dropped.
func (l *Logger) flushBatch(batch [][]byte) {
	l.fileMu.Lock()
	defer l.fileMu.Unlock()

	if !l.file.isOpen() {
		if err := l.file.open(); err != nil {
			l.internalLog("dropping %d records: %v\n", len(batch), err)
			l.state.dropped.Add(uint64(len(batch)))
			return
		}
	}

	// Records written since the last point their bytes left the buffer
	pending := 0
	rotationFailed := false
	for i, record := range batch {
		// A failed rotation is not retried within the same batch
		if !rotationFailed && l.needsRotation(int64(len(record))) {
			if err := l.rotateLocked(time.Now().Add(ms(l.cfg.RotationTimeoutMs))); err != nil {
				rotationFailed = true
			}
			// Closing the retired file flushed its buffer
			l.state.processed.Add(uint64(pending))
			pending = 0
			if !l.file.isOpen() {
				l.state.dropped.Add(uint64(len(batch) - i))
				return
			}
		}

		if err := l.file.write(record); err != nil {
			l.abandonFile(err, pending+len(batch)-i)
			return
		}
		pending++
	}

	if err := l.file.flush(); err != nil {
		l.abandonFile(err, pending)
		return
	}
	l.state.processed.Add(uint64(pending))
}

// abandonFile drops a handle that failed mid-batch. Caller holds fileMu.
func (l *Logger) abandonFile(err error, lost int) {
	l.internalLog("dropping %d records: %v\n", lost, err)
	l.state.dropped.Add(uint64(lost))
	if closeErr := l.file.close(); closeErr != nil {
		l.internalLog("%v\n", closeErr)
	}
}

// needsRotation reports whether appending n more bytes would push a
// non-empty active file past the limit
func (l *Logger) needsRotation(n int64) bool {
	return l.cfg.EnableRotation &&
		l.file.size > 0 &&
		l.file.size+n > l.cfg.MaxFileSize
}
