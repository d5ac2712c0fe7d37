// FILE: ultralog/state.go
package ultralog

import (
	"io"
	"sync/atomic"
	"time"
)

// State encapsulates the runtime counters and flags of the logger
type State struct {
	closed atomic.Bool

	startTime time.Time

	processed           atomic.Uint64 // Records written to the file
	dropped             atomic.Uint64 // Records lost to I/O failure or shutdown timeout
	rotations           atomic.Uint64 // Completed rotations
	rotationsIncomplete atomic.Uint64 // Rotations that timed out or left the chain partially shifted
	heartbeats          atomic.Uint64
}

// Stats is a point-in-time snapshot of the logger counters
type Stats struct {
	Processed           uint64
	Dropped             uint64
	Rotations           uint64
	RotationsIncomplete uint64
	Heartbeats          uint64
	Queued              int
	RemoteDropped       uint64
	Uptime              time.Duration
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	s := Stats{
		Processed:           l.state.processed.Load(),
		Dropped:             l.state.dropped.Load(),
		Rotations:           l.state.rotations.Load(),
		RotationsIncomplete: l.state.rotationsIncomplete.Load(),
		Heartbeats:          l.state.heartbeats.Load(),
		Queued:              l.queue.len(),
		Uptime:              time.Since(l.state.startTime),
	}
	if l.remote != nil {
		s.RemoteDropped = l.remote.Dropped()
	}
	return s
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}
