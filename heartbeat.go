// FILE: ultralog/heartbeat.go
package ultralog

import (
	"fmt"
	"time"
)

// logHeartbeat emits an INFO record with the logger counters. Called from
// the batch writer every heartbeat_interval_s.
func (l *Logger) logHeartbeat() {
	if l.state.closed.Load() {
		return
	}

	sequence := l.state.heartbeats.Add(1)
	stats := l.Stats()

	msg := fmt.Sprintf("heartbeat sequence=%d uptime=%s processed=%d dropped=%d rotations=%d rotations_incomplete=%d queued=%d",
		sequence,
		stats.Uptime.Truncate(time.Second),
		stats.Processed,
		stats.Dropped,
		stats.Rotations,
		stats.RotationsIncomplete,
		stats.Queued,
	)
	if l.remote != nil {
		msg += fmt.Sprintf(" remote_dropped=%d", stats.RemoteDropped)
	}

	l.log(LevelInfo, msg)
}
