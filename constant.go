// FILE: ultralog/constant.go
package ultralog

import (
	"time"
)

// Log level constants (severity ranking, higher is more severe)
const (
	LevelDebug    int64 = 10
	LevelInfo     int64 = 20
	LevelWarning  int64 = 30
	LevelError    int64 = 40
	LevelCritical int64 = 50
)

// Console targets
const (
	ConsoleStderr = "stderr"
	ConsoleStdout = "stdout"
)

// Sizes
const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
)

// Timers
const (
	// Minimum wait time used for polling throughout the package
	minWaitTime = 10 * time.Millisecond
	// Upper bound for stopping the cron scheduler during Close
	scheduleStopTimeout = 500 * time.Millisecond
)

// internalPrefix marks diagnostics emitted by the logger itself
const internalPrefix = "ultralog: "
