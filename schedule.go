// FILE: ultralog/schedule.go
package ultralog

import (
	"errors"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard five-field specs, an optional leading
// seconds field, and descriptors such as @daily or @every 1h
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func parseSchedule(spec string) (cron.Schedule, error) {
	return scheduleParser.Parse(spec)
}

// startSchedule forces a rotation at every activation of spec, regardless of
// the active file size
func (l *Logger) startSchedule(spec string) error {
	sched, err := parseSchedule(spec)
	if err != nil {
		return fmtErrorf("invalid rotate_schedule '%s': %w", spec, err)
	}

	c := cron.New(cron.WithParser(scheduleParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(l.scheduledRotate))
	c.Start()
	l.schedule = c
	return nil
}

func (l *Logger) scheduledRotate() {
	if err := l.Rotate(); err != nil && !errors.Is(err, ErrClosed) {
		l.internalLog("scheduled rotation: %v\n", err)
	}
}
