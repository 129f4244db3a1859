package schedule

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Task is a single report pass.
type Task func(ctx context.Context) error

// Run executes task once when interval is not positive and returns its error.
// Otherwise task runs immediately and, after each pass completes, again once
// interval has elapsed, until ctx is cancelled. Failed passes are logged and
// do not stop the loop.
func Run(ctx context.Context, interval time.Duration, task Task) error {
	if interval <= 0 {
		return task(ctx)
	}

	for pass := 1; ; pass++ {
		if err := task(ctx); err != nil {
			log.WithError(err).WithField("pass", pass).Error("Report pass failed")
		}
		if ctx.Err() != nil {
			log.Debug("Stopping periodic runner")
			return nil
		}

		log.WithField("next_pass_in", interval.String()).Debug("Waiting for next pass")
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug("Stopping periodic runner")
			return nil
		case <-timer.C:
		}
	}
}
