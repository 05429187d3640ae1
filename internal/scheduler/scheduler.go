// Package scheduler drives a job on a fixed wall-clock period using cron.
//
// The job runs once immediately when the scheduler starts and then every
// interval. Runs never overlap: a run that comes due while the previous one
// is still in progress is dropped, whether it was triggered by the timer or
// by TickNow.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/logging"
)

// MinInterval is the shortest period cron can schedule.
const MinInterval = time.Second

// Scheduler runs a job periodically.
type Scheduler struct {
	interval time.Duration
	job      cron.Job
	logger   logging.Logger
	cron     *cron.Cron
}

// New prepares a scheduler for job. Nothing runs until Run is called.
func New(interval time.Duration, job func(), logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Nop()
	}
	cl := logging.CronLogger{Logger: logger}
	return &Scheduler{
		interval: interval,
		job:      cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(job)),
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cl)),
	}
}

// Interval returns the configured period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Run fires the job once, then on every interval until ctx is cancelled. It
// returns after the in-flight run, if any, has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval < MinInterval {
		return apperrors.NewConfigError("sampling interval %s is below the minimum of %s", s.interval, MinInterval)
	}

	s.cron.Schedule(cron.Every(s.interval), s.job)
	s.logger.Debug("scheduler starting", logging.String("interval", s.interval.String()))

	s.job.Run()
	s.cron.Start()

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Debug("scheduler stopped")
	return nil
}

// TickNow runs the job on the caller's goroutine, unless a run is already in
// progress.
func (s *Scheduler) TickNow() {
	s.job.Run()
}
