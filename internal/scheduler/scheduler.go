// Package scheduler re-runs a collection job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. A returned error is logged and the
// next tick runs as usual.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a six-field cron spec (seconds first).
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	job      Job
	logger   *slog.Logger
}

var parser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New validates spec and returns a Scheduler for job.
func New(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return &Scheduler{spec: spec, schedule: schedule, job: job, logger: logger}, nil
}

// Next reports the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run blocks until ctx is cancelled, then waits for a running job to finish.
// Overlapping ticks are skipped while a job is still running.
func (s *Scheduler) Run(ctx context.Context) error {
	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.SkipIfStillRunning(cl)),
	)

	c.Schedule(s.schedule, cron.FuncJob(func() {
		start := time.Now()
		if err := s.job(ctx); err != nil {
			s.logger.Error("scheduled run failed", "error", err, "duration", time.Since(start).Round(time.Millisecond))
			return
		}
		s.logger.Info("scheduled run finished", "duration", time.Since(start).Round(time.Millisecond))
	}))

	s.logger.Info("scheduler started", "spec", s.spec, "next", s.Next(time.Now()).Format(time.RFC3339))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
