// Package scheduler runs the trending scrape on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled unit of work.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Scheduler drives a Job on a cron expression. Overlapping runs are
// skipped rather than queued.
type Scheduler struct {
	schedule string
	job      Job
	cron     *cron.Cron
}

// New creates a scheduler for the given cron expression and job.
func New(schedule string, job Job) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		job:      job,
		// Prevent overlapping runs
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start blocks until the context is cancelled, running the job on its
// schedule.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Error().Err(err).Str("job", s.job.Name()).Msg("Scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Info().Str("job", s.job.Name()).Str("schedule", s.schedule).Msg("Scheduler started")
	s.cron.Start()

	<-ctx.Done()
	log.Info().Str("job", s.job.Name()).Msg("Scheduler stopping")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return ctx.Err()
}

// RunOnce executes the job immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	log.Info().Str("job", s.job.Name()).Msg("Starting scheduled run")
	if err := s.job.RunOnce(ctx); err != nil {
		return fmt.Errorf("%s run failed: %w", s.job.Name(), err)
	}
	return nil
}
