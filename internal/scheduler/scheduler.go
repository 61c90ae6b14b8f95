// Package scheduler runs the periodic upstream refresh.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher is the slice of the stats service a scheduled job needs.
type Refresher interface {
	RefreshFrom(ctx context.Context, src ingest.Source, season string) (model.UpsertResult, error)
}

// Job describes one scheduled refresh.
type Job struct {
	Spec    string
	Source  ingest.Source
	Season  string
	Timeout time.Duration
}

// Scheduler wraps a cron runner. A Scheduler built from an empty spec is
// disabled and its Start and Stop do nothing.
type Scheduler struct {
	cron *cron.Cron
	job  Job
	svc  Refresher
	log  zerolog.Logger
}

func New(svc Refresher, job Job, logger zerolog.Logger) (*Scheduler, error) {
	l := logger.With().Str("module", "scheduler").Str("component", "refresh").Logger()
	s := &Scheduler{job: job, svc: svc, log: l}
	if strings.TrimSpace(job.Spec) == "" {
		return s, nil
	}
	if job.Source == nil {
		return nil, fmt.Errorf("scheduler: schedule %q set without a source", job.Spec)
	}
	if s.job.Timeout <= 0 {
		s.job.Timeout = 5 * time.Minute
	}

	cl := cronLogger{log: l}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(job.Spec, s.tick); err != nil {
		return nil, fmt.Errorf("scheduler: parse %q: %w", job.Spec, err)
	}
	s.cron = c
	return s, nil
}

// Enabled reports whether a schedule was configured.
func (s *Scheduler) Enabled() bool { return s.cron != nil }

func (s *Scheduler) Start() {
	if s.cron == nil {
		s.log.Debug().Msg("no schedule configured")
		return
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.job.Spec).Msg("scheduler started")
}

// Stop prevents new runs and waits for a running one until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow performs one refresh with the job timeout.
func (s *Scheduler) RunNow(ctx context.Context) (model.UpsertResult, error) {
	timeout := s.job.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.svc.RefreshFrom(ctx, s.job.Source, s.job.Season)
}

func (s *Scheduler) tick() {
	started := time.Now()
	res, err := s.RunNow(context.Background())
	if err != nil {
		s.log.Error().Err(err).Int("applied", res.Applied).Msg("scheduled refresh failed")
		return
	}
	s.log.Info().
		Str("batch_id", res.BatchID).
		Int("applied", res.Applied).
		Int("rejected", res.Errors()).
		Dur("took", time.Since(started)).
		Msg("scheduled refresh done")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
