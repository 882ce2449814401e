// Package scheduler runs recurring background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
)

// StreakResetter is the job the scheduler triggers.
type StreakResetter interface {
	Reset(ctx context.Context) (dto.StreakResetResponse, error)
}

// StreakScheduler triggers the streak reset on a cron schedule.
type StreakScheduler struct {
	cron    *cron.Cron
	job     StreakResetter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewStreakScheduler parses the five-field cron spec evaluated in loc.
func NewStreakScheduler(spec string, loc *time.Location, job StreakResetter, logger zerolog.Logger) (*StreakScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	s := &StreakScheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		job:     job,
		timeout: time.Minute,
		logger:  logger.With().Str("component", "streak_scheduler").Logger(),
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid streak schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *StreakScheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("streak scheduler started")
}

// Stop prevents new runs and waits for a running job or ctx expiry.
func (s *StreakScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("streak scheduler stop timed out")
	}
}

func (s *StreakScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.job.Reset(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("streak reset failed")
		return
	}

	s.logger.Info().
		Bool("weekday", result.Weekday).
		Int("checked", result.Checked).
		Int("reset", result.Reset).
		Msg("streak reset finished")
}
