package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// StreakService clears the streak of students who stopped completing tasks.
type StreakService interface {
	Reset(ctx context.Context) (dto.StreakResetResponse, error)
}

type streakService struct {
	users    repository.UserRepository
	tasks    repository.TaskRepository
	profiles repository.ProfileRepository
	events   EventPublisher
	logger   zerolog.Logger
	tracer   trace.Tracer
	location *time.Location
	now      func() time.Time
}

// NewStreakService constructs the streak reset service evaluating days in the given location.
func NewStreakService(users repository.UserRepository, tasks repository.TaskRepository, profiles repository.ProfileRepository, events EventPublisher, location *time.Location, logger zerolog.Logger) StreakService {
	if location == nil {
		location = time.UTC
	}

	return &streakService{
		users:    users,
		tasks:    tasks,
		profiles: profiles,
		events:   events,
		logger:   logger.With().Str("component", "streak_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/classroom-api/internal/service/streak"),
		location: location,
		now:      time.Now,
	}
}

// Reset runs only Monday to Friday. A student whose latest completion is older than yesterday loses the streak;
// students without any completion are left alone.
func (s *streakService) Reset(ctx context.Context) (dto.StreakResetResponse, error) {
	ctx, span := s.tracer.Start(ctx, "streak.reset")
	defer span.End()

	today := time.Time(models.DateOf(s.now().In(s.location)))
	response := dto.StreakResetResponse{Weekday: isWeekday(today.Weekday())}
	span.SetAttributes(attribute.Bool("streak.weekday", response.Weekday))
	if !response.Weekday {
		return response, nil
	}

	students, err := s.users.List(ctx, repository.UserFilter{Role: models.RoleStudent})
	if err != nil {
		return dto.StreakResetResponse{}, err
	}

	cutoff := today.AddDate(0, 0, -1)
	resetIDs := make([]uint, 0)
	for _, student := range students {
		latest, err := s.tasks.LatestCompletion(ctx, student.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return dto.StreakResetResponse{}, err
		}
		response.Checked++

		if !time.Time(latest.CompletedDate).Before(cutoff) {
			continue
		}

		cleared, err := s.profiles.ResetStreak(ctx, student.ID)
		if err != nil {
			return dto.StreakResetResponse{}, err
		}
		if cleared {
			resetIDs = append(resetIDs, student.ID)
		}
	}

	response.Reset = len(resetIDs)
	observability.StreakResets().Add(float64(response.Reset))
	span.SetAttributes(attribute.Int("streak.checked", response.Checked), attribute.Int("streak.reset", response.Reset))

	if s.events != nil && response.Reset > 0 {
		event := map[string]interface{}{
			"date":        today.Format("2006-01-02"),
			"student_ids": resetIDs,
		}
		if err := s.events.Publish(ctx, TopicStreakReset, event); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish streak reset event")
		}
	}

	s.logger.Info().Int("checked", response.Checked).Int("reset", response.Reset).Msg("streaks evaluated")
	return response, nil
}

func isWeekday(day time.Weekday) bool {
	return day >= time.Monday && day <= time.Friday
}
