package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// ErrProfileNotFound indicates the account has no role profile.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService exposes the role profiles and their gamification counters.
type ProfileService interface {
	StudentProfile(ctx context.Context, actor Actor) (dto.StudentProfileResponse, error)
	TeacherProfile(ctx context.Context, actor Actor) (dto.TeacherProfileResponse, error)
}

type profileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	goals    repository.GoalRepository
	classes  repository.ClassRepository
	logger   zerolog.Logger
}

// NewProfileService constructs the profile service.
func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, goals repository.GoalRepository, classes repository.ClassRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		users:    users,
		profiles: profiles,
		goals:    goals,
		classes:  classes,
		logger:   logger.With().Str("component", "profile_service").Logger(),
	}
}

// StudentProfile recounts completed personal goals and persists the counter when it drifted.
func (s *profileService) StudentProfile(ctx context.Context, actor Actor) (dto.StudentProfileResponse, error) {
	user, err := s.account(ctx, actor)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}
	if !user.IsStudent() {
		return dto.StudentProfileResponse{}, ErrForbidden
	}

	profile, err := s.profiles.GetStudentProfile(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProfileResponse{}, ErrProfileNotFound
		}
		return dto.StudentProfileResponse{}, err
	}

	completed, err := s.goals.CountCompletedPersonal(ctx, user.ID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}
	if int(completed) != profile.CompletedGoals {
		if err := s.profiles.SetCompletedGoals(ctx, profile.ID, int(completed)); err != nil {
			return dto.StudentProfileResponse{}, err
		}
		s.logger.Debug().Uint("user_id", user.ID).Int64("completed_goals", completed).Msg("completed goals recounted")
		profile.CompletedGoals = int(completed)
	}

	return dto.NewStudentProfileResponse(user, profile), nil
}

func (s *profileService) TeacherProfile(ctx context.Context, actor Actor) (dto.TeacherProfileResponse, error) {
	user, err := s.account(ctx, actor)
	if err != nil {
		return dto.TeacherProfileResponse{}, err
	}
	if !user.IsTeacher() {
		return dto.TeacherProfileResponse{}, ErrForbidden
	}

	if _, err := s.profiles.EnsureTeacherProfile(ctx, user.ID); err != nil {
		return dto.TeacherProfileResponse{}, err
	}

	classes, err := s.classes.ListByTeacher(ctx, user.ID)
	if err != nil {
		return dto.TeacherProfileResponse{}, err
	}
	count, err := s.classes.CountByTeacher(ctx, user.ID)
	if err != nil {
		return dto.TeacherProfileResponse{}, err
	}

	return dto.TeacherProfileResponse{
		User:         dto.NewUserResponse(user, classes),
		ClassesCount: count,
	}, nil
}

func (s *profileService) account(ctx context.Context, actor Actor) (models.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAccountNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
