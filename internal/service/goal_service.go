package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// ErrGoalNotFound indicates the goal does not exist or is not visible to the caller.
var ErrGoalNotFound = errors.New("goal not found")

// GoalService manages personal and class goals.
type GoalService interface {
	List(ctx context.Context, actor Actor) ([]dto.GoalResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.GoalCreateRequest) (dto.GoalResponse, error)
	ListClassGoals(ctx context.Context, actor Actor, classID uint) ([]dto.GoalResponse, error)
	CreateClassGoal(ctx context.Context, actor Actor, classID uint, payload dto.GoalCreateRequest) (dto.GoalResponse, error)
	StudentGoals(ctx context.Context, actor Actor) (dto.StudentGoalsResponse, error)
	CreatePersonal(ctx context.Context, actor Actor, payload dto.GoalCreateRequest) (dto.GoalResponse, error)
	Update(ctx context.Context, actor Actor, goalID uint, payload dto.GoalUpdateRequest) (dto.GoalResponse, error)
	Delete(ctx context.Context, actor Actor, goalID uint) error
}

type goalService struct {
	goals     repository.GoalRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGoalService constructs the goal service.
func NewGoalService(goals repository.GoalRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) GoalService {
	return &goalService{
		goals:     goals,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "goal_service").Logger(),
		now:       time.Now,
	}
}

// List returns the goals of classes a teacher owns, or the personal goals of anyone else.
func (s *goalService) List(ctx context.Context, actor Actor) ([]dto.GoalResponse, error) {
	var (
		goals []models.Goal
		err   error
	)
	if actor.IsTeacher() {
		goals, err = s.goals.ListForTeacher(ctx, actor.ID)
	} else {
		goals, err = s.goals.ListPersonal(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewGoalResponseSlice(goals, s.now()), nil
}

// Create attaches teacher goals to one of their classes and stores everyone else's as personal goals.
func (s *goalService) Create(ctx context.Context, actor Actor, payload dto.GoalCreateRequest) (dto.GoalResponse, error) {
	if !actor.IsTeacher() {
		return s.CreatePersonal(ctx, actor, payload)
	}

	if payload.ClassID == nil {
		return dto.GoalResponse{}, NewValidationError("class_id", "class_id is required for teacher goals")
	}
	return s.CreateClassGoal(ctx, actor, *payload.ClassID, payload)
}

func (s *goalService) ListClassGoals(ctx context.Context, actor Actor, classID uint) ([]dto.GoalResponse, error) {
	if !actor.IsTeacher() {
		return []dto.GoalResponse{}, nil
	}

	goals, err := s.goals.ListByClassAndCreator(ctx, classID, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewGoalResponseSlice(goals, s.now()), nil
}

func (s *goalService) CreateClassGoal(ctx context.Context, actor Actor, classID uint, payload dto.GoalCreateRequest) (dto.GoalResponse, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	if err := s.validator.Struct(payload); err != nil {
		return dto.GoalResponse{}, err
	}

	if !actor.IsTeacher() {
		return dto.GoalResponse{}, ErrClassNotFound
	}
	class, err := s.classes.GetOwned(ctx, classID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GoalResponse{}, ErrClassNotFound
		}
		return dto.GoalResponse{}, err
	}

	creator := actor.ID
	goal := models.Goal{
		Title:       payload.Title,
		Deadline:    payload.Deadline.UTC(),
		IsCompleted: payload.IsCompleted,
		ClassID:     &class.ID,
		CreatedByID: &creator,
	}
	if err := s.goals.Create(ctx, &goal); err != nil {
		return dto.GoalResponse{}, err
	}

	s.logger.Info().Uint("goal_id", goal.ID).Uint("class_id", class.ID).Msg("class goal created")
	return dto.NewGoalResponse(goal, s.now()), nil
}

// StudentGoals returns personal goals and the goals of enrolled classes. Non-students get empty buckets.
func (s *goalService) StudentGoals(ctx context.Context, actor Actor) (dto.StudentGoalsResponse, error) {
	response := dto.StudentGoalsResponse{
		PersonalGoals: []dto.GoalResponse{},
		ClassGoals:    []dto.GoalResponse{},
	}
	if !actor.IsStudent() {
		return response, nil
	}

	now := s.now()
	personal, err := s.goals.ListPersonal(ctx, actor.ID)
	if err != nil {
		return dto.StudentGoalsResponse{}, err
	}
	classGoals, err := s.goals.ListForEnrolledStudent(ctx, actor.ID)
	if err != nil {
		return dto.StudentGoalsResponse{}, err
	}

	response.PersonalGoals = dto.NewGoalResponseSlice(personal, now)
	response.ClassGoals = dto.NewGoalResponseSlice(classGoals, now)
	return response, nil
}

func (s *goalService) CreatePersonal(ctx context.Context, actor Actor, payload dto.GoalCreateRequest) (dto.GoalResponse, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	payload.ClassID = nil
	if err := s.validator.Struct(payload); err != nil {
		return dto.GoalResponse{}, err
	}

	owner := actor.ID
	goal := models.Goal{
		Title:       payload.Title,
		Deadline:    payload.Deadline.UTC(),
		IsCompleted: payload.IsCompleted,
		UserID:      &owner,
		CreatedByID: &owner,
	}
	if err := s.goals.Create(ctx, &goal); err != nil {
		return dto.GoalResponse{}, err
	}

	s.logger.Info().Uint("goal_id", goal.ID).Uint("user_id", owner).Msg("personal goal created")
	return dto.NewGoalResponse(goal, s.now()), nil
}

func (s *goalService) Update(ctx context.Context, actor Actor, goalID uint, payload dto.GoalUpdateRequest) (dto.GoalResponse, error) {
	if payload.Title != nil {
		trimmed := strings.TrimSpace(*payload.Title)
		payload.Title = &trimmed
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.GoalResponse{}, err
	}

	goal, err := s.manageable(ctx, actor, goalID)
	if err != nil {
		return dto.GoalResponse{}, err
	}

	if payload.Title != nil {
		goal.Title = *payload.Title
	}
	if payload.Deadline != nil {
		goal.Deadline = payload.Deadline.UTC()
	}
	if payload.IsCompleted != nil {
		goal.IsCompleted = *payload.IsCompleted
	}

	if err := s.goals.Update(ctx, &goal); err != nil {
		return dto.GoalResponse{}, err
	}
	return dto.NewGoalResponse(goal, s.now()), nil
}

func (s *goalService) Delete(ctx context.Context, actor Actor, goalID uint) error {
	if _, err := s.manageable(ctx, actor, goalID); err != nil {
		return err
	}

	if err := s.goals.Delete(ctx, goalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGoalNotFound
		}
		return err
	}

	s.logger.Info().Uint("goal_id", goalID).Msg("goal deleted")
	return nil
}

// manageable loads a goal the actor owns personally or through the class they teach.
func (s *goalService) manageable(ctx context.Context, actor Actor, goalID uint) (models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Goal{}, ErrGoalNotFound
		}
		return models.Goal{}, err
	}

	if goal.UserID != nil && *goal.UserID == actor.ID {
		return goal, nil
	}
	if goal.Class != nil && goal.Class.TeacherID == actor.ID {
		return goal, nil
	}
	return models.Goal{}, ErrGoalNotFound
}
