package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// Gamification rewards applied per task completion.
const (
	StreakPerCompletion = 1
	PointsPerCompletion = 10
)

// ErrTaskNotFound indicates the task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// TaskService manages tasks and their completion by students.
type TaskService interface {
	Create(ctx context.Context, actor Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	ListAssigned(ctx context.Context, actor Actor) ([]dto.TaskResponse, error)
	ListCreated(ctx context.Context, actor Actor) ([]dto.TaskResponse, error)
	Complete(ctx context.Context, actor Actor, taskID uint) (dto.TaskCompletionResponse, error)
}

type taskService struct {
	tasks     repository.TaskRepository
	users     repository.UserRepository
	events    EventPublisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	location  *time.Location
	now       func() time.Time
}

// NewTaskService constructs the task service. Completion dates are taken in the given location.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, events EventPublisher, location *time.Location, validate *validator.Validate, logger zerolog.Logger) TaskService {
	if location == nil {
		location = time.UTC
	}

	return &taskService{
		tasks:     tasks,
		users:     users,
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "task_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/classroom-api/internal/service/task"),
		location:  location,
		now:       time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, actor Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if actor.IsStudent() {
		return dto.TaskResponse{}, ErrForbidden
	}

	payload.Title = strings.TrimSpace(payload.Title)
	payload.Description = strings.TrimSpace(payload.Description)
	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	var assignees []models.User
	if len(payload.AssignedTo) > 0 {
		ids := uniqueIDs(payload.AssignedTo)
		users, err := s.users.ListByIDs(ctx, ids)
		if err != nil {
			return dto.TaskResponse{}, err
		}
		if len(users) != len(ids) {
			return dto.TaskResponse{}, NewValidationError("assigned_to", "one or more accounts do not exist")
		}
		for _, user := range users {
			if !user.IsStudent() {
				return dto.TaskResponse{}, NewValidationError("assigned_to", "tasks can only be assigned to students")
			}
		}
		assignees = users
	}

	task := models.Task{
		Title:       payload.Title,
		Description: payload.Description,
		CreatedByID: actor.ID,
		Assignees:   assignees,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Int("assignees", len(assignees)).Msg("task created")
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) ListAssigned(ctx context.Context, actor Actor) ([]dto.TaskResponse, error) {
	tasks, err := s.tasks.ListAssignedTo(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewTaskResponseSlice(tasks), nil
}

func (s *taskService) ListCreated(ctx context.Context, actor Actor) ([]dto.TaskResponse, error) {
	tasks, err := s.tasks.ListCreatedBy(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewTaskResponseSlice(tasks), nil
}

// Complete records today's completion and rewards the student. The task lookup happens before the role check.
func (s *taskService) Complete(ctx context.Context, actor Actor, taskID uint) (dto.TaskCompletionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "task.complete", trace.WithAttributes(
		attribute.Int64("task.id", int64(taskID)),
		attribute.Int64("user.id", int64(actor.ID)),
	))
	defer span.End()

	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskCompletionResponse{}, ErrTaskNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "load task")
		return dto.TaskCompletionResponse{}, err
	}

	if !actor.IsStudent() {
		return dto.TaskCompletionResponse{}, ErrForbidden
	}

	completion := models.TaskCompletion{
		StudentID:     actor.ID,
		TaskID:        taskID,
		CompletedDate: models.DateOf(s.now().In(s.location)),
	}

	profile, err := s.tasks.RecordCompletion(ctx, &completion, StreakPerCompletion, PointsPerCompletion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record completion")
		return dto.TaskCompletionResponse{}, err
	}

	observability.TaskCompletions().Inc()
	span.SetAttributes(attribute.Int("profile.streak", profile.Streak), attribute.Int("profile.points", profile.Points))

	if s.events != nil {
		event := map[string]interface{}{
			"student_id":     actor.ID,
			"task_id":        taskID,
			"completed_date": time.Time(completion.CompletedDate).Format("2006-01-02"),
			"streak":         profile.Streak,
			"points":         profile.Points,
		}
		if err := s.events.Publish(ctx, TopicTaskCompleted, event); err != nil {
			s.logger.Warn().Err(err).Uint("task_id", taskID).Msg("failed to publish completion event")
		}
	}

	s.logger.Info().
		Uint("task_id", taskID).
		Uint("student_id", actor.ID).
		Int("streak", profile.Streak).
		Int("points", profile.Points).
		Msg("task completed")

	return dto.NewTaskCompletionResponse(completion), nil
}
