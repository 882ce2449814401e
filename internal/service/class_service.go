package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// ErrClassNotFound indicates the class does not exist or is not owned by the caller.
var ErrClassNotFound = errors.New("class not found")

// ClassService manages classes and their rosters.
type ClassService interface {
	Create(ctx context.Context, actor Actor, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	ListForTeacher(ctx context.Context, actor Actor) ([]dto.ClassResponse, error)
	Enroll(ctx context.Context, actor Actor, classID uint, payload dto.EnrollRequest) (dto.ClassResponse, error)
	Unenroll(ctx context.Context, actor Actor, classID, studentID uint) (dto.ClassResponse, error)
	Roster(ctx context.Context, classID uint) ([]dto.UserResponse, error)
}

type classService struct {
	classes   repository.ClassRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes repository.ClassRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, actor Actor, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if !actor.IsTeacher() {
		return dto.ClassResponse{}, ErrForbidden
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{Name: payload.Name, TeacherID: actor.ID}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("teacher_id", actor.ID).Msg("class created")
	return dto.NewClassResponse(class), nil
}

func (s *classService) ListForTeacher(ctx context.Context, actor Actor) ([]dto.ClassResponse, error) {
	if !actor.IsTeacher() {
		return []dto.ClassResponse{}, nil
	}

	classes, err := s.classes.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewClassResponseSlice(classes), nil
}

// Enroll adds students to a class owned by the caller. Every id must reference a student account.
func (s *classService) Enroll(ctx context.Context, actor Actor, classID uint, payload dto.EnrollRequest) (dto.ClassResponse, error) {
	if !actor.IsTeacher() {
		return dto.ClassResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.ownedClass(ctx, actor, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	ids := uniqueIDs(payload.StudentIDs)
	students, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	if len(students) != len(ids) {
		return dto.ClassResponse{}, NewValidationError("student_ids", "one or more accounts do not exist")
	}
	for _, student := range students {
		if !student.IsStudent() {
			return dto.ClassResponse{}, NewValidationError("student_ids", "only student accounts can be enrolled")
		}
	}

	if err := s.classes.AddStudents(ctx, &class, students); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Int("students", len(students)).Msg("students enrolled")
	return s.reload(ctx, class.ID)
}

func (s *classService) Unenroll(ctx context.Context, actor Actor, classID, studentID uint) (dto.ClassResponse, error) {
	if !actor.IsTeacher() {
		return dto.ClassResponse{}, ErrForbidden
	}

	class, err := s.ownedClass(ctx, actor, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	if err := s.classes.RemoveStudent(ctx, &class, studentID); err != nil {
		return dto.ClassResponse{}, err
	}

	return s.reload(ctx, class.ID)
}

func (s *classService) Roster(ctx context.Context, classID uint) ([]dto.UserResponse, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	students, err := s.classes.ListStudents(ctx, classID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(students), nil
}

func (s *classService) ownedClass(ctx context.Context, actor Actor, classID uint) (models.Class, error) {
	class, err := s.classes.GetOwned(ctx, classID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrClassNotFound
		}
		return models.Class{}, err
	}
	return class, nil
}

func (s *classService) reload(ctx context.Context, classID uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
