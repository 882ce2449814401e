package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// ErrInvalidCode indicates a scanned code that does not identify a student.
var ErrInvalidCode = errors.New("invalid code")

// AttendanceService records daily presence.
type AttendanceService interface {
	MarkByID(ctx context.Context, payload dto.AttendanceMarkRequest) (dto.AttendanceResponse, error)
	MarkByCode(ctx context.Context, payload dto.AttendanceScanRequest) (dto.AttendanceResponse, error)
	ListByDate(ctx context.Context, query dto.AttendanceListQuery) ([]dto.AttendanceResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	location   *time.Location
	now        func() time.Time
}

// NewAttendanceService constructs the attendance service evaluating "today" in the given location.
func NewAttendanceService(attendance repository.AttendanceRepository, users repository.UserRepository, location *time.Location, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	if location == nil {
		location = time.UTC
	}

	return &attendanceService{
		attendance: attendance,
		users:      users,
		validator:  validate,
		logger:     logger.With().Str("component", "attendance_service").Logger(),
		location:   location,
		now:        time.Now,
	}
}

func (s *attendanceService) MarkByID(ctx context.Context, payload dto.AttendanceMarkRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	user, err := s.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrAccountNotFound
		}
		return dto.AttendanceResponse{}, err
	}

	return s.markPresent(ctx, user, "id")
}

// MarkByCode resolves the email carried by a scanned code to a student account.
func (s *attendanceService) MarkByCode(ctx context.Context, payload dto.AttendanceScanRequest) (dto.AttendanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	user, err := s.users.GetByEmailAndRole(ctx, payload.Email, models.RoleStudent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Str("email", maskEmail(payload.Email)).Msg("scanned code does not match a student")
			return dto.AttendanceResponse{}, ErrInvalidCode
		}
		return dto.AttendanceResponse{}, err
	}

	return s.markPresent(ctx, user, "scan")
}

func (s *attendanceService) ListByDate(ctx context.Context, query dto.AttendanceListQuery) ([]dto.AttendanceResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	day := s.today()
	if query.Date != "" {
		parsed, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			return nil, NewValidationError("date", "date must use YYYY-MM-DD")
		}
		day = models.DateOf(parsed)
	}

	records, err := s.attendance.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	return dto.NewAttendanceResponseSlice(records), nil
}

func (s *attendanceService) markPresent(ctx context.Context, user models.User, method string) (dto.AttendanceResponse, error) {
	record, err := s.attendance.MarkPresent(ctx, user.ID, s.today())
	if err != nil {
		return dto.AttendanceResponse{}, err
	}

	observability.AttendanceMarked().WithLabelValues(method).Inc()
	s.logger.Info().Uint("user_id", user.ID).Str("method", method).Msg("attendance marked")
	return dto.NewAttendanceResponse(record), nil
}

func (s *attendanceService) today() datatypes.Date {
	return models.DateOf(s.now().In(s.location))
}
