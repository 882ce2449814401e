package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// ErrAvatarStorageUnavailable indicates avatar uploads are not configured.
var ErrAvatarStorageUnavailable = errors.New("avatar storage is not configured")

// AvatarUploader stores an account avatar and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, userID uint, reader io.Reader) (string, error)
}

// AccountService exposes self-service and directory operations on accounts.
type AccountService interface {
	Me(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID uint, payload dto.UpdateSelfRequest) (dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	Search(ctx context.Context, actorID uint, query dto.UserSearchQuery) ([]dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (dto.AvatarResponse, error)
}

type accountService struct {
	users         repository.UserRepository
	classes       repository.ClassRepository
	uploader      AvatarUploader
	maxAvatarSize int64
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewAccountService constructs the account service. A nil uploader disables avatar uploads.
func NewAccountService(users repository.UserRepository, classes repository.ClassRepository, uploader AvatarUploader, maxAvatarSizeMB int, validate *validator.Validate, logger zerolog.Logger) AccountService {
	if maxAvatarSizeMB <= 0 {
		maxAvatarSizeMB = 5
	}

	return &accountService{
		users:         users,
		classes:       classes,
		uploader:      uploader,
		maxAvatarSize: int64(maxAvatarSizeMB) * 1024 * 1024,
		validator:     validate,
		logger:        logger.With().Str("component", "account_service").Logger(),
	}
}

func (s *accountService) Me(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return s.withClasses(ctx, user)
}

func (s *accountService) UpdateMe(ctx context.Context, userID uint, payload dto.UpdateSelfRequest) (dto.UserResponse, error) {
	if payload.Name != nil {
		trimmed := strings.TrimSpace(*payload.Name)
		payload.Name = &trimmed
	}
	if payload.Email != nil {
		normalized := models.NormalizeEmail(*payload.Email)
		payload.Email = &normalized
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.Name != nil {
		user.Name = *payload.Name
	}
	if payload.Email != nil && *payload.Email != user.Email {
		taken, err := s.users.EmailTaken(ctx, *payload.Email, user.ID)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, ErrEmailTaken
		}
		user.Email = *payload.Email
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("account updated")
	return s.withClasses(ctx, user)
}

func (s *accountService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}
	return s.withClassesSlice(ctx, users)
}

// Search matches name or email case-insensitively and never returns the caller.
func (s *accountService) Search(ctx context.Context, actorID uint, query dto.UserSearchQuery) ([]dto.UserResponse, error) {
	query.Query = strings.TrimSpace(query.Query)
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, repository.UserFilter{Search: query.Query, ExcludeID: actorID})
	if err != nil {
		return nil, err
	}
	return s.withClassesSlice(ctx, users)
}

func (s *accountService) UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (dto.AvatarResponse, error) {
	if s.uploader == nil {
		return dto.AvatarResponse{}, ErrAvatarStorageUnavailable
	}
	if file == nil {
		return dto.AvatarResponse{}, NewValidationError("avatar", "no avatar provided")
	}
	if file.Size > s.maxAvatarSize {
		return dto.AvatarResponse{}, NewValidationError("avatar", fmt.Sprintf("avatar exceeds %d bytes", s.maxAvatarSize))
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return dto.AvatarResponse{}, err
	}

	src, err := file.Open()
	if err != nil {
		return dto.AvatarResponse{}, fmt.Errorf("open avatar: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return dto.AvatarResponse{}, fmt.Errorf("detect avatar type: %w", err)
	}
	if !strings.HasPrefix(detected.String(), "image/") {
		return dto.AvatarResponse{}, NewValidationError("avatar", "avatar must be an image")
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return dto.AvatarResponse{}, fmt.Errorf("rewind avatar: %w", err)
	}

	url, err := s.uploader.UploadAvatar(ctx, userID, src)
	if err != nil {
		return dto.AvatarResponse{}, err
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AvatarResponse{}, ErrAccountNotFound
		}
		return dto.AvatarResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Str("mime", detected.String()).Msg("avatar updated")
	return dto.AvatarResponse{AvatarURL: url}, nil
}

func (s *accountService) getUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAccountNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *accountService) withClasses(ctx context.Context, user models.User) (dto.UserResponse, error) {
	if !user.IsTeacher() {
		return dto.NewUserResponse(user, nil), nil
	}

	classes, err := s.classes.ListByTeacher(ctx, user.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user, classes), nil
}

func (s *accountService) withClassesSlice(ctx context.Context, users []models.User) ([]dto.UserResponse, error) {
	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		response, err := s.withClasses(ctx, user)
		if err != nil {
			return nil, err
		}
		out = append(out, response)
	}
	return out, nil
}
