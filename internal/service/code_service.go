package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
)

// CodeService serves the scannable identifier code of an account.
type CodeService interface {
	Get(ctx context.Context, userID uint) (dto.IdentifierCodeResponse, []byte, error)
}

type codeService struct {
	users   repository.UserRepository
	codes   repository.IdentifierCodeRepository
	encoder CodeEncoder
	logger  zerolog.Logger
}

// NewCodeService constructs the identifier code service.
func NewCodeService(users repository.UserRepository, codes repository.IdentifierCodeRepository, encoder CodeEncoder, logger zerolog.Logger) CodeService {
	return &codeService{
		users:   users,
		codes:   codes,
		encoder: encoder,
		logger:  logger.With().Str("component", "code_service").Logger(),
	}
}

// Get returns the stored code, re-rendering it when it is missing or no longer encodes the account email.
func (s *codeService) Get(ctx context.Context, userID uint) (dto.IdentifierCodeResponse, []byte, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.IdentifierCodeResponse{}, nil, ErrAccountNotFound
		}
		return dto.IdentifierCodeResponse{}, nil, err
	}

	code, err := s.codes.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.IdentifierCodeResponse{}, nil, err
	}

	if err != nil || !code.HasImage() || code.Payload != user.Email {
		code, err = s.regenerate(ctx, user)
		if err != nil {
			return dto.IdentifierCodeResponse{}, nil, err
		}
	}

	return dto.IdentifierCodeResponse{
		Payload:     code.Payload,
		ImageBase64: base64.StdEncoding.EncodeToString(code.Image),
	}, code.Image, nil
}

func (s *codeService) regenerate(ctx context.Context, user models.User) (models.IdentifierCode, error) {
	image, err := s.encoder.Encode(user.Email)
	if err != nil {
		return models.IdentifierCode{}, fmt.Errorf("render identifier code: %w", err)
	}

	code := models.IdentifierCode{UserID: user.ID, Payload: user.Email, Image: image}
	if err := s.codes.Upsert(ctx, &code); err != nil {
		return models.IdentifierCode{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("identifier code regenerated")
	return code, nil
}
