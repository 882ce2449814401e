package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/repository"
)

var (
	// ErrEmailTaken indicates the email already belongs to another account.
	ErrEmailTaken = NewValidationError("email", "email has already been used")
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// CodeEncoder renders an identifier payload as a PNG image.
type CodeEncoder interface {
	Encode(payload string) ([]byte, error)
}

// AuthService handles account registration and token issuance.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenResponse, error)
}

type authService struct {
	users      repository.UserRepository
	encoder    CodeEncoder
	tokens     *TokenIssuer
	validator  *validator.Validate
	logger     zerolog.Logger
	bcryptCost int
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, encoder CodeEncoder, tokens *TokenIssuer, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		encoder:    encoder,
		tokens:     tokens,
		validator:  validate,
		logger:     logger.With().Str("component", "auth_service").Logger(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	payload.Email = models.NormalizeEmail(payload.Email)
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))
	if payload.Role == "" {
		payload.Role = models.RoleStudent
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	taken, err := s.users.EmailTaken(ctx, payload.Email, 0)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	image, err := s.encoder.Encode(payload.Email)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("render identifier code: %w", err)
	}

	user := models.User{
		Email:        payload.Email,
		Name:         payload.Name,
		Role:         payload.Role,
		PasswordHash: string(hash),
	}
	code := models.IdentifierCode{Payload: payload.Email, Image: image}

	if err := s.users.CreateAccount(ctx, &user, &code); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	observability.Registrations().WithLabelValues(user.Role).Inc()
	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("account registered")

	return dto.NewUserResponse(user, nil), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug().Str("email", maskEmail(payload.Email)).Msg("login for unknown account")
			return dto.TokenResponse{}, ErrInvalidCredentials
		}
		return dto.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		s.logger.Warn().Uint("user_id", user.ID).Str("email", maskEmail(user.Email)).Msg("login rejected")
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}

func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	userID, err := s.tokens.ParseRefresh(payload.Refresh)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, ErrInvalidToken
		}
		return dto.TokenResponse{}, err
	}

	return s.tokens.Issue(user)
}
