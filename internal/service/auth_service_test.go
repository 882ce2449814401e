package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	"github.com/noah-isme/classroom-api/internal/utils"
)

func newTestTokenIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func setupAuthService(t *testing.T) (*gorm.DB, AuthService, *stubEncoder) {
	t.Helper()

	db := setupServiceDB(t)
	encoder := &stubEncoder{}
	svc := NewAuthService(repository.NewUserRepository(db), encoder, newTestTokenIssuer(), utils.NewValidator(), zerolog.Nop())
	svc.(*authService).bcryptCost = bcrypt.MinCost
	return db, svc, encoder
}

func TestAuthServiceRegisterCreatesAccountProfileAndCode(t *testing.T) {
	db, svc, encoder := setupAuthService(t)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "  Ada@Example.com ",
		Password: "password123",
		Name:     "Ada",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, models.RoleStudent, user.Role)
	require.Nil(t, user.Classes)
	require.Equal(t, 1, encoder.calls)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))

	var profile models.StudentProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	require.Zero(t, profile.Streak)

	var code models.IdentifierCode
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&code).Error)
	require.Equal(t, "ada@example.com", code.Payload)
	require.Equal(t, []byte("png:ada@example.com"), code.Image)
}

func TestAuthServiceRegisterTeacherExposesClasses(t *testing.T) {
	_, svc, _ := setupAuthService(t)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "grace@example.com",
		Password: "password123",
		Name:     "Grace",
		Role:     "Teacher",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, user.Role)
	require.NotNil(t, user.Classes)
	require.Empty(t, *user.Classes)
}

func TestAuthServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	_, svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "dup@example.com", Password: "password123", Name: "One"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Email: "DUP@example.com", Password: "password123", Name: "Two"})
	require.ErrorIs(t, err, ErrEmailTaken)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "email")
}

func TestAuthServiceRegisterValidatesInput(t *testing.T) {
	_, svc, _ := setupAuthService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:                "bad@example.com",
		Password:             "password123",
		PasswordConfirmation: "password124",
		Name:                 "Bad",
	})
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "root@example.com",
		Password: "password123",
		Name:     "Root",
		Role:     "superuser",
	})
	require.True(t, errors.As(err, &validationErrs))
}

func TestAuthServiceLoginAndRefresh(t *testing.T) {
	_, svc, _ := setupAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{Email: "lin@example.com", Password: "password123", Name: "Lin"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "lin@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := svc.Login(ctx, dto.LoginRequest{Email: "LIN@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)
	require.True(t, tokens.AccessExpiresAt.After(time.Now()))

	refreshed, err := svc.Refresh(ctx, dto.RefreshRequest{Refresh: tokens.Refresh})
	require.NoError(t, err)
	require.NotEqual(t, tokens.Access, refreshed.Access)

	_, err = svc.Refresh(ctx, dto.RefreshRequest{Refresh: tokens.Access})
	require.ErrorIs(t, err, ErrInvalidToken)

	require.NotZero(t, registered.ID)
}

func TestTokenIssuerRejectsExpiredRefresh(t *testing.T) {
	issuer := newTestTokenIssuer()
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	tokens, err := issuer.Issue(models.User{ID: 7, Role: models.RoleStudent})
	require.NoError(t, err)

	id, err := issuer.ParseRefresh(tokens.Refresh)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.ParseRefresh(tokens.Refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}
