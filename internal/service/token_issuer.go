package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/models"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken indicates a refresh token that failed verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenConfig describes how access and refresh tokens are signed.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenIssuer signs HS256 token pairs.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer constructs a token issuer.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue signs a fresh access/refresh pair for the account.
func (t *TokenIssuer) Issue(user models.User) (dto.TokenResponse, error) {
	now := t.now().UTC()
	accessExpiry := now.Add(t.cfg.AccessTTL)

	access, err := t.sign(user, tokenTypeAccess, now, accessExpiry, t.cfg.AccessSecret)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	refresh, err := t.sign(user, tokenTypeRefresh, now, now.Add(t.cfg.RefreshTTL), t.cfg.RefreshSecret)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	return dto.TokenResponse{
		Access:          access,
		Refresh:         refresh,
		AccessExpiresAt: accessExpiry,
	}, nil
}

// ParseRefresh verifies a refresh token and returns the account it was issued to.
func (t *TokenIssuer) ParseRefresh(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return []byte(t.cfg.RefreshSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != tokenTypeRefresh {
		return 0, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}

func (t *TokenIssuer) sign(user models.User, typ string, issuedAt, expiresAt time.Time, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"typ":  typ,
		"jti":  uuid.NewString(),
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}
