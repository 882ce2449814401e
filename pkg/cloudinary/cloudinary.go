package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// AvatarStore keeps one avatar image per account in a Cloudinary folder.
type AvatarStore struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs an avatar store backed by Cloudinary.
func New(cfg Config, logger zerolog.Logger) (*AvatarStore, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &AvatarStore{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// UploadAvatar replaces the stored avatar of the account and returns its secure URL.
func (s *AvatarStore) UploadAvatar(ctx context.Context, userID uint, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     AvatarPublicID(userID),
		ResourceType: "image",
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload avatar: %s", result.Error.Message)
	}

	s.logger.Info().Uint("user_id", userID).Str("public_id", result.PublicID).Msg("avatar uploaded")

	return result.SecureURL, nil
}

// AvatarPublicID names the asset holding an account's avatar.
func AvatarPublicID(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}
