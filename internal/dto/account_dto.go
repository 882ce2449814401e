package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// RegisterRequest is the sign-up payload. The confirmation is optional but must match when supplied.
type RegisterRequest struct {
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirmation string `json:"password_confirmation" validate:"omitempty,eqfield=Password"`
	Name                 string `json:"name" validate:"required,min=1,max=255"`
	Role                 string `json:"role" validate:"required,oneof=student teacher admin"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenResponse carries issued credentials.
type TokenResponse struct {
	Access          string    `json:"access"`
	Refresh         string    `json:"refresh"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// UpdateSelfRequest lists the only fields an account may change on itself.
type UpdateSelfRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

// UserSearchQuery filters the account directory.
type UserSearchQuery struct {
	Query string `query:"q" validate:"omitempty,max=255"`
}

// UserSummary is the compact account shape embedded in other payloads.
type UserSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UserResponse is the account representation. Classes is only present for teachers.
type UserResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	AvatarURL string           `json:"avatar_url,omitempty"`
	Classes   *[]ClassResponse `json:"classes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// AvatarResponse returns the stored avatar location.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// IdentifierCodeResponse describes the scannable attendance code of an account.
type IdentifierCodeResponse struct {
	Payload     string `json:"payload"`
	ImageBase64 string `json:"image_base64"`
}

// NewUserSummary converts a model into its compact DTO.
func NewUserSummary(model models.User) UserSummary {
	return UserSummary{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		AvatarURL: model.AvatarURL,
	}
}

// NewUserResponse converts a model into a DTO. Classes are attached only for teacher accounts.
func NewUserResponse(model models.User, classes []models.Class) UserResponse {
	response := UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		AvatarURL: model.AvatarURL,
		CreatedAt: model.CreatedAt,
	}

	if model.IsTeacher() {
		items := NewClassResponseSlice(classes)
		response.Classes = &items
	}

	return response
}

// NewUserResponseSlice converts accounts without class expansion.
func NewUserResponseSlice(items []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewUserResponse(item, nil))
	}
	return out
}
