package models

import (
	"strings"
	"time"
)

// Supported account roles.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User is an account able to sign in. The role is fixed at registration.
type User struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Email          string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Role           string          `gorm:"size:20;index;not null" json:"role"`
	PasswordHash   string          `gorm:"size:255;not null" json:"-"`
	AvatarURL      string          `gorm:"size:512" json:"avatar_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	StudentProfile *StudentProfile `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TeacherProfile *TeacherProfile `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// IsStudent reports whether the account has the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher reports whether the account has the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StudentProfile stores gamification counters for a student account.
type StudentProfile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Streak         int       `gorm:"not null;default:0;check:streak >= 0" json:"streak"`
	Points         int       `gorm:"not null;default:0;check:points >= 0" json:"points"`
	CompletedGoals int       `gorm:"not null;default:0;check:completed_goals >= 0" json:"completed_goals"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TeacherProfile marks an account as a teacher.
type TeacherProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdentifierCode holds the scannable code image that encodes the owner's email.
type IdentifierCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Payload   string    `gorm:"size:255;not null" json:"payload"`
	Image     []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasImage reports whether the encoded image has been generated.
func (c IdentifierCode) HasImage() bool {
	return len(c.Image) > 0
}
