package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// ProfileRepository persists role profiles and gamification counters.
type ProfileRepository interface {
	GetStudentProfile(ctx context.Context, userID uint) (models.StudentProfile, error)
	EnsureTeacherProfile(ctx context.Context, userID uint) (models.TeacherProfile, error)
	SetCompletedGoals(ctx context.Context, profileID uint, count int) error
	ResetStreak(ctx context.Context, userID uint) (bool, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs a GORM-backed profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetStudentProfile(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (r *profileRepository) EnsureTeacherProfile(ctx context.Context, userID uint) (models.TeacherProfile, error) {
	var profile models.TeacherProfile
	err := r.db.WithContext(ctx).
		Where(models.TeacherProfile{UserID: userID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return models.TeacherProfile{}, err
	}
	return profile, nil
}

func (r *profileRepository) SetCompletedGoals(ctx context.Context, profileID uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("id = ?", profileID).
		Update("completed_goals", count).Error
}

// ResetStreak zeroes the streak and reports whether a non-zero streak was actually cleared.
func (r *profileRepository) ResetStreak(ctx context.Context, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("user_id = ? AND streak <> 0", userID).
		Update("streak", 0)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
