package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/classroom-api/internal/models"
)

// GoalRepository defines persistence operations for personal and class goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, id uint) (models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, id uint) error
	ListPersonal(ctx context.Context, userID uint) ([]models.Goal, error)
	ListForTeacher(ctx context.Context, teacherID uint) ([]models.Goal, error)
	ListByClassAndCreator(ctx context.Context, classID, creatorID uint) ([]models.Goal, error)
	ListForEnrolledStudent(ctx context.Context, studentID uint) ([]models.Goal, error)
	CountCompletedPersonal(ctx context.Context, userID uint) (int64, error)
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository instantiates a GORM-backed goal repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Class").Preload("CreatedBy")
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(goal).Error; err != nil {
		return err
	}

	stored, err := r.GetByID(ctx, goal.ID)
	if err != nil {
		return err
	}
	*goal = stored
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id uint) (models.Goal, error) {
	var goal models.Goal
	if err := r.withRelations(ctx).First(&goal, id).Error; err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *models.Goal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Goal{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *goalRepository) ListPersonal(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.withRelations(ctx).
		Where("user_id = ?", userID).
		Order("deadline ASC, id ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListForTeacher(ctx context.Context, teacherID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.withRelations(ctx).
		Where("class_id IN (?)", r.db.Model(&models.Class{}).Select("id").Where("teacher_id = ?", teacherID)).
		Order("deadline ASC, id ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListByClassAndCreator(ctx context.Context, classID, creatorID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.withRelations(ctx).
		Where("class_id = ? AND created_by_id = ?", classID, creatorID).
		Order("deadline ASC, id ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ListForEnrolledStudent(ctx context.Context, studentID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := r.withRelations(ctx).
		Where("class_id IN (?)", r.db.Table("class_students").Select("class_id").Where("user_id = ?", studentID)).
		Order("deadline ASC, id ASC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) CountCompletedPersonal(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Goal{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
