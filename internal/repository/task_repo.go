package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// TaskRepository defines persistence operations for tasks and their completions.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (models.Task, error)
	ListAssignedTo(ctx context.Context, userID uint) ([]models.Task, error)
	ListCreatedBy(ctx context.Context, userID uint) ([]models.Task, error)
	RecordCompletion(ctx context.Context, completion *models.TaskCompletion, streakDelta, pointsDelta int) (models.StudentProfile, error)
	LatestCompletion(ctx context.Context, studentID uint) (models.TaskCompletion, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("CreatedBy").Preload("Assignees")
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assignees := task.Assignees
		task.Assignees = nil
		if err := tx.Omit("CreatedBy", "Assignees").Create(task).Error; err != nil {
			return err
		}
		if len(assignees) == 0 {
			return nil
		}
		return tx.Model(task).Association("Assignees").Append(assignees)
	})
	if err != nil {
		return err
	}

	stored, err := r.GetByID(ctx, task.ID)
	if err != nil {
		return err
	}
	*task = stored
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	if err := r.withRelations(ctx).First(&task, id).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (r *taskRepository) ListAssignedTo(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.withRelations(ctx).
		Where("id IN (?)", r.db.Table("task_assignees").Select("task_id").Where("user_id = ?", userID)).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) ListCreatedBy(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.withRelations(ctx).
		Where("created_by_id = ?", userID).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// RecordCompletion stores the completion and applies the streak and points deltas to the student's profile
// in the same transaction. A missing profile is created with the deltas as its starting values.
func (r *taskRepository) RecordCompletion(ctx context.Context, completion *models.TaskCompletion, streakDelta, pointsDelta int) (models.StudentProfile, error) {
	var profile models.StudentProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Student", "Task").Create(completion).Error; err != nil {
			return err
		}

		result := tx.Model(&models.StudentProfile{}).
			Where("user_id = ?", completion.StudentID).
			Updates(map[string]interface{}{
				"streak": gorm.Expr("streak + ?", streakDelta),
				"points": gorm.Expr("points + ?", pointsDelta),
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			profile = models.StudentProfile{UserID: completion.StudentID, Streak: streakDelta, Points: pointsDelta}
			return tx.Create(&profile).Error
		}

		return tx.Where("user_id = ?", completion.StudentID).First(&profile).Error
	})
	if err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *taskRepository) LatestCompletion(ctx context.Context, studentID uint) (models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("completed_date DESC, id DESC").
		First(&completion).Error
	if err != nil {
		return models.TaskCompletion{}, err
	}
	return completion, nil
}
