package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// ClassRepository defines persistence operations for classes and their rosters.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id uint) (models.Class, error)
	GetOwned(ctx context.Context, id, teacherID uint) (models.Class, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error)
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
	AddStudents(ctx context.Context, class *models.Class, students []models.User) error
	RemoveStudent(ctx context.Context, class *models.Class, studentID uint) error
	ListStudents(ctx context.Context, classID uint) ([]models.User, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Omit("Teacher", "Students").Create(class).Error
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Preload("Students").First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) GetOwned(ctx context.Context, id, teacherID uint) (models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Preload("Students").
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&class).Error
	if err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Preload("Students").
		Where("teacher_id = ?", teacherID).
		Order("name ASC, id ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Class{}).Where("teacher_id = ?", teacherID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddStudents links students to the class. Existing memberships are left untouched.
func (r *classRepository) AddStudents(ctx context.Context, class *models.Class, students []models.User) error {
	if len(students) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(class).Association("Students").Append(students)
	})
}

func (r *classRepository) RemoveStudent(ctx context.Context, class *models.Class, studentID uint) error {
	return r.db.WithContext(ctx).Model(class).Association("Students").Delete(&models.User{ID: studentID})
}

func (r *classRepository) ListStudents(ctx context.Context, classID uint) ([]models.User, error) {
	var students []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN class_students ON class_students.user_id = users.id").
		Where("class_students.class_id = ? AND users.role = ?", classID, models.RoleStudent).
		Order("users.name ASC, users.id ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
