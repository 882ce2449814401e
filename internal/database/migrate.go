package database

import (
	"gorm.io/gorm"

	"github.com/noah-isme/classroom-api/internal/models"
)

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.IdentifierCode{},
		&models.Class{},
		&models.Goal{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Attendance{},
		&models.ChatMessage{},
	)
}
