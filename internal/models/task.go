package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task is work a teacher assigns to one or more students.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedByID uint      `gorm:"index;not null" json:"created_by_id"`
	CreatedBy   *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Assignees   []User    `gorm:"many2many:task_assignees;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskCompletion records a student finishing a task on a given day. Repeat completions are allowed.
type TaskCompletion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	StudentID     uint           `gorm:"index;not null" json:"student_id"`
	Student       *User          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TaskID        uint           `gorm:"index;not null" json:"task_id"`
	Task          *Task          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CompletedDate datatypes.Date `gorm:"index;not null" json:"completed_date"`
	CreatedAt     time.Time      `json:"created_at"`
}
