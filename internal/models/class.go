package models

import "time"

// Class groups enrolled students under a single teacher.
type Class struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	TeacherID uint      `gorm:"index;not null" json:"teacher_id"`
	Teacher   *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Students  []User    `gorm:"many2many:class_students;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
