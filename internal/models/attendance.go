package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attendance is the presence record of one user on one calendar day.
type Attendance struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Date      datatypes.Date `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	IsPresent bool           `gorm:"not null;default:false" json:"is_present"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
