package models

import "time"

// Goal is either a personal goal (UserID set) or a class goal (ClassID set).
type Goal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Deadline    time.Time `gorm:"not null;index" json:"deadline"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	UserID      *uint     `gorm:"index" json:"user_id"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	ClassID     *uint     `gorm:"index" json:"class_id"`
	Class       *Class    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedByID *uint     `gorm:"index" json:"created_by_id"`
	CreatedBy   *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOverdue is true when the deadline is strictly before reference and the goal is still open.
func (g Goal) IsOverdue(reference time.Time) bool {
	return g.Deadline.Before(reference) && !g.IsCompleted
}
