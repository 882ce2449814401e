package models

import "time"

// ChatMessage is a direct message between two accounts.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	Sender     *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	ReceiverID uint      `gorm:"index;not null" json:"receiver_id"`
	Receiver   *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Timestamp  time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
