package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/classroom-api/internal/models"
)

// AttendanceRepository persists daily presence records.
type AttendanceRepository interface {
	MarkPresent(ctx context.Context, userID uint, day datatypes.Date) (models.Attendance, error)
	ListByDate(ctx context.Context, day datatypes.Date) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs a GORM-backed attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// MarkPresent upserts the (user, day) row with is_present forced to true. Concurrent calls converge on one row.
func (r *attendanceRepository) MarkPresent(ctx context.Context, userID uint, day datatypes.Date) (models.Attendance, error) {
	record := models.Attendance{UserID: userID, Date: day, IsPresent: true}

	err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_present": true,
				"updated_at": time.Now(),
			}),
		}).
		Create(&record).Error
	if err != nil {
		return models.Attendance{}, err
	}

	var stored models.Attendance
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, day).First(&stored).Error; err != nil {
		return models.Attendance{}, err
	}
	return stored, nil
}

func (r *attendanceRepository) ListByDate(ctx context.Context, day datatypes.Date) ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.WithContext(ctx).Where("date = ?", day).Order("user_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
