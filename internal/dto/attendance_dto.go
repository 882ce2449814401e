package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// AttendanceMarkRequest marks an account present by id.
type AttendanceMarkRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

// AttendanceScanRequest marks a student present from the email encoded in their code.
type AttendanceScanRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AttendanceListQuery selects the day to list, defaulting to today.
type AttendanceListQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceResponse is the serialized attendance record.
type AttendanceResponse struct {
	ID        uint   `json:"id"`
	User      uint   `json:"user"`
	Date      string `json:"date"`
	IsPresent bool   `json:"is_present"`
}

// NewAttendanceResponse converts a model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        model.ID,
		User:      model.UserID,
		Date:      time.Time(model.Date).Format(dateLayout),
		IsPresent: model.IsPresent,
	}
}

// NewAttendanceResponseSlice converts attendance rows into DTOs.
func NewAttendanceResponseSlice(items []models.Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewAttendanceResponse(item))
	}
	return out
}
