package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// ClassCreateRequest creates a class owned by the caller.
type ClassCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// EnrollRequest adds students to a class roster.
type EnrollRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,gt=0"`
}

// ClassResponse is the serialized class.
type ClassResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	TeacherID  uint      `json:"teacher_id"`
	StudentIDs []uint    `json:"student_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewClassResponse converts a model into a DTO. Students must be preloaded to be listed.
func NewClassResponse(model models.Class) ClassResponse {
	ids := make([]uint, 0, len(model.Students))
	for _, student := range model.Students {
		ids = append(ids, student.ID)
	}

	return ClassResponse{
		ID:         model.ID,
		Name:       model.Name,
		TeacherID:  model.TeacherID,
		StudentIDs: ids,
		CreatedAt:  model.CreatedAt,
	}
}

// NewClassResponseSlice converts a slice of classes into DTOs.
func NewClassResponseSlice(items []models.Class) []ClassResponse {
	out := make([]ClassResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewClassResponse(item))
	}
	return out
}
