package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

// GoalCreateRequest creates a personal goal, or a class goal when ClassID is set by a teacher.
type GoalCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	IsCompleted bool      `json:"is_completed"`
	ClassID     *uint     `json:"class_id" validate:"omitempty,gt=0"`
}

// GoalUpdateRequest patches a goal. Completion marking goes through IsCompleted.
type GoalUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Deadline    *time.Time `json:"deadline"`
	IsCompleted *bool      `json:"is_completed"`
}

// GoalResponse is the serialized goal including the derived overdue flag.
type GoalResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Deadline    time.Time `json:"deadline"`
	IsCompleted bool      `json:"is_completed"`
	UserID      *uint     `json:"user_id"`
	ClassID     *uint     `json:"class_id"`
	ClassName   *string   `json:"class_name"`
	CreatedBy   string    `json:"created_by,omitempty"`
	IsOverdue   bool      `json:"is_overdue"`
	CreatedAt   time.Time `json:"created_at"`
}

// StudentGoalsResponse keeps personal and class goals in separate buckets.
type StudentGoalsResponse struct {
	PersonalGoals []GoalResponse `json:"personal_goals"`
	ClassGoals    []GoalResponse `json:"class_goals"`
}

// NewGoalResponse converts a model into a DTO, evaluating overdue against now.
func NewGoalResponse(model models.Goal, now time.Time) GoalResponse {
	response := GoalResponse{
		ID:          model.ID,
		Title:       model.Title,
		Deadline:    model.Deadline,
		IsCompleted: model.IsCompleted,
		UserID:      model.UserID,
		ClassID:     model.ClassID,
		IsOverdue:   model.IsOverdue(now),
		CreatedAt:   model.CreatedAt,
	}

	if model.Class != nil {
		name := model.Class.Name
		response.ClassName = &name
	}
	if model.CreatedBy != nil {
		response.CreatedBy = model.CreatedBy.Email
	}

	return response
}

// NewGoalResponseSlice converts goals into DTOs.
func NewGoalResponseSlice(items []models.Goal, now time.Time) []GoalResponse {
	out := make([]GoalResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewGoalResponse(item, now))
	}
	return out
}
