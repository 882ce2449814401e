package dto

import (
	"time"

	"github.com/noah-isme/classroom-api/internal/models"
)

const dateLayout = "2006-01-02"

// TaskCreateRequest creates a task and assigns it to students.
type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"required,min=1"`
	AssignedTo  []uint `json:"assigned_to" validate:"omitempty,dive,gt=0"`
}

// TaskResponse is the serialized task.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  []uint    `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCompletionResponse is the serialized completion record.
type TaskCompletionResponse struct {
	ID            uint   `json:"id"`
	Student       uint   `json:"student"`
	Task          uint   `json:"task"`
	CompletedDate string `json:"completed_date"`
}

// StreakResetResponse summarises a streak reset run.
type StreakResetResponse struct {
	Weekday bool `json:"weekday"`
	Checked int  `json:"checked"`
	Reset   int  `json:"reset"`
}

// NewTaskResponse converts a model into a DTO. CreatedBy and Assignees must be preloaded.
func NewTaskResponse(model models.Task) TaskResponse {
	assignees := make([]uint, 0, len(model.Assignees))
	for _, user := range model.Assignees {
		assignees = append(assignees, user.ID)
	}

	createdBy := ""
	if model.CreatedBy != nil {
		createdBy = model.CreatedBy.Email
	}

	return TaskResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		CreatedBy:   createdBy,
		AssignedTo:  assignees,
		CreatedAt:   model.CreatedAt,
	}
}

// NewTaskResponseSlice converts tasks into DTOs.
func NewTaskResponseSlice(items []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewTaskResponse(item))
	}
	return out
}

// NewTaskCompletionResponse converts a completion into a DTO.
func NewTaskCompletionResponse(model models.TaskCompletion) TaskCompletionResponse {
	return TaskCompletionResponse{
		ID:            model.ID,
		Student:       model.StudentID,
		Task:          model.TaskID,
		CompletedDate: time.Time(model.CompletedDate).Format(dateLayout),
	}
}
