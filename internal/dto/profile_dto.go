package dto

import "github.com/noah-isme/classroom-api/internal/models"

// StudentProfileResponse exposes gamification counters.
type StudentProfileResponse struct {
	User           UserResponse `json:"user"`
	Streak         int          `json:"streak"`
	Points         int          `json:"points"`
	CompletedGoals int          `json:"completed_goals"`
}

// TeacherProfileResponse exposes the teacher account with its class count.
type TeacherProfileResponse struct {
	User         UserResponse `json:"user"`
	ClassesCount int64        `json:"classes_count"`
}

// NewStudentProfileResponse converts a profile and its owner into a DTO.
func NewStudentProfileResponse(user models.User, profile models.StudentProfile) StudentProfileResponse {
	return StudentProfileResponse{
		User:           NewUserResponse(user, nil),
		Streak:         profile.Streak,
		Points:         profile.Points,
		CompletedGoals: profile.CompletedGoals,
	}
}
