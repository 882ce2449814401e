package service

import (
	"strings"

	"github.com/noah-isme/classroom-api/internal/models"
)

// Actor represents the authenticated account calling a service operation.
type Actor struct {
	ID   uint
	Role string
}

// IsStudent reports whether the actor holds the student role.
func (a Actor) IsStudent() bool {
	return normalizeRole(a.Role) == models.RoleStudent
}

// IsTeacher reports whether the actor holds the teacher role.
func (a Actor) IsTeacher() bool {
	return normalizeRole(a.Role) == models.RoleTeacher
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
