package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classroom-api/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny     = "any"
	AuthRoleStudent = "student"
	AuthRoleTeacher = "teacher"
	AuthRoleAdmin   = "admin"
	// AuthRoleStaff admits teachers and admins.
	AuthRoleStaff = "staff"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role string
	// Optional lets anonymous callers through when Role is AuthRoleAny.
	Optional bool
}

// WithAuth wraps a handler with authentication and role guards.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := normalizeRole(opts.Role)
	if role == "" {
		role = AuthRoleAny
	}
	optional := opts.Optional && role == AuthRoleAny

	return func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			if optional {
				return handler(c)
			}
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		if !roleSatisfies(role, currentRole(c)) {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}

		return handler(c)
	}
}
