package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classroom-api/internal/utils"
)

// RequireRole guards a whole route group. Any of the AuthRole constants may
// be passed, including AuthRoleStaff.
func RequireRole(roles ...string) fiber.Handler {
	required := make([]string, 0, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			required = append(required, normalized)
		}
	}

	return func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		current := currentRole(c)
		for _, role := range required {
			if roleSatisfies(role, current) {
				return c.Next()
			}
		}
		return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
	}
}

func currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("user_role").(string)
	return normalizeRole(role)
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func roleSatisfies(required, current string) bool {
	switch required {
	case AuthRoleAny:
		return true
	case AuthRoleStaff:
		return current == AuthRoleTeacher || current == AuthRoleAdmin
	default:
		return current == required
	}
}
