package middleware

import (
	"carbid-backend/internal/pkg/constants"
	"carbid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// RequireAdmin ensures the session user has the admin role. 401 if not
// authenticated, 403 otherwise.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if GetUserRole(c) != constants.Admin {
			return response.Error(c, "Admin access required", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetUserID returns the session user's id, or uuid.Nil when absent/invalid.
func GetUserID(c *fiber.Ctx) uuid.UUID {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return uuid.Nil
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetUserRole returns the session user's role ("" when absent).
func GetUserRole(c *fiber.Ctx) string {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return ""
	}
	r, _ := m["role"].(string)
	return r
}

// GetUserEmail returns the session user's email ("" when absent).
func GetUserEmail(c *fiber.Ctx) string {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return ""
	}
	e, _ := m["email"].(string)
	return e
}
