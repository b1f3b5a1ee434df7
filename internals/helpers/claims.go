// file: internals/helpers/claims.go
package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserIDFromToken reads the user id stored by the auth middleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user ID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid user ID")
	}
	return id, nil
}

// GetRoleFromToken reads the role claim stored by the auth middleware.
func GetRoleFromToken(c *fiber.Ctx) (string, error) {
	role, ok := c.Locals("user_role").(string)
	if !ok || role == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing role information")
	}
	return role, nil
}

// GetSchoolIDFromToken reads the (optional) tenant claim. Returns nil for
// users without a school (e.g. SUPER_ADMIN).
func GetSchoolIDFromToken(c *fiber.Ctx) *uuid.UUID {
	raw, ok := c.Locals("school_id").(string)
	if !ok || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
