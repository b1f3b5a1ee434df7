package auth

import (
	"github.com/gofiber/fiber/v2"

	"izinku_backend/internals/constants"
)

// RequireOperation admits only roles the authorization table lists for op.
// Tenant checks stay in the handler; this decides role admission only.
func RequireOperation(op string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: missing role information",
			})
		}
		if !constants.RoleAllowed(role, op) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden: you are not authorized to access this resource",
			})
		}
		return c.Next()
	}
}

// OnlyRoles is the ad-hoc variant for routes without a named operation.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: missing role information",
			})
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		if customMessage == "" {
			customMessage = "Forbidden: you are not authorized to access this resource"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": customMessage,
		})
	}
}
