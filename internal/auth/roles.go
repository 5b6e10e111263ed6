package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-tracker/internal/domain"
)

// RequireRoleHandler is route middleware equivalent to calling Guard.RequireRole first thing in a handler.
func (g *Guard) RequireRoleHandler(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := g.RequireRole(c, required)
		if err != nil {
			return err
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

// RequireManager gates a route on the manager role.
func (g *Guard) RequireManager() fiber.Handler {
	return g.RequireRoleHandler(domain.RoleManager)
}
