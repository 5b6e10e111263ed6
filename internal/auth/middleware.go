package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-tracker/internal/domain"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

const principalKey = "auth_principal"

// Guard is the choke point protected handlers pass through before touching storage.
type Guard struct {
	sessions *SessionManager
}

// NewGuard constructs a guard reading sessions from sessions.
func NewGuard(sessions *SessionManager) *Guard {
	return &Guard{sessions: sessions}
}

// RequireAuthenticated returns the caller's principal or an UNAUTHORIZED error.
func (g *Guard) RequireAuthenticated(c *fiber.Ctx) (Principal, error) {
	p, ok := g.sessions.CurrentSession(c)
	if !ok {
		return Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}

// RequireRole returns the caller's principal when its role satisfies required,
// UNAUTHORIZED without a session and FORBIDDEN otherwise.
func (g *Guard) RequireRole(c *fiber.Ctx, required domain.Role) (Principal, error) {
	p, err := g.RequireAuthenticated(c)
	if err != nil {
		return Principal{}, err
	}
	if !p.Role.Satisfies(required) {
		return Principal{}, apperrors.NewForbidden("insufficient role")
	}
	return p, nil
}

// Authenticated is middleware that stores the principal in c.Locals for later handlers.
func (g *Guard) Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := g.RequireAuthenticated(c)
		if err != nil {
			return err
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

// PrincipalFromContext retrieves the principal stored by Authenticated.
func PrincipalFromContext(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(principalKey).(Principal)
	return p, ok
}
