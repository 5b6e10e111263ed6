package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-tracker/internal/api/dto"
	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/service"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

// AuthHandler exposes login, registration and logout.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *auth.SessionManager
	guard    *auth.Guard
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *auth.SessionManager, guard *auth.Guard) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions, guard: guard}
}

// Register handles POST /api/auth/register.
// Anyone may create an employee account and is signed in as that account.
// Creating a manager account requires a manager session, which is left untouched.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	role := domain.RoleEmployee
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return apperrors.NewValidationError("invalid role", nil)
		}
		role = parsed
	}

	_, hasSession := h.sessions.CurrentSession(c)
	if role == domain.RoleManager {
		if _, err := h.guard.RequireRole(c, domain.RoleManager); err != nil {
			return err
		}
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	if !hasSession {
		if err := h.sessions.StartSession(c, service.PrincipalFor(user)); err != nil {
			return apperrors.NewInternalError(err)
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := h.sessions.StartSession(c, service.PrincipalFor(user)); err != nil {
		return apperrors.NewInternalError(err)
	}
	if isFormPost(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.EndSession(c)
	if isFormPost(c) {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /api/auth/me behind Guard.Authenticated.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := guardedPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.auth.CurrentUser(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// isFormPost reports whether the request came from an HTML form rather than the JSON API.
func isFormPost(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationForm)
}
