package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-tracker/internal/api/dto"
	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/service"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

// CoursesHandler exposes the course catalog API. Routes mount it behind
// Guard.Authenticated or Guard.RequireManager; each handler takes the
// principal those left in the context before touching storage.
type CoursesHandler struct {
	courses *service.CourseService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courses *service.CourseService) *CoursesHandler {
	return &CoursesHandler{courses: courses}
}

// List handles GET /api/courses.
func (h *CoursesHandler) List(c *fiber.Ctx) error {
	if _, err := guardedPrincipal(c); err != nil {
		return err
	}

	var q dto.CourseFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	filter, err := q.ToFilter()
	if err != nil {
		return err
	}

	courses, err := h.courses.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"courses": courses})
}

// Get handles GET /api/courses/:id.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	if _, err := guardedPrincipal(c); err != nil {
		return err
	}
	course, err := h.courses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"course": course})
}

// Create handles POST /api/courses.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	principal, err := guardedPrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	course, err := h.courses.Create(c.UserContext(), principal, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"course": course})
}

// Update handles PUT /api/courses/:id.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	principal, err := guardedPrincipal(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	course, err := h.courses.Update(c.UserContext(), principal, c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"course": course})
}

// Delete handles DELETE /api/courses/:id.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	principal, err := guardedPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// guardedPrincipal returns the principal stored by the route's guard
// middleware. A route mounted without one gets UNAUTHORIZED.
func guardedPrincipal(c *fiber.Ctx) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}
