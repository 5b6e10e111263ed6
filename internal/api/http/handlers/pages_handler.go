package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-tracker/internal/api/dto"
	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/service"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

// PagesHandler renders the server-side pages. The gatekeeper has already
// ensured some session exists for /dashboard paths; these handlers still
// derive the principal themselves and enforce roles.
type PagesHandler struct {
	courses  *service.CourseService
	sessions *auth.SessionManager
	guard    *auth.Guard
}

// NewPagesHandler constructs handler.
func NewPagesHandler(courses *service.CourseService, sessions *auth.SessionManager, guard *auth.Guard) *PagesHandler {
	return &PagesHandler{courses: courses, sessions: sessions, guard: guard}
}

type pageData struct {
	Title       string
	User        *auth.Principal
	IsManager   bool
	Courses     []domain.Course
	Course      *domain.Course
	Filter      domain.CourseFilter
	Grades      []int
	Disciplines []domain.Discipline
	Statuses    []domain.MaterialStatus
}

var (
	grades      = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	disciplines = []domain.Discipline{
		domain.DisciplineElectronics, domain.DisciplineCoding, domain.DisciplineMechanical,
		domain.DisciplineRobotics, domain.DisciplineOther,
	}
	statuses = []domain.MaterialStatus{
		domain.MaterialNotStarted, domain.MaterialInProgress, domain.MaterialReview, domain.MaterialCompleted,
	}
)

// Root handles GET /.
func (h *PagesHandler) Root(c *fiber.Ctx) error {
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// Login handles GET /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	if _, ok := h.sessions.CurrentSession(c); ok {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return render(c, "login", pageData{Title: "Sign in"})
}

// Dashboard handles GET /dashboard?grade=&discipline=&textbookStatus=&workbookStatus=.
// An unparseable filter drops back to the unfiltered dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := h.guard.RequireAuthenticated(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusFound)
	}

	var q dto.CourseFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	filter, err := q.ToFilter()
	if err != nil {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}

	courses, err := h.courses.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return render(c, "dashboard", pageData{
		Title:       "Courses",
		User:        &principal,
		IsManager:   principal.Role == domain.RoleManager,
		Courses:     courses,
		Filter:      filter,
		Grades:      grades,
		Disciplines: disciplines,
		Statuses:    statuses,
	})
}

// Course handles GET /dashboard/courses/:id.
func (h *PagesHandler) Course(c *fiber.Ctx) error {
	principal, err := h.guard.RequireAuthenticated(c)
	if err != nil {
		return c.Redirect("/login", fiber.StatusFound)
	}
	course, err := h.courses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return c.Redirect("/dashboard", fiber.StatusFound)
		}
		return err
	}
	return render(c, "course", pageData{
		Title:     course.CourseName,
		User:      &principal,
		IsManager: principal.Role == domain.RoleManager,
		Course:    course,
	})
}

// NewCourse handles GET /dashboard/courses/new.
func (h *PagesHandler) NewCourse(c *fiber.Ctx) error {
	principal, ok := h.managerOrRedirect(c)
	if !ok {
		return nil
	}
	return render(c, "form", formData("New course", principal, nil))
}

// EditCourse handles GET /dashboard/courses/:id/edit.
func (h *PagesHandler) EditCourse(c *fiber.Ctx) error {
	principal, ok := h.managerOrRedirect(c)
	if !ok {
		return nil
	}
	course, err := h.courses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return c.Redirect("/dashboard", fiber.StatusFound)
		}
		return err
	}
	return render(c, "form", formData("Edit course", principal, course))
}

// managerOrRedirect sends unauthenticated callers to /login and employees to /dashboard.
func (h *PagesHandler) managerOrRedirect(c *fiber.Ctx) (auth.Principal, bool) {
	principal, err := h.guard.RequireRole(c, domain.RoleManager)
	switch {
	case err == nil:
		return principal, true
	case apperrors.HasCode(err, apperrors.CodeForbidden):
		_ = c.Redirect("/dashboard", fiber.StatusFound)
	default:
		_ = c.Redirect("/login", fiber.StatusFound)
	}
	return auth.Principal{}, false
}

func formData(title string, principal auth.Principal, course *domain.Course) pageData {
	return pageData{
		Title:       title,
		User:        &principal,
		IsManager:   true,
		Course:      course,
		Disciplines: disciplines,
		Statuses:    statuses,
	}
}

func render(c *fiber.Ctx, name string, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplates[name].ExecuteTemplate(&buf, name, data); err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
