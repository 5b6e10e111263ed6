package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-tracker/internal/api/http/handlers"
	"github.com/spec-kit/course-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Courses    *handlers.CoursesHandler
	Pages      *handlers.PagesHandler
	Gatekeeper *auth.Gatekeeper
	Guard      *auth.Guard
}

// RegisterRoutes wires HTTP routes. The gatekeeper sees every request and
// decides from the path whether a session is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gatekeeper.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Guard.Authenticated(), cfg.Auth.Me)

	authenticated := cfg.Guard.Authenticated()
	manager := cfg.Guard.RequireManager()
	courses := api.Group("/courses")
	courses.Get("", authenticated, cfg.Courses.List)
	courses.Post("", manager, cfg.Courses.Create)
	courses.Get("/:id", authenticated, cfg.Courses.Get)
	courses.Put("/:id", manager, cfg.Courses.Update)
	courses.Delete("/:id", manager, cfg.Courses.Delete)

	app.Get("/", cfg.Pages.Root)
	app.Get("/login", cfg.Pages.Login)
	app.Get("/dashboard", cfg.Pages.Dashboard)
	app.Get("/dashboard/courses/new", cfg.Pages.NewCourse)
	app.Get("/dashboard/courses/:id", cfg.Pages.Course)
	app.Get("/dashboard/courses/:id/edit", cfg.Pages.EditCourse)
}
