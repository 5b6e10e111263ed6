package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/course-tracker/internal/api/http/handlers"
	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/cache"
	"github.com/spec-kit/course-tracker/internal/config"
	"github.com/spec-kit/course-tracker/internal/observability"
	"github.com/spec-kit/course-tracker/internal/repository"
	"github.com/spec-kit/course-tracker/internal/service"
	"github.com/spec-kit/course-tracker/internal/worker"
)

// ServerDeps are the collaborators the HTTP server is assembled from.
type ServerDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Users       repository.UserRepository
	Courses     repository.CourseRepository
	CourseCache *cache.CourseCache
	Postgres    handlers.Pinger
	Redis       handlers.Pinger
	CodecOpts   []auth.CodecOption
}

// NewServer builds the fiber app with the auth core, services and routes wired.
func NewServer(deps ServerDeps) (*fiber.App, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret, deps.CodecOpts...)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	sessions := auth.NewSessionManager(codec, auth.SessionOptions{
		TTL:         cfg.Auth.SessionTTL(),
		ForceSecure: cfg.Auth.ForceSecure,
		Logger:      logger,
		Recorder:    deps.Metrics,
	})
	guard := auth.NewGuard(sessions)

	gateCfg := auth.DefaultGatekeeperConfig()
	if len(cfg.Auth.ProtectedPrefixes) > 0 {
		gateCfg.Protected = cfg.Auth.ProtectedPrefixes
	}
	gateCfg.Logger = logger
	gateCfg.Recorder = deps.Metrics
	gatekeeper := auth.NewGatekeeper(codec, gateCfg)

	authService, err := service.NewAuthService(deps.Users, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	courseService := service.NewCourseService(service.CourseDependencies{
		Courses: deps.Courses,
		Cache:   deps.CourseCache,
		Logger:  logger,
	})
	worker.StartCourseWorker(courseService.Dispatcher(), deps.CourseCache, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, cfg.App.RequestTimeout())

	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Postgres, deps.Redis, deps.Metrics),
		Auth:       handlers.NewAuthHandler(authService, sessions, guard),
		Courses:    handlers.NewCoursesHandler(courseService),
		Pages:      handlers.NewPagesHandler(courseService, sessions, guard),
		Gatekeeper: gatekeeper,
		Guard:      guard,
	})
	return app, nil
}
