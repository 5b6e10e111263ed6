package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/course-tracker/internal/api/http"
	"github.com/spec-kit/course-tracker/internal/cache"
	"github.com/spec-kit/course-tracker/internal/config"
	"github.com/spec-kit/course-tracker/internal/observability"
	"github.com/spec-kit/course-tracker/internal/persistence"
	"github.com/spec-kit/course-tracker/internal/repository"
	"github.com/spec-kit/course-tracker/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrInsecureSecret) {
			log.Fatalf("refusing to start: %v", err)
		}
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.UsingDevSecret {
		logger.Warn("AUTH_JWT_SECRET not set; using development signing secret",
			zap.String("env", cfg.App.Env))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		users   repository.UserRepository
		courses repository.CourseRepository
		pg      *persistence.Postgres
	)
	if cfg.Postgres.DSN == "" && !cfg.IsProduction() {
		logger.Warn("POSTGRES_DSN not provided; using in-memory storage with seeded data")
		users = repository.NewMemoryUserRepository()
		courses = repository.NewMemoryCourseRepository()
		if err := seedMemory(ctx, cfg, logger, users, courses); err != nil {
			logger.Fatal("failed to seed in-memory storage", zap.Error(err))
		}
	} else {
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), os.DirFS(cfg.Postgres.MigrationsDir), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		users = repository.NewUserRepository(pg.PoolHandle())
		courses = repository.NewCourseRepository(pg.PoolHandle())
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	app, err := httptransport.NewServer(httptransport.ServerDeps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics,
		Users:       users,
		Courses:     courses,
		CourseCache: cache.NewCourseCache(redis.Client, cfg.Redis.CourseCacheTTL()),
		Postgres:    pg,
		Redis:       redis,
	})
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

func seedMemory(ctx context.Context, cfg *config.Config, logger *zap.Logger, users repository.UserRepository, courses repository.CourseRepository) error {
	catalog, err := seed.DefaultCatalog()
	if err != nil {
		return err
	}
	seeder := &seed.Seeder{Users: users, Courses: courses, BcryptCost: cfg.Auth.BcryptCost, Logger: logger}
	if _, err := seeder.SeedUsers(ctx, seed.DefaultAccounts); err != nil {
		return err
	}
	_, err = seeder.SeedCourses(ctx, catalog)
	return err
}
