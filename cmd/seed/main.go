package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/course-tracker/internal/config"
	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/observability"
	"github.com/spec-kit/course-tracker/internal/persistence"
	"github.com/spec-kit/course-tracker/internal/repository"
	"github.com/spec-kit/course-tracker/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		seedUsers   bool
		seedCourses bool
		catalogPath string
		migrate     bool
	)
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.BoolVar(&seedUsers, "users", true, "create the manager and employee test accounts when no users exist")
	flagSet.BoolVar(&seedCourses, "courses", true, "import the course catalog when no courses exist")
	flagSet.StringVar(&catalogPath, "catalog", "", "YAML course catalog (default: embedded starter catalog)")
	flagSet.BoolVar(&migrate, "migrate", false, "apply SQL migrations before seeding")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if migrate {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), os.DirFS(cfg.Postgres.MigrationsDir), logger); err != nil {
			return err
		}
	}

	seeder := &seed.Seeder{
		Users:      repository.NewUserRepository(pg.PoolHandle()),
		Courses:    repository.NewCourseRepository(pg.PoolHandle()),
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	}

	if seedUsers {
		n, err := seeder.SeedUsers(ctx, seed.DefaultAccounts)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		logger.Info("user seed complete", zap.Int("created", n))
	}

	if seedCourses {
		courses, err := loadCatalog(catalogPath)
		if err != nil {
			return err
		}
		n, err := seeder.SeedCourses(ctx, courses)
		if err != nil {
			return fmt.Errorf("seed courses: %w", err)
		}
		logger.Info("course seed complete", zap.Int("created", n))
	}
	return nil
}

func loadCatalog(path string) ([]domain.Course, error) {
	if path == "" {
		return seed.DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.LoadCatalog(f)
}
