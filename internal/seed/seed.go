// Package seed populates an empty database with starter accounts and courses.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/repository"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// SystemActor is recorded as updatedBy on imported courses.
const SystemActor = "system"

// Account is a starter login.
type Account struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// DefaultAccounts are the manager and employee test logins.
var DefaultAccounts = []Account{
	{Name: "Admin Manager", Email: "manager@edtech.com", Password: "manager123", Role: domain.RoleManager},
	{Name: "John Employee", Email: "employee@edtech.com", Password: "employee123", Role: domain.RoleEmployee},
}

// CatalogEntry is one course in a YAML catalog.
type CatalogEntry struct {
	Grade              int    `yaml:"grade"`
	Discipline         string `yaml:"discipline"`
	CourseName         string `yaml:"courseName"`
	TextbookStatus     string `yaml:"textbookStatus"`
	WorkbookStatus     string `yaml:"workbookStatus"`
	Prerequisites      string `yaml:"prerequisites"`
	SystemRequirements string `yaml:"systemRequirements"`
}

type catalogFile struct {
	Courses []CatalogEntry `yaml:"courses"`
}

// LoadCatalog decodes and validates a YAML course catalog.
func LoadCatalog(r io.Reader) ([]domain.Course, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	courses := make([]domain.Course, 0, len(file.Courses))
	for i, e := range file.Courses {
		c := domain.Course{
			Grade:              e.Grade,
			Discipline:         domain.Discipline(e.Discipline),
			CourseName:         e.CourseName,
			TextbookStatus:     domain.MaterialStatus(e.TextbookStatus),
			WorkbookStatus:     domain.MaterialStatus(e.WorkbookStatus),
			Prerequisites:      e.Prerequisites,
			SystemRequirements: e.SystemRequirements,
		}
		if c.TextbookStatus == "" {
			c.TextbookStatus = domain.MaterialNotStarted
		}
		if c.WorkbookStatus == "" {
			c.WorkbookStatus = domain.MaterialNotStarted
		}
		if c.Prerequisites == "" {
			c.Prerequisites = domain.DefaultRequirement
		}
		if c.SystemRequirements == "" {
			c.SystemRequirements = domain.DefaultRequirement
		}
		switch {
		case c.Grade < 1 || c.Grade > 12:
			return nil, fmt.Errorf("catalog entry %d: grade %d out of range", i, c.Grade)
		case !c.Discipline.Valid():
			return nil, fmt.Errorf("catalog entry %d: unknown discipline %q", i, c.Discipline)
		case c.CourseName == "":
			return nil, fmt.Errorf("catalog entry %d: course name required", i)
		case !c.TextbookStatus.Valid() || !c.WorkbookStatus.Valid():
			return nil, fmt.Errorf("catalog entry %d: unknown material status", i)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// DefaultCatalog returns the embedded starter catalog.
func DefaultCatalog() ([]domain.Course, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// Seeder writes starter data through the repositories.
type Seeder struct {
	Users      repository.UserRepository
	Courses    repository.CourseRepository
	BcryptCost int
	Logger     *zap.Logger
	Now        func() time.Time
}

// SeedUsers creates accounts unless any user already exists. It returns the number created.
func (s *Seeder) SeedUsers(ctx context.Context, accounts []Account) (int, error) {
	existing, err := s.Users.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger().Info("users already exist; skipping", zap.Int("count", existing))
		return 0, nil
	}

	for _, a := range accounts {
		hash, err := auth.HashPassword(a.Password, s.BcryptCost)
		if err != nil {
			return 0, err
		}
		user := &domain.User{Name: a.Name, Email: a.Email, PasswordHash: hash, Role: a.Role}
		if err := s.Users.Create(ctx, user); err != nil {
			return 0, fmt.Errorf("create %s: %w", a.Email, err)
		}
		s.logger().Info("created user", zap.String("email", user.Email), zap.Stringer("role", user.Role))
	}
	return len(accounts), nil
}

// SeedCourses imports courses unless the catalog already has entries. It returns the number created.
func (s *Seeder) SeedCourses(ctx context.Context, courses []domain.Course) (int, error) {
	existing, err := s.Courses.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.logger().Info("courses already exist; skipping", zap.Int("count", existing))
		return 0, nil
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	for i := range courses {
		c := courses[i]
		c.LastUpdated = now().UTC()
		c.UpdatedBy = SystemActor
		if err := s.Courses.Create(ctx, &c); err != nil {
			return i, fmt.Errorf("create %q: %w", c.CourseName, err)
		}
	}
	s.logger().Info("imported courses", zap.Int("count", len(courses)))
	return len(courses), nil
}

func (s *Seeder) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
