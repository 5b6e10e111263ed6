package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/repository"
)

func TestDefaultCatalog(t *testing.T) {
	courses, err := DefaultCatalog()
	require.NoError(t, err)
	require.Len(t, courses, 14)

	first := courses[0]
	assert.Equal(t, 1, first.Grade)
	assert.Equal(t, domain.DisciplineCoding, first.Discipline)
	assert.Equal(t, domain.DefaultRequirement, first.Prerequisites)
	assert.Equal(t, "Computer with web browser", first.SystemRequirements)
	assert.Equal(t, "Gears and Motion, Introduction to Python", courses[6].Prerequisites)
}

func TestLoadCatalogErrors(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "courses:\n  - {grade: 1, discipline: Coding, courseName: X, instructor: Y}\n",
		"bad grade":      "courses:\n  - {grade: 0, discipline: Coding, courseName: X}\n",
		"bad discipline": "courses:\n  - {grade: 1, discipline: Art, courseName: X}\n",
		"no name":        "courses:\n  - {grade: 1, discipline: Coding}\n",
		"bad status":     "courses:\n  - {grade: 1, discipline: Coding, courseName: X, workbookStatus: Lost}\n",
		"not yaml":       "courses: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestSeederSkipsPopulatedStores(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := &Seeder{
		Users:      repository.NewMemoryUserRepository(),
		Courses:    repository.NewMemoryCourseRepository(),
		BcryptCost: 4,
		Now:        func() time.Time { return now },
	}

	n, err := s.SeedUsers(ctx, DefaultAccounts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	manager, err := s.Users.GetByEmail(ctx, "manager@edtech.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, manager.Role)
	assert.True(t, manager.VerifyPassword("manager123"))

	n, err = s.SeedUsers(ctx, DefaultAccounts)
	require.NoError(t, err)
	assert.Zero(t, n)

	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	n, err = s.SeedCourses(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	list, err := s.Courses.List(ctx, domain.CourseFilter{Grade: 12})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, SystemActor, list[0].UpdatedBy)
	assert.Equal(t, now, list[0].LastUpdated)

	n, err = s.SeedCourses(ctx, catalog)
	require.NoError(t, err)
	assert.Zero(t, n)
}
