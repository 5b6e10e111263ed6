package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-tracker/internal/domain"
)

// In-memory repositories back local development without Postgres and the HTTP tests.
// They mirror the Postgres implementations' error contract: pgx.ErrNoRows for
// missing records and ErrDuplicate for email collisions.

type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository returns an empty in-memory credential store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = domain.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicate
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := r.byID[id]
	return &user, nil
}

func (r *memoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

type memoryCourseRepository struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
}

// NewMemoryCourseRepository returns an empty in-memory course store.
func NewMemoryCourseRepository() CourseRepository {
	return &memoryCourseRepository{courses: make(map[string]domain.Course)}
}

func (r *memoryCourseRepository) Create(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	course.ID = uuid.NewString()
	r.courses[course.ID] = *course
	return nil
}

func (r *memoryCourseRepository) Update(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[course.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.courses[course.ID] = *course
	return nil
}

func (r *memoryCourseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.courses, id)
	return nil
}

func (r *memoryCourseRepository) GetByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &course, nil
}

func (r *memoryCourseRepository) List(_ context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Course{}
	for _, c := range r.courses {
		if filter.Grade > 0 && c.Grade != filter.Grade {
			continue
		}
		if filter.Discipline != "" && c.Discipline != filter.Discipline {
			continue
		}
		if filter.TextbookStatus != "" && c.TextbookStatus != filter.TextbookStatus {
			continue
		}
		if filter.WorkbookStatus != "" && c.WorkbookStatus != filter.WorkbookStatus {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Grade != b.Grade {
			return a.Grade < b.Grade
		}
		if a.Discipline != b.Discipline {
			return a.Discipline < b.Discipline
		}
		return a.CourseName < b.CourseName
	})
	return result, nil
}

func (r *memoryCourseRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.courses), nil
}
