package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/course-tracker/internal/domain"
)

// CourseRepository encapsulates course persistence.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error)
	Count(ctx context.Context) (int, error)
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository instantiates repository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

const courseColumns = `id, grade, discipline, course_name, textbook_status, workbook_status,
                    prerequisites, system_requirements, last_updated, updated_by`

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (grade, discipline, course_name, textbook_status, workbook_status,
            prerequisites, system_requirements, last_updated, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		course.Grade,
		course.Discipline,
		course.CourseName,
		course.TextbookStatus,
		course.WorkbookStatus,
		course.Prerequisites,
		course.SystemRequirements,
		course.LastUpdated,
		course.UpdatedBy,
	).Scan(&course.ID)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET grade=$1, discipline=$2, course_name=$3, textbook_status=$4,
            workbook_status=$5, prerequisites=$6, system_requirements=$7, last_updated=$8, updated_by=$9
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		course.Grade,
		course.Discipline,
		course.CourseName,
		course.TextbookStatus,
		course.WorkbookStatus,
		course.Prerequisites,
		course.SystemRequirements,
		course.LastUpdated,
		course.UpdatedBy,
		course.ID,
	)
	if err != nil {
		return mapLookupError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return mapLookupError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id=$1`
	course, err := scanCourse(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapLookupError(err)
	}
	return course, nil
}

func (r *courseRepository) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Grade > 0 {
		args = append(args, filter.Grade)
		clauses = append(clauses, fmt.Sprintf("grade=$%d", len(args)))
	}
	if filter.Discipline != "" {
		args = append(args, filter.Discipline)
		clauses = append(clauses, fmt.Sprintf("discipline=$%d", len(args)))
	}
	if filter.TextbookStatus != "" {
		args = append(args, filter.TextbookStatus)
		clauses = append(clauses, fmt.Sprintf("textbook_status=$%d", len(args)))
	}
	if filter.WorkbookStatus != "" {
		args = append(args, filter.WorkbookStatus)
		clauses = append(clauses, fmt.Sprintf("workbook_status=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM courses WHERE %s ORDER BY grade ASC, discipline ASC, course_name ASC`,
		courseColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *course)
	}
	return result, rows.Err()
}

func (r *courseRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var (
		course    domain.Course
		updatedBy *string
	)
	if err := row.Scan(
		&course.ID,
		&course.Grade,
		&course.Discipline,
		&course.CourseName,
		&course.TextbookStatus,
		&course.WorkbookStatus,
		&course.Prerequisites,
		&course.SystemRequirements,
		&course.LastUpdated,
		&updatedBy,
	); err != nil {
		return nil, err
	}
	if updatedBy != nil {
		course.UpdatedBy = *updatedBy
	}
	return &course, nil
}
