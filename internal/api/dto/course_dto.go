package dto

import (
	"strconv"

	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/service"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

// CreateCourseRequest payload for POST /api/courses.
type CreateCourseRequest struct {
	Grade              int    `json:"grade" validate:"required,min=1,max=12"`
	Discipline         string `json:"discipline" validate:"required,oneof=Electronics Coding Mechanical Robotics Other"`
	CourseName         string `json:"courseName" validate:"required"`
	TextbookStatus     string `json:"textbookStatus" validate:"omitempty,oneof='Not Started' 'In Progress' Review Completed"`
	WorkbookStatus     string `json:"workbookStatus" validate:"omitempty,oneof='Not Started' 'In Progress' Review Completed"`
	Prerequisites      string `json:"prerequisites"`
	SystemRequirements string `json:"systemRequirements"`
}

// ToInput converts to the service input.
func (r CreateCourseRequest) ToInput() service.CourseInput {
	return service.CourseInput{
		Grade:              r.Grade,
		Discipline:         domain.Discipline(r.Discipline),
		CourseName:         r.CourseName,
		TextbookStatus:     domain.MaterialStatus(r.TextbookStatus),
		WorkbookStatus:     domain.MaterialStatus(r.WorkbookStatus),
		Prerequisites:      r.Prerequisites,
		SystemRequirements: r.SystemRequirements,
	}
}

// UpdateCourseRequest payload for PUT /api/courses/:id. Omitted fields are unchanged.
type UpdateCourseRequest struct {
	Grade              *int    `json:"grade" validate:"omitempty,min=1,max=12"`
	Discipline         *string `json:"discipline" validate:"omitempty,oneof=Electronics Coding Mechanical Robotics Other"`
	CourseName         *string `json:"courseName" validate:"omitempty,min=1"`
	TextbookStatus     *string `json:"textbookStatus" validate:"omitempty,oneof='Not Started' 'In Progress' Review Completed"`
	WorkbookStatus     *string `json:"workbookStatus" validate:"omitempty,oneof='Not Started' 'In Progress' Review Completed"`
	Prerequisites      *string `json:"prerequisites"`
	SystemRequirements *string `json:"systemRequirements"`
}

// ToPatch converts to the service patch.
func (r UpdateCourseRequest) ToPatch() service.CoursePatch {
	patch := service.CoursePatch{
		Grade:              r.Grade,
		CourseName:         r.CourseName,
		Prerequisites:      r.Prerequisites,
		SystemRequirements: r.SystemRequirements,
	}
	if r.Discipline != nil {
		d := domain.Discipline(*r.Discipline)
		patch.Discipline = &d
	}
	if r.TextbookStatus != nil {
		s := domain.MaterialStatus(*r.TextbookStatus)
		patch.TextbookStatus = &s
	}
	if r.WorkbookStatus != nil {
		s := domain.MaterialStatus(*r.WorkbookStatus)
		patch.WorkbookStatus = &s
	}
	return patch
}

// CourseFilterQuery binds GET /api/courses query parameters.
type CourseFilterQuery struct {
	Grade          string `query:"grade"`
	Discipline     string `query:"discipline"`
	TextbookStatus string `query:"textbookStatus"`
	WorkbookStatus string `query:"workbookStatus"`
}

// ToFilter parses the query into a filter.
func (q CourseFilterQuery) ToFilter() (domain.CourseFilter, error) {
	filter := domain.CourseFilter{
		Discipline:     domain.Discipline(q.Discipline),
		TextbookStatus: domain.MaterialStatus(q.TextbookStatus),
		WorkbookStatus: domain.MaterialStatus(q.WorkbookStatus),
	}
	if q.Grade != "" {
		grade, err := strconv.Atoi(q.Grade)
		if err != nil || grade < 1 || grade > 12 {
			return filter, apperrors.NewValidationError("invalid grade filter", map[string]any{"grade": q.Grade})
		}
		filter.Grade = grade
	}
	return filter, nil
}
