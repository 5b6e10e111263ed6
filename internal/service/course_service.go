package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/events"
	"github.com/spec-kit/course-tracker/internal/repository"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

// CourseLister is the read side of the course cache. GetList reports the cache
// generation it consulted; SetList must be given that same generation.
type CourseLister interface {
	GetList(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, int64, bool, error)
	SetList(ctx context.Context, filter domain.CourseFilter, version int64, courses []domain.Course) error
}

// CourseService implements the course catalog.
// Mutations take the acting principal, which callers obtain from the access guard.
type CourseService struct {
	courses    repository.CourseRepository
	cache      CourseLister
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CourseDependencies bundles collaborators for CourseService.
type CourseDependencies struct {
	Courses    repository.CourseRepository
	Cache      CourseLister
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewCourseService builds the service.
func NewCourseService(deps CourseDependencies) *CourseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	return &CourseService{
		courses:    deps.Courses,
		cache:      deps.Cache,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CourseInput is a full course definition for creation.
type CourseInput struct {
	Grade              int
	Discipline         domain.Discipline
	CourseName         string
	TextbookStatus     domain.MaterialStatus
	WorkbookStatus     domain.MaterialStatus
	Prerequisites      string
	SystemRequirements string
}

// CoursePatch holds the fields an update changes. Nil fields are left alone.
type CoursePatch struct {
	Grade              *int
	Discipline         *domain.Discipline
	CourseName         *string
	TextbookStatus     *domain.MaterialStatus
	WorkbookStatus     *domain.MaterialStatus
	Prerequisites      *string
	SystemRequirements *string
}

// List returns courses matching filter ordered by grade then discipline.
func (s *CourseService) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cached, v, ok, err := s.cache.GetList(ctx, filter)
		switch {
		case err != nil:
			s.logger.Warn("course cache read failed", zap.Error(err))
		case ok:
			return cached, nil
		default:
			version, cacheable = v, true
		}
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	// The generation was read before storage, so a mutation in between leaves
	// this listing under a retired key.
	if cacheable {
		if err := s.cache.SetList(ctx, filter, version, courses); err != nil {
			s.logger.Warn("course cache write failed", zap.Error(err))
		}
	}
	return courses, nil
}

// Get returns a single course.
func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, mapCourseErr(err)
	}
	return course, nil
}

// Create stores a new course stamped with the actor's email.
func (s *CourseService) Create(ctx context.Context, actor auth.Principal, in CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		Grade:              in.Grade,
		Discipline:         in.Discipline,
		CourseName:         strings.TrimSpace(in.CourseName),
		TextbookStatus:     in.TextbookStatus,
		WorkbookStatus:     in.WorkbookStatus,
		Prerequisites:      in.Prerequisites,
		SystemRequirements: in.SystemRequirements,
	}
	applyCourseDefaults(course)
	if err := validateCourse(course); err != nil {
		return nil, err
	}
	course.LastUpdated = s.now().UTC()
	course.UpdatedBy = actor.Email

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventCourseCreated, actor, course.ID, events.CourseChangedPayload{Course: *course})
	return course, nil
}

// Update applies patch to the course identified by id.
func (s *CourseService) Update(ctx context.Context, actor auth.Principal, id string, patch CoursePatch) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, mapCourseErr(err)
	}

	if patch.Grade != nil {
		course.Grade = *patch.Grade
	}
	if patch.Discipline != nil {
		course.Discipline = *patch.Discipline
	}
	if patch.CourseName != nil {
		course.CourseName = strings.TrimSpace(*patch.CourseName)
	}
	if patch.TextbookStatus != nil {
		course.TextbookStatus = *patch.TextbookStatus
	}
	if patch.WorkbookStatus != nil {
		course.WorkbookStatus = *patch.WorkbookStatus
	}
	if patch.Prerequisites != nil {
		course.Prerequisites = *patch.Prerequisites
	}
	if patch.SystemRequirements != nil {
		course.SystemRequirements = *patch.SystemRequirements
	}
	applyCourseDefaults(course)
	if err := validateCourse(course); err != nil {
		return nil, err
	}
	course.LastUpdated = s.now().UTC()
	course.UpdatedBy = actor.Email

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, mapCourseErr(err)
	}

	s.publish(ctx, events.EventCourseUpdated, actor, course.ID, events.CourseChangedPayload{Course: *course})
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return mapCourseErr(err)
	}
	s.publish(ctx, events.EventCourseDeleted, actor, id, nil)
	return nil
}

// Dispatcher exposes the event bus so workers can subscribe.
func (s *CourseService) Dispatcher() events.Dispatcher {
	return s.dispatcher
}

func (s *CourseService) publish(ctx context.Context, typ events.EventType, actor auth.Principal, courseID string, payload interface{}) {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		CourseID:  courseID,
		Actor:     events.Actor{UserID: actor.UserID, Email: actor.Email, Role: actor.Role},
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("course event handler failed",
			zap.String("event", string(typ)),
			zap.String("course_id", courseID),
			zap.Error(err))
	}
}

func applyCourseDefaults(course *domain.Course) {
	if course.TextbookStatus == "" {
		course.TextbookStatus = domain.MaterialNotStarted
	}
	if course.WorkbookStatus == "" {
		course.WorkbookStatus = domain.MaterialNotStarted
	}
	if strings.TrimSpace(course.Prerequisites) == "" {
		course.Prerequisites = domain.DefaultRequirement
	}
	if strings.TrimSpace(course.SystemRequirements) == "" {
		course.SystemRequirements = domain.DefaultRequirement
	}
}

func validateCourse(course *domain.Course) error {
	details := map[string]any{}
	if course.Grade < 1 || course.Grade > 12 {
		details["grade"] = "must be between 1 and 12"
	}
	if !course.Discipline.Valid() {
		details["discipline"] = "unknown discipline"
	}
	if course.CourseName == "" {
		details["courseName"] = "required"
	}
	if !course.TextbookStatus.Valid() {
		details["textbookStatus"] = "unknown status"
	}
	if !course.WorkbookStatus.Valid() {
		details["workbookStatus"] = "unknown status"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid course", details)
	}
	return nil
}

func mapCourseErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("course", nil)
	}
	return apperrors.NewInternalError(err)
}
