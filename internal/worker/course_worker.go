package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/course-tracker/internal/events"
)

// CacheInvalidator drops cached course listings.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

var courseEvents = []events.EventType{
	events.EventCourseCreated,
	events.EventCourseUpdated,
	events.EventCourseDeleted,
}

// StartCourseWorker subscribes cache invalidation and activity logging to course events.
// cache may be nil when Redis is not configured.
func StartCourseWorker(dispatcher events.Dispatcher, cache CacheInvalidator, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache != nil {
		events.SubscribeAll(dispatcher, func(ctx context.Context, _ events.Event) error {
			return cache.Invalidate(ctx)
		}, courseEvents...)
	}
	events.SubscribeAll(dispatcher, func(_ context.Context, e events.Event) error {
		logger.Info("course changed",
			zap.String("event", string(e.Type)),
			zap.String("course_id", e.CourseID),
			zap.String("by", e.Actor.Email),
			zap.Stringer("role", e.Actor.Role))
		return nil
	}, courseEvents...)
}
