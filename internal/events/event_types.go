package events

import (
	"time"

	"github.com/spec-kit/course-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCourseCreated EventType = "course_created"
	EventCourseUpdated EventType = "course_updated"
	EventCourseDeleted EventType = "course_deleted"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CourseID  string      `json:"course_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// CourseChangedPayload carries the course state after a create or update.
type CourseChangedPayload struct {
	Course domain.Course `json:"course"`
}
