package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "academic-service"
	EventVersion = "1.0"
)

type EventType string

const (
	UserRegistered       EventType = "user.registered"
	UserDeleted          EventType = "user.deleted"
	GradeRecorded        EventType = "grade.recorded"
	CalendarEventCreated EventType = "calendar.event_created"
)

// Event is the envelope written to the events topic
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewEvent(eventType EventType, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers domain events. Implementations must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
