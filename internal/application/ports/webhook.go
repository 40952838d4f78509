package ports

import (
	"context"
	"time"
)

// Event names.
const (
	EventProjectCreated       = "project.created"
	EventProjectDeleted       = "project.deleted"
	EventApplicationCreated   = "application.created"
	EventApplicationWithdrawn = "application.withdrawn"
)

// Event is a committed domain change announced to outside listeners.
type Event struct {
	Name          string    `json:"event"`
	ProjectID     string    `json:"project_id"`
	ProjectSlug   string    `json:"project_slug,omitempty"`
	UserID        string    `json:"user_id"`
	ApplicationID string    `json:"application_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher hands events to a delivery mechanism (queue, log). Publishing is best effort;
// callers log failures and do not undo the committed change.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// WebhookEmitter sends an event to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event Event) error
}
