package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
)

// Publish announces a committed change. Failures are logged and swallowed.
func Publish(ctx context.Context, pub ports.EventPublisher, log zerolog.Logger, ev ports.Event) {
	if pub == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", ev.Name).Str("project_id", ev.ProjectID).Msg("publish event failed")
	}
}
