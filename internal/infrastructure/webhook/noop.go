package webhook

import (
	"context"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
)

// NoopEmitter discards events when WEBHOOK_URL is not set.
type NoopEmitter struct{}

func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

func (e *NoopEmitter) Emit(ctx context.Context, event ports.Event) error {
	return nil
}

var _ ports.WebhookEmitter = (*NoopEmitter)(nil)
