package queue

import (
	"context"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
)

// NoopPublisher drops events when neither Redis nor a webhook is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (q *NoopPublisher) Publish(ctx context.Context, ev ports.Event) error {
	return nil
}

// DirectPublisher delivers on the request goroutine; used when a webhook is set but Redis is not.
type DirectPublisher struct {
	emitter ports.WebhookEmitter
}

func NewDirectPublisher(emitter ports.WebhookEmitter) *DirectPublisher {
	return &DirectPublisher{emitter: emitter}
}

func (q *DirectPublisher) Publish(ctx context.Context, ev ports.Event) error {
	return q.emitter.Emit(ctx, ev)
}

var (
	_ ports.EventPublisher = (*NoopPublisher)(nil)
	_ ports.EventPublisher = (*DirectPublisher)(nil)
)
