package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
)

// Worker runs Asynq task handlers that forward events to the webhook emitter.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Start to begin processing.
func NewWorker(redisOpt asynq.RedisClientOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.WarnLevel,
	})
	w := &Worker{srv: srv, mux: asynq.NewServeMux(), emitter: emitter, log: log}
	w.mux.HandleFunc(TypeEvent, w.handleEvent)
	return w
}

func (w *Worker) handleEvent(ctx context.Context, t *asynq.Task) error {
	var ev ports.Event
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		w.log.Error().Err(err).Msg("event task payload invalid")
		return fmt.Errorf("decode event: %v: %w", err, asynq.SkipRetry)
	}
	if err := w.emitter.Emit(ctx, ev); err != nil {
		w.log.Warn().Err(err).Str("event", ev.Name).Str("project_id", ev.ProjectID).Msg("webhook delivery failed")
		return err
	}
	w.log.Debug().Str("event", ev.Name).Msg("webhook delivered")
	return nil
}

// Start begins processing in the background. Use Shutdown for graceful stop.
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
