package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
)

const (
	TypeEvent = "event:deliver"

	maxDeliveryRetries = 8
	deliveryTimeout    = 30 * time.Second
)

// RedisOpt converts a redis:// or rediss:// URL into asynq connection options.
func RedisOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

// TaskPublisher enqueues events for the worker to deliver. It implements ports.EventPublisher.
type TaskPublisher struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqPublisher(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *TaskPublisher {
	return &TaskPublisher{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskPublisher) Close() error {
	return q.client.Close()
}

func (q *TaskPublisher) Publish(ctx context.Context, ev ports.Event) error {
	task, err := newEventTask(ev)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("event", ev.Name).Msg("enqueue event failed")
		return err
	}
	q.log.Debug().Str("event", ev.Name).Str("task_id", info.ID).Msg("event enqueued")
	return nil
}

func newEventTask(ev ports.Event) (*asynq.Task, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEvent, payload, asynq.MaxRetry(maxDeliveryRetries), asynq.Timeout(deliveryTimeout)), nil
}

var _ ports.EventPublisher = (*TaskPublisher)(nil)
