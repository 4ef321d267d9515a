package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TaskSendEmail = "email:send"

// QueueMailer enqueues messages for the worker.
type QueueMailer struct {
	client *asynq.Client
}

func NewQueueMailer(redisURL string) (*QueueMailer, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return &QueueMailer{client: asynq.NewClient(opt)}, nil
}

func (q *QueueMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	task, err := NewSendEmailTask(PasswordResetMessage(to, name, link))
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

func (q *QueueMailer) Close() error {
	return q.client.Close()
}

func NewSendEmailTask(msg Message) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(
		TaskSendEmail,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Retention(24*time.Hour),
	), nil
}
