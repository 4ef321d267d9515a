package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/metrics"
	"github.com/hibiken/asynq"
)

// asynqLogger adapts slog to asynq.Logger.
type asynqLogger struct {
	logger *slog.Logger
}

func (a *asynqLogger) Debug(args ...interface{}) { a.logger.Debug(fmt.Sprint(args...)) }
func (a *asynqLogger) Info(args ...interface{})  { a.logger.Info(fmt.Sprint(args...)) }
func (a *asynqLogger) Warn(args ...interface{})  { a.logger.Warn(fmt.Sprint(args...)) }
func (a *asynqLogger) Error(args ...interface{}) { a.logger.Error(fmt.Sprint(args...)) }

func (a *asynqLogger) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// StartWorker runs the email worker in the background and returns a stop
// function for graceful shutdown.
func StartWorker(redisURL string, sender Sender, logger *slog.Logger) (stop func(), err error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency:     2,
		ShutdownTimeout: 10 * time.Second,
		ErrorHandler:    asynq.ErrorHandlerFunc(errorHandler(logger)),
		Logger:          &asynqLogger{logger: logger},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, HandleSendEmail(sender))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start email worker: %w", err)
	}
	logger.Info("email worker started")
	return srv.Shutdown, nil
}

func HandleSendEmail(sender Sender) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg Message
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			metrics.PasswordResetEmailsTotal.WithLabelValues("invalid").Inc()
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		if msg.To == "" {
			metrics.PasswordResetEmailsTotal.WithLabelValues("invalid").Inc()
			return fmt.Errorf("missing recipient: %w", asynq.SkipRetry)
		}
		if err := sender.Send(ctx, msg); err != nil {
			metrics.PasswordResetEmailsTotal.WithLabelValues("error").Inc()
			return err
		}
		metrics.PasswordResetEmailsTotal.WithLabelValues("sent").Inc()
		return nil
	}
}

func errorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		logger.Error("email task failed",
			"action", "email_send",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)
	}
}
