package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"
)

// Worker consumes queued email tasks and delivers them via a Sender.
// Delivery failures never reach the request path that enqueued the task:
// the router retries up to maxRetries times with a fixed delay, then the
// message is dropped with a logged failure.
type Worker struct {
	router *message.Router
	logger zerolog.Logger
}

const (
	maxRetries = 3
	retryDelay = 10 * time.Second
)

// NewWorker builds the email worker over a Watermill subscriber.
func NewWorker(subscriber message.Subscriber, sender Sender, wmLogger watermill.LoggerAdapter, logger zerolog.Logger) (*Worker, error) {
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, err
	}

	retry := middleware.Retry{
		MaxRetries:      maxRetries,
		InitialInterval: retryDelay,
		Multiplier:      1, // fixed delay between attempts
		Logger:          wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	w := &Worker{router: router, logger: logger}

	router.AddNoPublisherHandler(
		"send_notification_email",
		TaskSendEmail,
		subscriber,
		func(msg *message.Message) error {
			var task EmailTask
			if err := json.Unmarshal(msg.Payload, &task); err != nil {
				// Malformed payloads cannot succeed on retry.
				w.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed email task")
				return nil
			}
			if err := sender.Send(task); err != nil {
				w.logger.Error().Err(err).Str("to", task.To).Str("subject", task.Subject).Msg("failed to send notification email")
				return err
			}
			w.logger.Info().Str("to", task.To).Str("subject", task.Subject).Msg("notification email sent")
			return nil
		},
	)

	return w, nil
}

// Run blocks consuming tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.router.Run(ctx)
}

// Close stops the router.
func (w *Worker) Close() error {
	return w.router.Close()
}
