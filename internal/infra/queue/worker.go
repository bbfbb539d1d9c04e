package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// Worker drains the analytics queue into the analytics_events table.
// Malformed messages are rejected without requeue so one bad payload can
// never wedge the queue; store failures are also dead-lettered rather than
// retried in a tight loop.
type Worker struct {
	Channel *amqp.Channel
	Repo    entity.AnalyticsRepositoryInterface
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, repo entity.AnalyticsRepositoryInterface, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Repo: repo, Logger: logger}
}

func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack: manual so failures dead-letter
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	w.Logger.Info("analytics worker consuming", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.AnalyticsEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Warn("dropping malformed analytics event", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Repo.InsertEvent(ctx, &event); err != nil {
		w.Logger.Error("failed to persist analytics event",
			zap.String("event_name", event.EventName),
			zap.Error(err))
		d.Nack(false, false)
		return
	}

	d.Ack(false)
}
