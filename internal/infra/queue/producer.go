package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// RabbitMQProducer publishes analytics events to the durable analytics
// exchange. Intake treats a publish failure as a logged non-event, so this
// producer never retries on its own.
type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishEvent(ctx context.Context, event entity.AnalyticsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding analytics event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing analytics event: %w", err)
	}
	return nil
}
