// Package kafka adapts the shared producer to the domain's event publisher
// port.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openkonto/bank/internal/domain/event"
	pkgkafka "github.com/openkonto/bank/pkg/kafka"
)

// Publisher implements port.EventPublisher using Kafka.
type Publisher struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a new Kafka-based event publisher.
func NewPublisher(producer *pkgkafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   logger,
	}
}

// Publish sends domain events to the specified Kafka topic. Events for the
// same aggregate share a key, so their order is preserved per partition.
func (p *Publisher) Publish(ctx context.Context, topic string, events ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		key := evt.AggregateID()

		p.logger.DebugContext(ctx, "publishing event",
			"topic", topic,
			"event_type", evt.EventType(),
			"aggregate_id", key,
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(key),
			Value: payload,
			Headers: map[string]string{
				"event_type":     evt.EventType(),
				"aggregate_type": evt.AggregateType(),
				"event_id":       evt.EventID().String(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", topic, err)
	}
	return nil
}

// Close shuts down the Kafka publisher.
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NopPublisher implements port.EventPublisher for deployments without a
// broker. Events are logged at debug level and dropped.
type NopPublisher struct {
	logger *slog.Logger
}

// NewNopPublisher creates a publisher that drops all events.
func NewNopPublisher(logger *slog.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

// Publish logs and discards the events.
func (p *NopPublisher) Publish(ctx context.Context, topic string, events ...event.DomainEvent) error {
	for _, evt := range events {
		p.logger.DebugContext(ctx, "event publishing disabled, dropping event",
			"topic", topic,
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
		)
	}
	return nil
}
