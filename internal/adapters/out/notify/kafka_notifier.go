// Package notify provides the customer notification adapter. Notifications
// are published to a kafka topic consumed by the notification service, which
// owns the actual delivery channels (push, SMS, email).
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
)

// notification is the wire format of one customer notification.
type notification struct {
	CustomerID string         `json:"customer_id"`
	Event      string         `json:"event"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// KafkaNotifier implements ports.Notifier by publishing to a notifications
// topic keyed by customer ID.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaNotifier creates a notifier writing to the given topic.
func NewKafkaNotifier(brokers []string, topic string, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger.With("component", "kafka_notifier"),
	}
}

// Notify publishes one customer notification.
func (n *KafkaNotifier) Notify(ctx context.Context, customerID kernel.UUID, event string, payload map[string]any) error {
	data, err := json.Marshal(notification{
		CustomerID: customerID.String(),
		Event:      event,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(customerID.String()),
		Value: data,
	})
	if err != nil {
		n.logger.WarnContext(ctx, "Failed to publish notification",
			"customer_id", customerID.String(), "event", event, "error", err)
		return err
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
