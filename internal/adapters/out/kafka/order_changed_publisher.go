// Package kafka provides the event publishing adapter. Accepted order
// transitions are broadcast to an order-changed topic keyed by order ID so
// consumers see one order's events in order.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// OrderChangedEvent is the wire format of one accepted transition.
type OrderChangedEvent struct {
	OrderID       string    `json:"order_id"`
	Number        string    `json:"number"`
	CustomerID    string    `json:"customer_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Version       int64     `json:"version"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// OrderChangedPublisher implements ports.EventPublisher on top of a kafka
// writer. Publishing is fire-and-forget from the workflow's perspective:
// failures are logged here and a lost event never undoes a committed
// transition.
type OrderChangedPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewOrderChangedPublisher creates a publisher writing to the given topic.
func NewOrderChangedPublisher(brokers []string, topic string, logger *slog.Logger) *OrderChangedPublisher {
	return &OrderChangedPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger.With("component", "order_changed_publisher"),
	}
}

// NewOrderChangedEvent builds the wire event for the aggregate's current state.
func NewOrderChangedEvent(aggregate *order.Order) OrderChangedEvent {
	return OrderChangedEvent{
		OrderID:       aggregate.ID().String(),
		Number:        aggregate.Number(),
		CustomerID:    aggregate.CustomerID().String(),
		Status:        aggregate.Status().String(),
		PaymentStatus: aggregate.PaymentStatus().String(),
		Version:       aggregate.Version(),
		OccurredAt:    time.Now().UTC(),
	}
}

// PublishOrderChanged emits one event for the aggregate's current state.
func (p *OrderChangedPublisher) PublishOrderChanged(ctx context.Context, aggregate *order.Order) error {
	event := NewOrderChangedEvent(aggregate)

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to marshal order changed event",
			"order_id", event.OrderID, "error", err)
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish order changed event",
			"order_id", event.OrderID, "status", event.Status, "error", err)
		return err
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *OrderChangedPublisher) Close() error {
	return p.writer.Close()
}
