// Package payment provides the inbound adapter for asynchronous payment
// gateway events. Events arrive on a kafka topic; an event is acknowledged
// (its offset committed) only after the transition commits, so a processing
// failure leaves the message for redelivery. Replays are safe: confirming an
// already-captured payment is a no-op and records nothing.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

const gatewayActor = "payment_gateway"

// gatewayEvent is the wire format of one payment gateway callback.
type gatewayEvent struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"` // captured | failed
	Reason    string `json:"reason,omitempty"`
}

// EventConsumer reads payment gateway events and drives the payment side of
// the order state machine.
type EventConsumer struct {
	reader         *kafka.Reader
	confirmHandler commands.ConfirmPaymentCommandHandler
	failHandler    commands.FailPaymentCommandHandler
	logger         *slog.Logger
}

// NewEventConsumer creates a consumer reading from the payment events topic.
func NewEventConsumer(
	brokers []string,
	topic, groupID string,
	confirmHandler commands.ConfirmPaymentCommandHandler,
	failHandler commands.FailPaymentCommandHandler,
	logger *slog.Logger,
) *EventConsumer {
	return &EventConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		confirmHandler: confirmHandler,
		failHandler:    failHandler,
		logger:         logger.With("component", "payment_event_consumer"),
	}
}

// Run consumes events until the context is canceled. An event's offset is
// committed only after it was processed successfully; malformed events are
// logged and skipped since redelivery cannot fix them.
func (c *EventConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var event gatewayEvent
		if err = json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.ErrorContext(ctx, "Malformed payment event, skipping",
				"offset", msg.Offset, "error", err)
			if err = c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err = c.process(ctx, event); err != nil {
			// Not committed: the event is redelivered.
			c.logger.ErrorContext(ctx, "Payment event processing failed",
				"order_id", event.OrderID, "status", event.Status, "error", err)
			continue
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// process dispatches one gateway event. Events that cannot succeed on
// redelivery (unknown order, unparseable ID) are treated as processed.
func (c *EventConsumer) process(ctx context.Context, event gatewayEvent) error {
	orderID, err := kernel.UUIDFromString(event.OrderID)
	if err != nil {
		c.logger.ErrorContext(ctx, "Payment event carries invalid order ID",
			"order_id", event.OrderID, "error", err)
		return nil
	}

	switch event.Status {
	case "captured":
		err = c.onCaptured(ctx, orderID, event.PaymentID)
	case "failed":
		err = c.onFailed(ctx, orderID, event.Reason)
	default:
		c.logger.ErrorContext(ctx, "Payment event carries unknown status",
			"order_id", event.OrderID, "status", event.Status)
		return nil
	}

	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		c.logger.WarnContext(ctx, "Payment event for unknown order, dropping",
			"order_id", event.OrderID)
		return nil
	}
	return err
}

// onCaptured applies a successful capture to the order.
func (c *EventConsumer) onCaptured(ctx context.Context, orderID kernel.UUID, paymentID string) error {
	cmd, err := commands.NewConfirmPaymentCommand(orderID, paymentID, gatewayActor)
	if err != nil {
		return err
	}

	_, err = c.confirmHandler.Handle(ctx, cmd)
	return err
}

// onFailed applies a failed capture to the order.
func (c *EventConsumer) onFailed(ctx context.Context, orderID kernel.UUID, reason string) error {
	cmd, err := commands.NewFailPaymentCommand(orderID, reason, gatewayActor)
	if err != nil {
		return err
	}

	_, err = c.failHandler.Handle(ctx, cmd)
	return err
}

// Close closes the underlying reader.
func (c *EventConsumer) Close() error {
	return c.reader.Close()
}
