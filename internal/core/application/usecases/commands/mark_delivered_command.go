package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand records a successful handover to the customer.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	deliveredAt time.Time
	actor       string
	version     int64

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a command to mark an order delivered.
// A zero deliveredAt means the handover happened now.
func NewMarkDeliveredCommand(
	orderID kernel.UUID,
	deliveredAt time.Time,
	actor string,
	version int64,
) (MarkDeliveredCommand, error) {
	if deliveredAt.IsZero() {
		deliveredAt = time.Now().UTC()
	}

	cmd := MarkDeliveredCommand{deliveredAt: deliveredAt, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return MarkDeliveredCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// OrderID returns the delivered order.
func (c MarkDeliveredCommand) OrderID() kernel.UUID { return c.orderID }

// DeliveredAt returns the handover timestamp.
func (c MarkDeliveredCommand) DeliveredAt() time.Time { return c.deliveredAt }

// Actor returns the identity recorded in the audit trail.
func (c MarkDeliveredCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c MarkDeliveredCommand) Version() int64 { return c.version }

func (c *MarkDeliveredCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *MarkDeliveredCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *MarkDeliveredCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// MarkDeliveredCommandHandler completes the delivery. For cash orders this is
// also the settlement point: the aggregate marks the payment as collected.
type MarkDeliveredCommandHandler struct {
	transitioner
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewMarkDeliveredCommandHandler creates a handler for successful deliveries.
func NewMarkDeliveredCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
	logger *slog.Logger,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		notifier:     notifier,
		logger:       logger.With("component", "mark_delivered_handler"),
	}
}

// Handle processes the delivery completion command.
func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.MarkDelivered(cmd.Actor(), cmd.DeliveredAt())
	})
	if err != nil {
		return nil, err
	}

	if notifyErr := h.notifier.Notify(ctx, aggregate.CustomerID(), "order_delivered", map[string]any{
		"order_number": aggregate.Number(),
		"delivered_at": cmd.DeliveredAt(),
	}); notifyErr != nil {
		h.logger.WarnContext(ctx, "Delivery notification failed",
			"order_id", aggregate.ID().String(), "error", notifyErr)
	}

	return aggregate, nil
}
