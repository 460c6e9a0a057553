package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand intentionally terminates an order before delivery.
// A reason is always required; cancellation after a failed delivery attempt
// additionally requires the admin override flag.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	reason        string
	actor         string
	adminOverride bool
	version       int64

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order.
func NewCancelOrderCommand(
	orderID kernel.UUID,
	reason, actor string,
	adminOverride bool,
	version int64,
) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		adminOverride: adminOverride,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the mandatory cancellation reason.
func (c CancelOrderCommand) Reason() string { return c.reason }

// Actor returns the identity recorded in the audit trail.
func (c CancelOrderCommand) Actor() string { return c.actor }

// AdminOverride reports whether an administrator authorized a post-dispatch
// cancellation.
func (c CancelOrderCommand) AdminOverride() bool { return c.adminOverride }

// Version returns the caller's last-seen aggregate version.
func (c CancelOrderCommand) Version() int64 { return c.version }

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

func (c *CancelOrderCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *CancelOrderCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// CancelOrderCommandHandler cancels an order, releasing reserved inventory
// inside the transaction boundary. If payment had completed, the aggregate
// auto-initiates a refund of the refundable balance.
type CancelOrderCommandHandler struct {
	transitioner
	inventory ports.Inventory
	notifier  ports.Notifier
	logger    *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	inventory ports.Inventory,
	notifier ports.Notifier,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		inventory:    inventory,
		notifier:     notifier,
		logger:       logger.With("component", "cancel_order_handler"),
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		wasReserved := aggregate.Status().AtOrPastConfirmation()

		if cancelErr := aggregate.Cancel(cmd.Actor(), cmd.Reason(), cmd.AdminOverride()); cancelErr != nil {
			return cancelErr
		}

		// Inventory was reserved at confirmation; release it inside the
		// transition boundary so a release failure rolls everything back.
		if wasReserved {
			if invErr := h.inventory.Release(ctx, aggregate.ID(), aggregate.Items()); invErr != nil {
				return errs.NewSideEffectError("release inventory", invErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notifyErr := h.notifier.Notify(ctx, aggregate.CustomerID(), "order_canceled", map[string]any{
		"order_number": aggregate.Number(),
		"reason":       cmd.Reason(),
	}); notifyErr != nil {
		h.logger.WarnContext(ctx, "Cancellation notification failed",
			"order_id", aggregate.ID().String(), "error", notifyErr)
	}

	return aggregate, nil
}
