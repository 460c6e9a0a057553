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

var ErrCompleteRefundCommandIsNotConstructed = errors.New(
	"CompleteRefundCommand must be created via NewCompleteRefundCommand constructor",
)

// CompleteRefundCommand records the settlement of a pending refund using the
// reference supplied by the payment gateway.
type CompleteRefundCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	reference string
	actor     string
	version   int64

	guard guard.ConstructorGuard
}

// NewCompleteRefundCommand creates a command to settle a pending refund.
func NewCompleteRefundCommand(
	orderID kernel.UUID,
	reference, actor string,
	version int64,
) (CompleteRefundCommand, error) {
	cmd := CompleteRefundCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReference(reference),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return CompleteRefundCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteRefundCommand) Validate() error {
	return c.guard.Validate(ErrCompleteRefundCommandIsNotConstructed)
}

// OrderID returns the order with a pending refund.
func (c CompleteRefundCommand) OrderID() kernel.UUID { return c.orderID }

// Reference returns the gateway settlement reference.
func (c CompleteRefundCommand) Reference() string { return c.reference }

// Actor returns the identity recorded in the audit trail.
func (c CompleteRefundCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c CompleteRefundCommand) Version() int64 { return c.version }

func (c *CompleteRefundCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CompleteRefundCommand) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	c.reference = reference
	return nil
}

func (c *CompleteRefundCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *CompleteRefundCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// CompleteRefundCommandHandler settles a pending refund. When the return was
// approved with restocking, the received goods go back to stock within the
// same transaction boundary.
type CompleteRefundCommandHandler struct {
	transitioner
	inventory ports.Inventory
	notifier  ports.Notifier
	logger    *slog.Logger
}

// NewCompleteRefundCommandHandler creates a handler for refund settlement.
func NewCompleteRefundCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	inventory ports.Inventory,
	notifier ports.Notifier,
	logger *slog.Logger,
) CompleteRefundCommandHandler {
	return CompleteRefundCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		inventory:    inventory,
		notifier:     notifier,
		logger:       logger.With("component", "complete_refund_handler"),
	}
}

// Handle processes the refund settlement.
func (h CompleteRefundCommandHandler) Handle(ctx context.Context, cmd CompleteRefundCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		restock := aggregate.RestockOnReturn() && aggregate.ReturnedAt() != nil

		if refundErr := aggregate.CompleteRefund(cmd.Actor(), cmd.Reference()); refundErr != nil {
			return refundErr
		}

		if restock {
			if invErr := h.inventory.Restock(ctx, aggregate.Items()); invErr != nil {
				return errs.NewSideEffectError("restock returned goods", invErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notifyErr := h.notifier.Notify(ctx, aggregate.CustomerID(), "refund_completed", map[string]any{
		"order_number": aggregate.Number(),
		"amount":       aggregate.RefundAmount(),
		"reference":    cmd.Reference(),
	}); notifyErr != nil {
		h.logger.WarnContext(ctx, "Refund notification failed",
			"order_id", aggregate.ID().String(), "error", notifyErr)
	}

	return aggregate, nil
}
