package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrMarkReadyForPickupCommandIsNotConstructed = errors.New(
	"MarkReadyForPickupCommand must be created via NewMarkReadyForPickupCommand constructor",
)

// MarkReadyForPickupCommand records that preparation finished and the order
// awaits dispatch.
type MarkReadyForPickupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewMarkReadyForPickupCommand creates a command to mark an order ready for pickup.
func NewMarkReadyForPickupCommand(orderID kernel.UUID, actor string, version int64) (MarkReadyForPickupCommand, error) {
	cmd := MarkReadyForPickupCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return MarkReadyForPickupCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReadyForPickupCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyForPickupCommandIsNotConstructed)
}

// OrderID returns the prepared order.
func (c MarkReadyForPickupCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the identity recorded in the audit trail.
func (c MarkReadyForPickupCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c MarkReadyForPickupCommand) Version() int64 { return c.version }

func (c *MarkReadyForPickupCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *MarkReadyForPickupCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *MarkReadyForPickupCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// MarkReadyForPickupCommandHandler completes the preparation phase.
type MarkReadyForPickupCommandHandler struct {
	transitioner
}

// NewMarkReadyForPickupCommandHandler creates a handler for completing preparation.
func NewMarkReadyForPickupCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) MarkReadyForPickupCommandHandler {
	return MarkReadyForPickupCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the command.
func (h MarkReadyForPickupCommandHandler) Handle(ctx context.Context, cmd MarkReadyForPickupCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.MarkReadyForPickup(cmd.Actor())
	})
}
