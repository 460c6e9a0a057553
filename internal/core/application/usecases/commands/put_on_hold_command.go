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

var ErrPutOnHoldCommandIsNotConstructed = errors.New(
	"PutOnHoldCommand must be created via NewPutOnHoldCommand constructor",
)

// PutOnHoldCommand pauses an active order. The aggregate captures the current
// status so a later release restores the order exactly where it was.
type PutOnHoldCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewPutOnHoldCommand creates a command to pause an order.
func NewPutOnHoldCommand(orderID kernel.UUID, reason, actor string, version int64) (PutOnHoldCommand, error) {
	cmd := PutOnHoldCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return PutOnHoldCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PutOnHoldCommand) Validate() error {
	return c.guard.Validate(ErrPutOnHoldCommandIsNotConstructed)
}

// OrderID returns the order to pause.
func (c PutOnHoldCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the mandatory hold reason.
func (c PutOnHoldCommand) Reason() string { return c.reason }

// Actor returns the identity recorded in the audit trail.
func (c PutOnHoldCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c PutOnHoldCommand) Version() int64 { return c.version }

func (c *PutOnHoldCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PutOnHoldCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

func (c *PutOnHoldCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *PutOnHoldCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// PutOnHoldCommandHandler pauses an order in any holdable state.
type PutOnHoldCommandHandler struct {
	transitioner
}

// NewPutOnHoldCommandHandler creates a handler for pausing orders.
func NewPutOnHoldCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) PutOnHoldCommandHandler {
	return PutOnHoldCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the command.
func (h PutOnHoldCommandHandler) Handle(ctx context.Context, cmd PutOnHoldCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.PutOnHold(cmd.Actor(), cmd.Reason())
	})
}
