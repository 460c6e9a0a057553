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

var ErrStartPreparingCommandIsNotConstructed = errors.New(
	"StartPreparingCommand must be created via NewStartPreparingCommand constructor",
)

// StartPreparingCommand moves a confirmed order into fulfillment.
type StartPreparingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewStartPreparingCommand creates a command to start order preparation.
func NewStartPreparingCommand(orderID kernel.UUID, actor string, version int64) (StartPreparingCommand, error) {
	cmd := StartPreparingCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return StartPreparingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartPreparingCommand) Validate() error {
	return c.guard.Validate(ErrStartPreparingCommandIsNotConstructed)
}

// OrderID returns the order to prepare.
func (c StartPreparingCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the identity recorded in the audit trail.
func (c StartPreparingCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c StartPreparingCommand) Version() int64 { return c.version }

func (c *StartPreparingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *StartPreparingCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *StartPreparingCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// StartPreparingCommandHandler moves an order from confirmed to preparing.
type StartPreparingCommandHandler struct {
	transitioner
}

// NewStartPreparingCommandHandler creates a handler for starting preparation.
func NewStartPreparingCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) StartPreparingCommandHandler {
	return StartPreparingCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the command.
func (h StartPreparingCommandHandler) Handle(ctx context.Context, cmd StartPreparingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.StartPreparing(cmd.Actor())
	})
}
