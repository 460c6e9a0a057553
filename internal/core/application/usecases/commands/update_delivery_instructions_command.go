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

var ErrUpdateDeliveryInstructionsCommandIsNotConstructed = errors.New(
	"UpdateDeliveryInstructionsCommand must be created via NewUpdateDeliveryInstructionsCommand constructor",
)

// UpdateDeliveryInstructionsCommand replaces the delivery instructions on an
// open order and records the change in the audit trail.
type UpdateDeliveryInstructionsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	text    string
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryInstructionsCommand creates a command to update delivery
// instructions. An empty text clears them.
func NewUpdateDeliveryInstructionsCommand(
	orderID kernel.UUID,
	text, actor string,
	version int64,
) (UpdateDeliveryInstructionsCommand, error) {
	cmd := UpdateDeliveryInstructionsCommand{text: text, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return UpdateDeliveryInstructionsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryInstructionsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryInstructionsCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c UpdateDeliveryInstructionsCommand) OrderID() kernel.UUID { return c.orderID }

// Text returns the replacement instructions.
func (c UpdateDeliveryInstructionsCommand) Text() string { return c.text }

// Actor returns the identity recorded in the audit trail.
func (c UpdateDeliveryInstructionsCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c UpdateDeliveryInstructionsCommand) Version() int64 { return c.version }

func (c *UpdateDeliveryInstructionsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateDeliveryInstructionsCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *UpdateDeliveryInstructionsCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// UpdateDeliveryInstructionsCommandHandler updates delivery instructions on
// any non-closed order.
type UpdateDeliveryInstructionsCommandHandler struct {
	transitioner
}

// NewUpdateDeliveryInstructionsCommandHandler creates a handler for instruction updates.
func NewUpdateDeliveryInstructionsCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) UpdateDeliveryInstructionsCommandHandler {
	return UpdateDeliveryInstructionsCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the update command.
func (h UpdateDeliveryInstructionsCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryInstructionsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.UpdateDeliveryInstructions(cmd.Actor(), cmd.Text())
	})
}
