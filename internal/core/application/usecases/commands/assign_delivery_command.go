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

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand dispatches a ready order to delivery personnel.
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	personnelID kernel.UUID
	actor       string
	version     int64

	guard guard.ConstructorGuard
}

// NewAssignDeliveryCommand creates a command to dispatch an order.
func NewAssignDeliveryCommand(
	orderID, personnelID kernel.UUID,
	actor string,
	version int64,
) (AssignDeliveryCommand, error) {
	cmd := AssignDeliveryCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPersonnelID(personnelID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

// OrderID returns the order to dispatch.
func (c AssignDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// PersonnelID returns the assigned delivery personnel.
func (c AssignDeliveryCommand) PersonnelID() kernel.UUID { return c.personnelID }

// Actor returns the identity recorded in the audit trail.
func (c AssignDeliveryCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c AssignDeliveryCommand) Version() int64 { return c.version }

func (c *AssignDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AssignDeliveryCommand) setPersonnelID(personnelID kernel.UUID) error {
	if err := personnelID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("personnelID", err)
	}
	c.personnelID = personnelID
	return nil
}

func (c *AssignDeliveryCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *AssignDeliveryCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// AssignDeliveryCommandHandler dispatches an order and notifies the external
// delivery system about the assignment within the same transaction boundary.
type AssignDeliveryCommandHandler struct {
	transitioner
	coordinator ports.DeliveryCoordinator
}

// NewAssignDeliveryCommandHandler creates a handler for dispatching orders.
func NewAssignDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	coordinator ports.DeliveryCoordinator,
) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		coordinator:  coordinator,
	}
}

// Handle processes the dispatch command.
func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		if err := aggregate.AssignDelivery(cmd.Actor(), cmd.PersonnelID()); err != nil {
			return err
		}

		if err := h.coordinator.AssignPersonnel(ctx, aggregate.ID(), cmd.PersonnelID()); err != nil {
			return errs.NewSideEffectError("assign delivery personnel", err)
		}
		return nil
	})
}
