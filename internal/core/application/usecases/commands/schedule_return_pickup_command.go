package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrScheduleReturnPickupCommandIsNotConstructed = errors.New(
	"ScheduleReturnPickupCommand must be created via NewScheduleReturnPickupCommand constructor",
)

// ScheduleReturnPickupCommand books a pickup slot for an approved return.
type ScheduleReturnPickupCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	pickupAt time.Time
	actor    string
	version  int64

	guard guard.ConstructorGuard
}

// NewScheduleReturnPickupCommand creates a command to schedule a return pickup.
func NewScheduleReturnPickupCommand(
	orderID kernel.UUID,
	pickupAt time.Time,
	actor string,
	version int64,
) (ScheduleReturnPickupCommand, error) {
	cmd := ScheduleReturnPickupCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPickupAt(pickupAt),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return ScheduleReturnPickupCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ScheduleReturnPickupCommand) Validate() error {
	return c.guard.Validate(ErrScheduleReturnPickupCommandIsNotConstructed)
}

// OrderID returns the order with an approved return.
func (c ScheduleReturnPickupCommand) OrderID() kernel.UUID { return c.orderID }

// PickupAt returns the scheduled pickup time.
func (c ScheduleReturnPickupCommand) PickupAt() time.Time { return c.pickupAt }

// Actor returns the identity recorded in the audit trail.
func (c ScheduleReturnPickupCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c ScheduleReturnPickupCommand) Version() int64 { return c.version }

func (c *ScheduleReturnPickupCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ScheduleReturnPickupCommand) setPickupAt(pickupAt time.Time) error {
	if pickupAt.IsZero() {
		return errs.NewValueIsRequiredError("pickupAt")
	}
	c.pickupAt = pickupAt
	return nil
}

func (c *ScheduleReturnPickupCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *ScheduleReturnPickupCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// ScheduleReturnPickupCommandHandler books a return pickup slot.
type ScheduleReturnPickupCommandHandler struct {
	transitioner
}

// NewScheduleReturnPickupCommandHandler creates a handler for pickup scheduling.
func NewScheduleReturnPickupCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ScheduleReturnPickupCommandHandler {
	return ScheduleReturnPickupCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the scheduling command.
func (h ScheduleReturnPickupCommandHandler) Handle(ctx context.Context, cmd ScheduleReturnPickupCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.ScheduleReturnPickup(cmd.Actor(), cmd.PickupAt())
	})
}
