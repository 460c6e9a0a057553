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

var ErrRetryDeliveryCommandIsNotConstructed = errors.New(
	"RetryDeliveryCommand must be created via NewRetryDeliveryCommand constructor",
)

// RetryDeliveryCommand re-dispatches an order after a failed delivery attempt,
// optionally with a new scheduled time and different personnel.
type RetryDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	newTime     *time.Time
	personnelID *kernel.UUID
	actor       string
	version     int64

	guard guard.ConstructorGuard
}

// NewRetryDeliveryCommand creates a command to retry delivery. Both newTime
// and personnelID may be nil to keep the previous values.
func NewRetryDeliveryCommand(
	orderID kernel.UUID,
	newTime *time.Time,
	personnelID *kernel.UUID,
	actor string,
	version int64,
) (RetryDeliveryCommand, error) {
	cmd := RetryDeliveryCommand{newTime: newTime, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPersonnelID(personnelID),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return RetryDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRetryDeliveryCommandIsNotConstructed)
}

// OrderID returns the order to re-dispatch.
func (c RetryDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// NewTime returns the rescheduled delivery time, nil to keep the previous one.
func (c RetryDeliveryCommand) NewTime() *time.Time { return c.newTime }

// PersonnelID returns the replacement personnel, nil to keep the previous one.
func (c RetryDeliveryCommand) PersonnelID() *kernel.UUID { return c.personnelID }

// Actor returns the identity recorded in the audit trail.
func (c RetryDeliveryCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c RetryDeliveryCommand) Version() int64 { return c.version }

func (c *RetryDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RetryDeliveryCommand) setPersonnelID(personnelID *kernel.UUID) error {
	if personnelID != nil {
		if err := personnelID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("personnelID", err)
		}
	}
	c.personnelID = personnelID
	return nil
}

func (c *RetryDeliveryCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *RetryDeliveryCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// RetryDeliveryCommandHandler re-dispatches an order after a failed attempt.
// The aggregate enforces the attempt limit; the external delivery system is
// informed about the retry inside the transaction boundary.
type RetryDeliveryCommandHandler struct {
	transitioner
	coordinator ports.DeliveryCoordinator
	maxAttempts int
}

// NewRetryDeliveryCommandHandler creates a handler for delivery retries.
func NewRetryDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	coordinator ports.DeliveryCoordinator,
	maxAttempts int,
) RetryDeliveryCommandHandler {
	return RetryDeliveryCommandHandler{
		transitioner: newTransitioner(uowFactory, publisher),
		coordinator:  coordinator,
		maxAttempts:  maxAttempts,
	}
}

// Handle processes the retry command.
func (h RetryDeliveryCommandHandler) Handle(ctx context.Context, cmd RetryDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		if err := aggregate.RetryDelivery(cmd.Actor(), h.maxAttempts, cmd.NewTime(), cmd.PersonnelID()); err != nil {
			return err
		}

		if err := h.coordinator.ScheduleRetry(ctx, aggregate.ID(), cmd.NewTime(), cmd.PersonnelID()); err != nil {
			return errs.NewSideEffectError("schedule delivery retry", err)
		}
		return nil
	})
}
