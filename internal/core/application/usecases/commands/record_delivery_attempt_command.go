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

var ErrRecordDeliveryAttemptCommandIsNotConstructed = errors.New(
	"RecordDeliveryAttemptCommand must be created via NewRecordDeliveryAttemptCommand constructor",
)

// RecordDeliveryAttemptCommand records a failed delivery attempt reported by
// the delivery system.
type RecordDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string
	notes   string
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewRecordDeliveryAttemptCommand creates a command to record a failed attempt.
func NewRecordDeliveryAttemptCommand(
	orderID kernel.UUID,
	reason, notes, actor string,
	version int64,
) (RecordDeliveryAttemptCommand, error) {
	cmd := RecordDeliveryAttemptCommand{notes: notes, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return RecordDeliveryAttemptCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrRecordDeliveryAttemptCommandIsNotConstructed)
}

// OrderID returns the order the attempt was made for.
func (c RecordDeliveryAttemptCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the mandatory failure reason.
func (c RecordDeliveryAttemptCommand) Reason() string { return c.reason }

// Notes returns optional free-form notes from the delivery personnel.
func (c RecordDeliveryAttemptCommand) Notes() string { return c.notes }

// Actor returns the identity recorded in the audit trail.
func (c RecordDeliveryAttemptCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c RecordDeliveryAttemptCommand) Version() int64 { return c.version }

func (c *RecordDeliveryAttemptCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RecordDeliveryAttemptCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

func (c *RecordDeliveryAttemptCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *RecordDeliveryAttemptCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// RecordDeliveryAttemptCommandHandler increments the attempt counter and moves
// the order to the attempted state.
type RecordDeliveryAttemptCommandHandler struct {
	transitioner
}

// NewRecordDeliveryAttemptCommandHandler creates a handler for failed attempts.
func NewRecordDeliveryAttemptCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) RecordDeliveryAttemptCommandHandler {
	return RecordDeliveryAttemptCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the command.
func (h RecordDeliveryAttemptCommandHandler) Handle(ctx context.Context, cmd RecordDeliveryAttemptCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.RecordDeliveryAttempt(cmd.Actor(), cmd.Reason(), cmd.Notes())
	})
}
