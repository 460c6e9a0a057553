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

var ErrRejectReturnCommandIsNotConstructed = errors.New(
	"RejectReturnCommand must be created via NewRejectReturnCommand constructor",
)

// RejectReturnCommand declines a pending return request. Rejection closes the
// order: the customer cannot re-request a return for the same order.
type RejectReturnCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string
	actor   string
	version int64

	guard guard.ConstructorGuard
}

// NewRejectReturnCommand creates a command to reject a return request.
func NewRejectReturnCommand(orderID kernel.UUID, reason, actor string, version int64) (RejectReturnCommand, error) {
	cmd := RejectReturnCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setActor(actor),
		cmd.setVersion(version),
	); err != nil {
		return RejectReturnCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectReturnCommand) Validate() error {
	return c.guard.Validate(ErrRejectReturnCommandIsNotConstructed)
}

// OrderID returns the order with a pending return request.
func (c RejectReturnCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the mandatory rejection reason.
func (c RejectReturnCommand) Reason() string { return c.reason }

// Actor returns the identity recorded in the audit trail.
func (c RejectReturnCommand) Actor() string { return c.actor }

// Version returns the caller's last-seen aggregate version.
func (c RejectReturnCommand) Version() int64 { return c.version }

func (c *RejectReturnCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RejectReturnCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}

func (c *RejectReturnCommand) setActor(actor string) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	c.actor = actor
	return nil
}

func (c *RejectReturnCommand) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}
	c.version = version
	return nil
}

// RejectReturnCommandHandler declines a return request.
type RejectReturnCommandHandler struct {
	transitioner
}

// NewRejectReturnCommandHandler creates a handler for return rejections.
func NewRejectReturnCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) RejectReturnCommandHandler {
	return RejectReturnCommandHandler{transitioner: newTransitioner(uowFactory, publisher)}
}

// Handle processes the rejection.
func (h RejectReturnCommandHandler) Handle(ctx context.Context, cmd RejectReturnCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.apply(ctx, cmd.OrderID(), cmd.Version(), func(aggregate *order.Order) error {
		return aggregate.RejectReturn(cmd.Actor(), cmd.Reason())
	})
}
